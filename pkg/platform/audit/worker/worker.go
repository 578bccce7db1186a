// Package worker relays audit events from the Postgres outbox to Kafka and
// materializes them into the queryable audit_events table. Kafka is the
// source of truth; the outbox decouples emission from broker availability.
package worker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	txcontext "hireflow/pkg/platform/tx"
)

const defaultBatchSize = 100

// Materializer copies a relayed outbox payload into queryable storage.
type Materializer interface {
	Materialize(ctx context.Context, payload []byte) error
}

// Worker polls the outbox table and produces pending entries to Kafka.
type Worker struct {
	db       *sql.DB
	producer *kgo.Client
	topic    string
	store    Materializer
	logger   *slog.Logger
	interval time.Duration
}

func New(db *sql.DB, producer *kgo.Client, topic string, store Materializer, logger *slog.Logger) *Worker {
	return &Worker{
		db:       db,
		producer: producer,
		topic:    topic,
		store:    store,
		logger:   logger,
		interval: 2 * time.Second,
	}
}

// Run polls until the context is cancelled. Relay errors are logged and
// retried on the next tick; the outbox row is only deleted after Kafka
// acknowledges the record, so delivery is at-least-once.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.relayBatch(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

type outboxRow struct {
	id      string
	key     string
	payload []byte
}

func (w *Worker) relayBatch(ctx context.Context) error {
	rows, err := w.db.QueryContext(ctx, `
		SELECT id, aggregate_id, payload
		FROM outbox
		ORDER BY created_at ASC
		LIMIT $1
	`, defaultBatchSize)
	if err != nil {
		return fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var pending []outboxRow
	for rows.Next() {
		var row outboxRow
		if err := rows.Scan(&row.id, &row.key, &row.payload); err != nil {
			return fmt.Errorf("scan outbox row: %w", err)
		}
		pending = append(pending, row)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, row := range pending {
		record := &kgo.Record{
			Topic: w.topic,
			Key:   []byte(row.key),
			Value: row.payload,
		}
		if err := w.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
			return fmt.Errorf("produce outbox entry %s: %w", row.id, err)
		}
		if err := w.finalize(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// finalize materializes the event into audit_events and removes the outbox
// row in one transaction, so a crash cannot delete the row without the
// materialized copy. Duplicate materialization after a crash between produce
// and commit is absorbed by the store's idempotent insert.
func (w *Worker) finalize(ctx context.Context, row outboxRow) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finalize for outbox entry %s: %w", row.id, err)
	}
	defer tx.Rollback()

	if err := w.store.Materialize(txcontext.WithTx(ctx, tx), row.payload); err != nil {
		return fmt.Errorf("materialize outbox entry %s: %w", row.id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM outbox WHERE id = $1`, row.id); err != nil {
		return fmt.Errorf("delete outbox entry %s: %w", row.id, err)
	}
	return tx.Commit()
}
