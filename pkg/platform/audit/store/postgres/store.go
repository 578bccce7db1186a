package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "hireflow/pkg/domain"
	audit "hireflow/pkg/platform/audit"
	txcontext "hireflow/pkg/platform/tx"
)

// Store implements audit.Store using the transactional outbox pattern.
// Events are written to the outbox table and published to Kafka by the outbox
// worker. Kafka is the source of truth for audit events.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// outboxPayload is the JSON structure published to Kafka. Field names match
// audit.Event for proper deserialization by the consumer.
type outboxPayload struct {
	ID          string `json:"ID"`
	Category    string `json:"Category"`
	Timestamp   string `json:"Timestamp"`
	TenantID    string `json:"TenantID,omitempty"`
	ApplicantID string `json:"ApplicantID,omitempty"`
	Action      string `json:"Action"`
	Decision    string `json:"Decision,omitempty"`
	Reason      string `json:"Reason,omitempty"`
	Actor       string `json:"Actor,omitempty"`
	RequestID   string `json:"RequestID,omitempty"`
	Device      string `json:"Device,omitempty"`
}

// Append writes an audit event to the outbox table for Kafka publishing.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()

	// Category is always derived from the action so the map in audit stays
	// the single source of truth.
	category := audit.AuditEvent(event.Action).Category()

	payload := outboxPayload{
		ID:        eventID.String(),
		Category:  string(category),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Action:    event.Action,
		Decision:  event.Decision,
		Reason:    event.Reason,
		Actor:     event.Actor,
		RequestID: event.RequestID,
		Device:    event.Device,
	}
	if !event.TenantID.IsNil() {
		payload.TenantID = event.TenantID.String()
	}
	if !event.ApplicantID.IsNil() {
		payload.ApplicantID = event.ApplicantID.String()
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	aggregateType := "audit"
	aggregateID := eventID.String()
	if !event.ApplicantID.IsNil() {
		aggregateType = "applicant"
		aggregateID = event.ApplicantID.String()
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		uuid.New(), // outbox entry ID
		aggregateType,
		aggregateID,
		event.Action,
		payloadBytes,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// Materialize decodes an outbox payload and inserts it into the queryable
// audit_events table. The outbox relay calls it after Kafka acknowledges the
// record, inside the same transaction as the outbox delete (see execer).
func (s *Store) Materialize(ctx context.Context, payload []byte) error {
	var p outboxPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode outbox payload: %w", err)
	}
	eventID, err := uuid.Parse(p.ID)
	if err != nil {
		return fmt.Errorf("parse audit event id: %w", err)
	}

	event := audit.Event{
		Category:  audit.EventCategory(p.Category),
		Action:    p.Action,
		Decision:  p.Decision,
		Reason:    p.Reason,
		Actor:     p.Actor,
		RequestID: p.RequestID,
		Device:    p.Device,
	}
	if p.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339Nano, p.Timestamp)
		if err != nil {
			return fmt.Errorf("parse audit timestamp: %w", err)
		}
		event.Timestamp = ts
	}
	if p.TenantID != "" {
		tid, err := uuid.Parse(p.TenantID)
		if err != nil {
			return fmt.Errorf("parse tenant id: %w", err)
		}
		event.TenantID = id.TenantID(tid)
	}
	if p.ApplicantID != "" {
		aid, err := uuid.Parse(p.ApplicantID)
		if err != nil {
			return fmt.Errorf("parse applicant id: %w", err)
		}
		event.ApplicantID = id.ApplicantID(aid)
	}
	return s.AppendWithID(ctx, eventID, event)
}

// AppendWithID inserts an audit event into the audit_events table with a
// specific ID. The relay delivers at-least-once, so duplicate inserts are
// ignored via ON CONFLICT DO NOTHING.
func (s *Store) AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, tenant_id, applicant_id, action,
			decision, reason, actor, request_id, device
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`

	var tenantID, applicantID *uuid.UUID
	if !event.TenantID.IsNil() {
		tid := uuid.UUID(event.TenantID)
		tenantID = &tid
	}
	if !event.ApplicantID.IsNil() {
		aid := uuid.UUID(event.ApplicantID)
		applicantID = &aid
	}

	_, err := s.execer(ctx).ExecContext(ctx, query,
		eventID,
		string(audit.AuditEvent(event.Action).Category()),
		event.Timestamp,
		tenantID,
		applicantID,
		event.Action,
		event.Decision,
		event.Reason,
		event.Actor,
		event.RequestID,
		event.Device,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByApplicant reads materialized audit events for one applicant in
// timestamp order.
func (s *Store) ListByApplicant(ctx context.Context, applicantID id.ApplicantID) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, tenant_id, applicant_id, action,
		       decision, reason, actor, request_id, device
		FROM audit_events
		WHERE applicant_id = $1
		ORDER BY timestamp ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(applicantID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			event       audit.Event
			category    string
			tenantID    sql.Null[uuid.UUID]
			applicantID sql.Null[uuid.UUID]
		)
		if err := rows.Scan(
			&category,
			&event.Timestamp,
			&tenantID,
			&applicantID,
			&event.Action,
			&event.Decision,
			&event.Reason,
			&event.Actor,
			&event.RequestID,
			&event.Device,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		if tenantID.Valid {
			event.TenantID = id.TenantID(tenantID.V)
		}
		if applicantID.Valid {
			event.ApplicantID = id.ApplicantID(applicantID.V)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
