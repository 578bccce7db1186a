//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	appstore "hireflow/internal/applicant/store"
	id "hireflow/pkg/domain"
	audit "hireflow/pkg/platform/audit"
	auditpostgres "hireflow/pkg/platform/audit/store/postgres"
	txcontext "hireflow/pkg/platform/tx"
	"hireflow/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	db       *sql.DB
	store    *auditpostgres.Store
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(appstore.NewPostgres(s.postgres.Pool).EnsureSchema(context.Background()))

	db, err := sql.Open("postgres", s.postgres.URL)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })
	s.db = db
	s.store = auditpostgres.New(db)
}

func (s *AuditStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "outbox", "audit_events")
	s.Require().NoError(err)
}

func (s *AuditStoreSuite) event(applicantID id.ApplicantID) audit.Event {
	return audit.Event{
		Timestamp:   time.Now().UTC().Round(time.Microsecond),
		TenantID:    id.TenantID(uuid.New()),
		ApplicantID: applicantID,
		Action:      string(audit.EventStatusChanged),
		Reason:      "changed from intake to interviewing",
		Actor:       "rh.analyst",
	}
}

// readOutbox returns the single pending outbox row.
func (s *AuditStoreSuite) readOutbox(ctx context.Context) (string, []byte) {
	var rowID string
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT id, payload FROM outbox`).Scan(&rowID, &payload)
	s.Require().NoError(err)
	return rowID, payload
}

func (s *AuditStoreSuite) TestAppendWritesOutbox() {
	ctx := context.Background()
	applicantID := id.ApplicantID(uuid.New())

	s.Require().NoError(s.store.Append(ctx, s.event(applicantID)))

	var aggregateID, eventType string
	err := s.db.QueryRowContext(ctx,
		`SELECT aggregate_id, event_type FROM outbox`).Scan(&aggregateID, &eventType)
	s.Require().NoError(err)
	s.Equal(applicantID.String(), aggregateID)
	s.Equal(string(audit.EventStatusChanged), eventType)
}

func (s *AuditStoreSuite) TestMaterializeSharesTheFinalizeTransaction() {
	ctx := context.Background()
	applicantID := id.ApplicantID(uuid.New())
	original := s.event(applicantID)

	s.Require().NoError(s.store.Append(ctx, original))
	rowID, payload := s.readOutbox(ctx)

	// Materialize and delete the outbox row the way the relay does: one
	// transaction carried through the context.
	tx, err := s.db.BeginTx(ctx, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Materialize(txcontext.WithTx(ctx, tx), payload))
	_, err = tx.ExecContext(ctx, `DELETE FROM outbox WHERE id = $1`, rowID)
	s.Require().NoError(err)
	s.Require().NoError(tx.Commit())

	events, err := s.store.ListByApplicant(ctx, applicantID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(original.Action, events[0].Action)
	s.Equal(original.Reason, events[0].Reason)
	s.Equal(original.Actor, events[0].Actor)
	s.Equal(applicantID, events[0].ApplicantID)
	s.Equal(audit.CategoryCompliance, events[0].Category)

	var remaining int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox`).Scan(&remaining))
	s.Zero(remaining)
}

func (s *AuditStoreSuite) TestMaterializeRollbackLeavesNothing() {
	ctx := context.Background()
	applicantID := id.ApplicantID(uuid.New())

	s.Require().NoError(s.store.Append(ctx, s.event(applicantID)))
	_, payload := s.readOutbox(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Materialize(txcontext.WithTx(ctx, tx), payload))
	s.Require().NoError(tx.Rollback())

	events, err := s.store.ListByApplicant(ctx, applicantID)
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *AuditStoreSuite) TestMaterializeIsIdempotent() {
	ctx := context.Background()
	applicantID := id.ApplicantID(uuid.New())

	s.Require().NoError(s.store.Append(ctx, s.event(applicantID)))
	_, payload := s.readOutbox(ctx)

	s.Require().NoError(s.store.Materialize(ctx, payload))
	s.Require().NoError(s.store.Materialize(ctx, payload))

	events, err := s.store.ListByApplicant(ctx, applicantID)
	s.Require().NoError(err)
	s.Len(events, 1)
}
