package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hireflow/internal/applicant/models"
	id "hireflow/pkg/domain"
	"hireflow/pkg/platform/sentinel"
)

//go:embed schema.sql
var schema string

// Postgres implements Store and HistoryStore on pgx. Sub-records are JSONB;
// the approval grant rides dedicated columns so the token never appears in a
// JSON payload.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema applies the idempotent schema. Called at startup and by
// integration tests.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const applicantColumns = `
	id, tenant_id, full_name, national_id, email, phone, position, department,
	status, interview, tests, documents, accreditation, hiring, worker,
	approval_token, approval_issued_at, approval_expires_at,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplicant(row rowScanner) (*models.Applicant, error) {
	var (
		a                                                          models.Applicant
		applicantID, tenantID                                      uuid.UUID
		interview, tests, documents, accreditation, hiring, worker []byte
		token                                                      *string
		issuedAt, expiresAt                                        *time.Time
	)
	err := row.Scan(
		&applicantID, &tenantID, &a.FullName, &a.NationalID, &a.Email, &a.Phone,
		&a.Position, &a.Department, &a.Status,
		&interview, &tests, &documents, &accreditation, &hiring, &worker,
		&token, &issuedAt, &expiresAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan applicant: %w", err)
	}

	a.ID = id.ApplicantID(applicantID)
	a.TenantID = id.TenantID(tenantID)

	for _, field := range []struct {
		raw  []byte
		into any
	}{
		{interview, &a.Interview},
		{tests, &a.Tests},
		{documents, &a.Documents},
		{accreditation, &a.Accreditation},
		{hiring, &a.Hiring},
		{worker, &a.Worker},
	} {
		if len(field.raw) > 0 {
			if err := json.Unmarshal(field.raw, field.into); err != nil {
				return nil, fmt.Errorf("unmarshal applicant sub-record: %w", err)
			}
		}
	}

	if token != nil && *token != "" && issuedAt != nil && expiresAt != nil {
		a.Hiring.Grant = &models.ApprovalGrant{Token: *token, IssuedAt: *issuedAt, ExpiresAt: *expiresAt}
	} else {
		a.Hiring.Grant = nil
	}
	return &a, nil
}

type applicantArgs struct {
	interview, tests, documents, accreditation, hiring, worker []byte
	token                                                      *string
	issuedAt, expiresAt                                        *time.Time
}

func encodeApplicant(a *models.Applicant) (applicantArgs, error) {
	var args applicantArgs
	var err error

	// The grant is persisted in its own columns; strip it from the JSONB
	// payload so the token never lands in a JSON column.
	hiring := a.Hiring
	hiring.Grant = nil

	if grant := a.Hiring.Grant; grant != nil && grant.Token != "" {
		token := grant.Token
		issuedAt := grant.IssuedAt
		expiresAt := grant.ExpiresAt
		args.token, args.issuedAt, args.expiresAt = &token, &issuedAt, &expiresAt
	}

	for _, field := range []struct {
		value any
		into  *[]byte
	}{
		{a.Interview, &args.interview},
		{a.Tests, &args.tests},
		{a.Documents, &args.documents},
		{a.Accreditation, &args.accreditation},
		{hiring, &args.hiring},
		{a.Worker, &args.worker},
	} {
		if *field.into, err = json.Marshal(field.value); err != nil {
			return args, fmt.Errorf("marshal applicant sub-record: %w", err)
		}
	}
	return args, nil
}

func (s *Postgres) Create(ctx context.Context, a *models.Applicant) error {
	args, err := encodeApplicant(a)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO applicants (`+applicantColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		uuid.UUID(a.ID), uuid.UUID(a.TenantID), a.FullName, a.NationalID, a.Email, a.Phone,
		a.Position, a.Department, a.Status,
		args.interview, args.tests, args.documents, args.accreditation, args.hiring, args.worker,
		args.token, args.issuedAt, args.expiresAt,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert applicant: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, applicantID id.ApplicantID) (*models.Applicant, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE id = $1`,
		uuid.UUID(applicantID))
	return scanApplicant(row)
}

const updateApplicantSQL = `
	UPDATE applicants SET
		full_name = $2, email = $3, phone = $4, position = $5, department = $6,
		status = $7, interview = $8, tests = $9, documents = $10,
		accreditation = $11, hiring = $12, worker = $13,
		approval_token = $14, approval_issued_at = $15, approval_expires_at = $16,
		updated_at = $17
	WHERE id = $1`

func updateArgs(a *models.Applicant, args applicantArgs) []any {
	return []any{
		uuid.UUID(a.ID), a.FullName, a.Email, a.Phone, a.Position, a.Department,
		a.Status, args.interview, args.tests, args.documents,
		args.accreditation, args.hiring, args.worker,
		args.token, args.issuedAt, args.expiresAt,
		a.UpdatedAt,
	}
}

func (s *Postgres) Update(ctx context.Context, a *models.Applicant) error {
	args, err := encodeApplicant(a)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, updateApplicantSQL, updateArgs(a, args)...)
	if err != nil {
		return fmt.Errorf("update applicant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Execute locks the row with FOR UPDATE so validation and mutation observe
// the same state.
func (s *Postgres) Execute(ctx context.Context, applicantID id.ApplicantID,
	validate func(*models.Applicant) error,
	mutate func(*models.Applicant) []models.HistoryEntry) (*models.Applicant, error) {

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE id = $1 FOR UPDATE`,
		uuid.UUID(applicantID))
	applicant, err := scanApplicant(row)
	if err != nil {
		return nil, err
	}

	if err := validate(applicant); err != nil {
		return nil, err
	}
	entries := mutate(applicant)

	args, err := encodeApplicant(applicant)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, updateApplicantSQL, updateArgs(applicant, args)...); err != nil {
		return nil, fmt.Errorf("update applicant: %w", err)
	}
	for _, entry := range entries {
		if _, err := tx.Exec(ctx, appendHistorySQL,
			uuid.UUID(entry.ApplicantID), entry.Status, entry.ChangedBy, entry.Comment, entry.Timestamp); err != nil {
			return nil, fmt.Errorf("append history: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return applicant, nil
}

func (s *Postgres) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Applicant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE tenant_id = $1 ORDER BY created_at`,
		uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("query applicants: %w", err)
	}
	defer rows.Close()
	return collectApplicants(rows)
}

func (s *Postgres) ListExpiredGrants(ctx context.Context, now time.Time) ([]*models.Applicant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+applicantColumns+` FROM applicants
		 WHERE approval_token IS NOT NULL AND approval_expires_at <= $1`,
		now)
	if err != nil {
		return nil, fmt.Errorf("query expired grants: %w", err)
	}
	defer rows.Close()
	return collectApplicants(rows)
}

func collectApplicants(rows pgx.Rows) ([]*models.Applicant, error) {
	var result []*models.Applicant
	for rows.Next() {
		applicant, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, applicant)
	}
	return result, rows.Err()
}

// Append writes one history entry. The BIGSERIAL key preserves append order
// even when two entries share a timestamp.
const appendHistorySQL = `
	INSERT INTO applicant_history (applicant_id, status, changed_by, comment, occurred_at)
	VALUES ($1, $2, $3, $4, $5)
`

func (s *Postgres) Append(ctx context.Context, entry models.HistoryEntry) error {
	_, err := s.pool.Exec(ctx, appendHistorySQL,
		uuid.UUID(entry.ApplicantID), entry.Status, entry.ChangedBy, entry.Comment, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *Postgres) List(ctx context.Context, applicantID id.ApplicantID) ([]models.HistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT applicant_id, status, changed_by, comment, occurred_at
		FROM applicant_history
		WHERE applicant_id = $1
		ORDER BY id ASC
	`, uuid.UUID(applicantID))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var (
			entry       models.HistoryEntry
			applicantID uuid.UUID
		)
		if err := rows.Scan(&applicantID, &entry.Status, &entry.ChangedBy, &entry.Comment, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.ApplicantID = id.ApplicantID(applicantID)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
