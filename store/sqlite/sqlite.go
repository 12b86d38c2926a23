/*
Package sqlite provides the SQLite-backed persistence for the advisory portal.

PURPOSE:
  Persists clients/prospects, deduction assessments, and questionnaire
  responses. The calculation and matching engines are pure; everything
  they produce is written here by the API layer ("compute-then-store" is
  a caller-level sequence, not an engine concern). In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  clients:                 Client/prospect records
  assessments:             Input snapshot + persisted calculation results
  questionnaire_responses: Raw answer map + matched strategy (if any)

MONEY COLUMNS:
  Calculation results are stored as TEXT holding decimal strings, never
  REAL. Parsing back through decimal.NewFromString keeps the figures
  exact end to end.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/advisor.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - api/handlers.go: The only writer
  - deduction/, strategy/: Producers of the persisted results
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrClientNotFound is returned when a referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrAssessmentNotFound is returned when a referenced assessment doesn't exist.
	ErrAssessmentNotFound = errors.New("assessment not found")

	// ErrResponseNotFound is returned when a referenced questionnaire
	// response doesn't exist.
	ErrResponseNotFound = errors.New("questionnaire response not found")

	// ErrDuplicateClient is returned when creating a client with an ID
	// that already exists.
	ErrDuplicateClient = errors.New("client already exists")
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// ClientStatus distinguishes paying clients from prospects.
type ClientStatus string

const (
	StatusClient   ClientStatus = "client"
	StatusProspect ClientStatus = "prospect"
)

// Client is a client or prospect of the practice.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Status    ClientStatus
	CreatedAt time.Time
}

// AssessmentRecord is one submitted deduction assessment: the raw input
// snapshot as JSON plus every calculated figure, stored exactly.
type AssessmentRecord struct {
	ID       string
	ClientID string

	InputJSON string

	OccupancyExpenses   decimal.Decimal
	RunningExpenses     decimal.Decimal
	HomeOfficeDeduction decimal.Decimal
	VehicleDeduction    decimal.Decimal
	EquipmentDeduction  decimal.Decimal
	TotalDeductions     decimal.Decimal
	EstimatedTaxSaving  decimal.Decimal
	RecommendedMethod   string

	CreatedAt time.Time
}

// ResponseRecord is one submitted questionnaire: the raw answer map, the
// derived no-answer set, and the matched strategy name (nil = no match).
type ResponseRecord struct {
	ID            string
	ClientID      string
	ResponsesJSON string
	NoAnswersJSON string
	StrategyName  *string
	CreatedAt     time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store implements persistence for the advisory portal using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Clients and prospects
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		status TEXT NOT NULL DEFAULT 'prospect',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_clients_status
		ON clients(status);

	-- Deduction assessments (input snapshot + calculated results)
	-- Money columns are decimal strings, not REAL.
	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		input_json TEXT NOT NULL,
		occupancy_expenses TEXT NOT NULL,
		running_expenses TEXT NOT NULL,
		home_office_deduction TEXT NOT NULL,
		vehicle_deduction TEXT NOT NULL,
		equipment_deduction TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		estimated_tax_saving TEXT NOT NULL,
		recommended_method TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assessments_client
		ON assessments(client_id, created_at DESC);

	-- Questionnaire responses (+ matched strategy, if any)
	CREATE TABLE IF NOT EXISTS questionnaire_responses (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		responses_json TEXT NOT NULL,
		no_answers_json TEXT NOT NULL,
		strategy_name TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_responses_client
		ON questionnaire_responses(client_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CLIENTS
// =============================================================================

// CreateClient inserts a new client. Fails with ErrDuplicateClient if the
// ID is taken.
func (s *Store) CreateClient(ctx context.Context, c Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, email, phone, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, string(c.Status),
		c.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateClient
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// UpdateClient updates name/email/phone/status of an existing client.
func (s *Store) UpdateClient(ctx context.Context, c Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE clients SET name = ?, email = ?, phone = ?, status = ?
		WHERE id = ?`,
		c.Name, c.Email, c.Phone, string(c.Status), c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrClientNotFound
	}
	return nil
}

// GetClient returns a single client by ID.
func (s *Store) GetClient(ctx context.Context, id string) (*Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, status, created_at
		FROM clients WHERE id = ?`, id)

	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

// ListClients returns all clients, newest first.
func (s *Store) ListClients(ctx context.Context) ([]Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, status, created_at
		FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

// DeleteClient removes a client and, via cascade, their assessments and
// questionnaire responses.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrClientNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(r rowScanner) (*Client, error) {
	var c Client
	var status, createdAt string
	if err := r.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &status, &createdAt); err != nil {
		return nil, err
	}
	c.Status = ClientStatus(status)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}

// =============================================================================
// ASSESSMENTS
// =============================================================================

// SaveAssessment persists an assessment with its calculated results.
func (s *Store) SaveAssessment(ctx context.Context, a AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assessments
		(id, client_id, input_json, occupancy_expenses, running_expenses,
		 home_office_deduction, vehicle_deduction, equipment_deduction,
		 total_deductions, estimated_tax_saving, recommended_method, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ClientID, a.InputJSON,
		a.OccupancyExpenses.String(),
		a.RunningExpenses.String(),
		a.HomeOfficeDeduction.String(),
		a.VehicleDeduction.String(),
		a.EquipmentDeduction.String(),
		a.TotalDeductions.String(),
		a.EstimatedTaxSaving.String(),
		a.RecommendedMethod,
		a.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// GetAssessment returns a single assessment by ID.
func (s *Store) GetAssessment(ctx context.Context, id string) (*AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, assessmentSelect+` WHERE id = ?`, id)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return a, nil
}

// ListAssessmentsByClient returns a client's assessments, newest first.
func (s *Store) ListAssessmentsByClient(ctx context.Context, clientID string) ([]AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		assessmentSelect+` WHERE client_id = ? ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var records []AssessmentRecord
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		records = append(records, *a)
	}
	return records, rows.Err()
}

const assessmentSelect = `
	SELECT id, client_id, input_json, occupancy_expenses, running_expenses,
	       home_office_deduction, vehicle_deduction, equipment_deduction,
	       total_deductions, estimated_tax_saving, recommended_method, created_at
	FROM assessments`

func scanAssessment(r rowScanner) (*AssessmentRecord, error) {
	var a AssessmentRecord
	var occupancy, running, homeOffice, vehicle, equipment, total, saving, createdAt string
	if err := r.Scan(&a.ID, &a.ClientID, &a.InputJSON,
		&occupancy, &running, &homeOffice, &vehicle, &equipment,
		&total, &saving, &a.RecommendedMethod, &createdAt); err != nil {
		return nil, err
	}

	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"occupancy_expenses", occupancy, &a.OccupancyExpenses},
		{"running_expenses", running, &a.RunningExpenses},
		{"home_office_deduction", homeOffice, &a.HomeOfficeDeduction},
		{"vehicle_deduction", vehicle, &a.VehicleDeduction},
		{"equipment_deduction", equipment, &a.EquipmentDeduction},
		{"total_deductions", total, &a.TotalDeductions},
		{"estimated_tax_saving", saving, &a.EstimatedTaxSaving},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}

	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

// =============================================================================
// QUESTIONNAIRE RESPONSES
// =============================================================================

// SaveResponse persists a questionnaire response and its match outcome.
func (s *Store) SaveResponse(ctx context.Context, r ResponseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO questionnaire_responses
		(id, client_id, responses_json, no_answers_json, strategy_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.ClientID, r.ResponsesJSON, r.NoAnswersJSON, r.StrategyName,
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save response: %w", err)
	}
	return nil
}

// GetResponse returns a single questionnaire response by ID.
func (s *Store) GetResponse(ctx context.Context, id string) (*ResponseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, client_id, responses_json, no_answers_json, strategy_name, created_at
		FROM questionnaire_responses WHERE id = ?`, id)

	r, err := scanResponse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %w", err)
	}
	return r, nil
}

// ListResponsesByClient returns a client's responses, newest first.
func (s *Store) ListResponsesByClient(ctx context.Context, clientID string) ([]ResponseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, responses_json, no_answers_json, strategy_name, created_at
		FROM questionnaire_responses
		WHERE client_id = ? ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	defer rows.Close()

	var records []ResponseRecord
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

func scanResponse(r rowScanner) (*ResponseRecord, error) {
	var rec ResponseRecord
	var strategyName sql.NullString
	var createdAt string
	if err := r.Scan(&rec.ID, &rec.ClientID, &rec.ResponsesJSON,
		&rec.NoAnswersJSON, &strategyName, &createdAt); err != nil {
		return nil, err
	}
	if strategyName.Valid {
		rec.StrategyName = &strategyName.String
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

// =============================================================================
// RESET (scenarios / dev only)
// =============================================================================

// Reset clears all data. Only used by demo scenario loaders.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"questionnaire_responses", "assessments", "clients"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
