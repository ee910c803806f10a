package scenarios

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/homestead/internal/modules/housing"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// RepositoryInterface is the scenario store used by Service.
type RepositoryInterface interface {
	Create(name string, a housing.Assumptions) (*Scenario, error)
	GetByID(id string) (*Scenario, error)
	List() ([]Scenario, error)
	Update(id, name string, a housing.Assumptions) (*Scenario, error)
	Delete(id string) error
}

// Repository handles scenario persistence.
// Database: scenarios.db (scenarios table). Assumptions are stored as a
// msgpack blob keyed by field name.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// NewRepository creates a new scenario repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "scenarios").Logger(),
		now: time.Now,
	}
}

// Create inserts a new scenario with a fresh UUID
func (r *Repository) Create(name string, a housing.Assumptions) (*Scenario, error) {
	blob, err := msgpack.Marshal(&a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode assumptions: %w", err)
	}

	now := r.now().UTC().Truncate(time.Second)
	s := &Scenario{
		ID:          uuid.New().String(),
		Name:        name,
		Assumptions: a,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = r.db.Exec(`
		INSERT INTO scenarios (id, name, assumptions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.ID, s.Name, blob, now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert scenario: %w", err)
	}

	r.log.Debug().Str("id", s.ID).Str("name", s.Name).Msg("Created scenario")
	return s, nil
}

// GetByID returns the scenario or ErrScenarioNotFound
func (r *Repository) GetByID(id string) (*Scenario, error) {
	row := r.db.QueryRow(`
		SELECT id, name, assumptions, created_at, updated_at
		FROM scenarios
		WHERE id = ?
	`, id)

	s, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario %s: %w", id, err)
	}
	return s, nil
}

// List returns every scenario, most recently updated first
func (r *Repository) List() ([]Scenario, error) {
	rows, err := r.db.Query(`
		SELECT id, name, assumptions, created_at, updated_at
		FROM scenarios
		ORDER BY updated_at DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	result := make([]Scenario, 0)
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan scenario row")
			continue
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scenarios: %w", err)
	}

	return result, nil
}

// Update replaces the name and assumptions of an existing scenario
func (r *Repository) Update(id, name string, a housing.Assumptions) (*Scenario, error) {
	blob, err := msgpack.Marshal(&a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode assumptions: %w", err)
	}

	now := r.now().UTC().Truncate(time.Second)
	res, err := r.db.Exec(`
		UPDATE scenarios
		SET name = ?, assumptions = ?, updated_at = ?
		WHERE id = ?
	`, name, blob, now.Unix(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update scenario %s: %w", id, err)
	}
	if err := requireOneRow(res, id); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// Delete removes a scenario
func (r *Repository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario %s: %w", id, err)
	}
	return requireOneRow(res, id)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanScenario(row scanner) (*Scenario, error) {
	var s Scenario
	var blob []byte
	var createdAt, updatedAt int64

	if err := row.Scan(&s.ID, &s.Name, &blob, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := msgpack.Unmarshal(blob, &s.Assumptions); err != nil {
		return nil, fmt.Errorf("failed to decode assumptions of scenario %s: %w", s.ID, err)
	}

	s.CreatedAt = time.Unix(createdAt, 0).UTC()
	s.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &s, nil
}

func requireOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
	}
	return nil
}
