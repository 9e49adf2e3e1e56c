package selection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ssq/internal/contracts"
)

var (
	// ErrRunNotFound is returned when no stored run matches
	ErrRunNotFound = errors.New("selection run not found")
	// ErrRunExists is returned when a run id is saved twice
	ErrRunExists = errors.New("selection run already exists")
)

// Run is one persisted pipeline run
type Run struct {
	RunID        string                `json:"run_id"`
	StrategyHash string                `json:"strategy_hash"`
	RecordCount  int                   `json:"record_count"`
	LatestCode   string                `json:"latest_code"`
	Selections   []contracts.Selection `json:"selections"`
	CreatedAt    time.Time             `json:"created_at"`
}

// Repository handles selection run persistence
// ⭐ SSOT: 선택 결과 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new selection repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the selection tables if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS selection_runs (
			run_id        TEXT PRIMARY KEY,
			strategy_hash TEXT NOT NULL,
			record_count  INTEGER NOT NULL,
			latest_code   TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS selection_tickets (
			run_id    TEXT NOT NULL REFERENCES selection_runs(run_id) ON DELETE CASCADE,
			ticket_no INTEGER NOT NULL,
			special   SMALLINT NOT NULL,
			primaries SMALLINT[] NOT NULL,
			PRIMARY KEY (run_id, ticket_no)
		);
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create selection schema: %w", err)
	}
	return nil
}

// SaveRun stores a run and its selections in one transaction.
// Stored runs are immutable: saving an existing run id returns ErrRunExists.
func (r *Repository) SaveRun(ctx context.Context, run Run) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO selection_runs (run_id, strategy_hash, record_count, latest_code, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id) DO NOTHING
	`, run.RunID, run.StrategyHash, run.RecordCount, run.LatestCode, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrRunExists, run.RunID)
	}

	batch := &pgx.Batch{}
	for i, sel := range run.Selections {
		batch.Queue(
			"INSERT INTO selection_tickets (run_id, ticket_no, special, primaries) VALUES ($1, $2, $3, $4)",
			run.RunID, i+1, int16(sel.Special), toInt16s(sel.Primary),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert tickets: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRun retrieves a run with its selections
func (r *Repository) GetRun(ctx context.Context, runID string) (*Run, error) {
	run := Run{RunID: runID}
	err := r.pool.QueryRow(ctx, `
		SELECT strategy_hash, record_count, latest_code, created_at
		FROM selection_runs
		WHERE run_id = $1
	`, runID).Scan(&run.StrategyHash, &run.RecordCount, &run.LatestCode, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT special, primaries
		FROM selection_tickets
		WHERE run_id = $1
		ORDER BY ticket_no ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var special int16
		var primaries []int16
		if err := rows.Scan(&special, &primaries); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		sel := contracts.Selection{Special: contracts.SpecialBall(special)}
		for _, p := range primaries {
			sel.Primary = append(sel.Primary, contracts.PrimaryBall(p))
		}
		run.Selections = append(run.Selections, sel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &run, nil
}

// LatestRunID returns the most recently created run id
func (r *Repository) LatestRunID(ctx context.Context) (string, error) {
	var runID string
	err := r.pool.QueryRow(ctx, "SELECT run_id FROM selection_runs ORDER BY created_at DESC LIMIT 1").Scan(&runID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrRunNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest run: %w", err)
	}
	return runID, nil
}

func toInt16s(balls []contracts.PrimaryBall) []int16 {
	values := make([]int16, len(balls))
	for i, b := range balls {
		values[i] = int16(b)
	}
	return values
}
