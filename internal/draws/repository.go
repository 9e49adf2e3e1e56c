package draws

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ssq/internal/contracts"
)

// Repository persists draw records in PostgreSQL
// ⭐ SSOT: 추첨 기록 저장/조회는 여기서만
//
// Seq is not stored: it is the row's position in the full history ordered
// by date, recomputed on every read.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new draw repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the draw table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS draw_records (
			code       TEXT PRIMARY KEY,
			draw_date  DATE NOT NULL,
			weekday    TEXT NOT NULL,
			special    SMALLINT NOT NULL,
			primaries  SMALLINT[] NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_draw_records_date ON draw_records (draw_date);
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create draw schema: %w", err)
	}
	return nil
}

// SaveBatch upserts records by issue code in one transaction
func (r *Repository) SaveBatch(ctx context.Context, records []contracts.DrawRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO draw_records (code, draw_date, weekday, special, primaries)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET
			draw_date = EXCLUDED.draw_date,
			weekday = EXCLUDED.weekday,
			special = EXCLUDED.special,
			primaries = EXCLUDED.primaries,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, rec := range records {
		primaries := make([]int16, len(rec.Primary))
		for i, p := range rec.Primary {
			primaries[i] = int16(p)
		}
		batch.Queue(query, rec.Code, rec.Date, rec.Weekday, int16(rec.Special), primaries)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert draws: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns the records matching f, oldest first
func (r *Repository) List(ctx context.Context, f Filter) ([]contracts.DrawRecord, error) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Weekday != "" {
		conds = append(conds, "weekday = "+arg(f.Weekday))
	}
	if f.FromSeq != nil {
		conds = append(conds, "seq >= "+arg(*f.FromSeq))
	}
	if f.ToSeq != nil {
		conds = append(conds, "seq <= "+arg(*f.ToSeq))
	}
	if f.From != nil {
		conds = append(conds, "draw_date >= "+arg(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "draw_date <= "+arg(*f.To))
	}

	query := `
		SELECT seq, code, draw_date, weekday, special, primaries
		FROM (
			SELECT
				(ROW_NUMBER() OVER (ORDER BY draw_date ASC, code ASC) - 1)::INT AS seq,
				code, draw_date, weekday, special, primaries
			FROM draw_records
		) h
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY seq ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}
	defer rows.Close()

	records := make([]contracts.DrawRecord, 0)
	for rows.Next() {
		var rec contracts.DrawRecord
		var special int16
		var primaries []int16
		if err := rows.Scan(&rec.Seq, &rec.Code, &rec.Date, &rec.Weekday, &special, &primaries); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if len(primaries) != contracts.PrimaryPerDraw {
			return nil, fmt.Errorf("draw %s: expected %d primaries, got %d", rec.Code, contracts.PrimaryPerDraw, len(primaries))
		}

		rec.Special = contracts.SpecialBall(special)
		for i, p := range primaries {
			rec.Primary[i] = contracts.PrimaryBall(p)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("stored draw %s: %w", rec.Code, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// ListAll returns the full history, oldest first
func (r *Repository) ListAll(ctx context.Context) ([]contracts.DrawRecord, error) {
	return r.List(ctx, Filter{})
}

// ListByWeekday returns the draws held on weekday
func (r *Repository) ListByWeekday(ctx context.Context, weekday string) ([]contracts.DrawRecord, error) {
	return r.List(ctx, Filter{Weekday: weekday})
}

// ListBySeqRange returns the draws with from <= seq <= to
func (r *Repository) ListBySeqRange(ctx context.Context, from, to int) ([]contracts.DrawRecord, error) {
	return r.List(ctx, Filter{FromSeq: &from, ToSeq: &to})
}

// ListByDateRange returns the draws with from <= date <= to
func (r *Repository) ListByDateRange(ctx context.Context, from, to time.Time) ([]contracts.DrawRecord, error) {
	return r.List(ctx, Filter{From: &from, To: &to})
}

// Count returns the number of stored draws
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM draw_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return n, nil
}
