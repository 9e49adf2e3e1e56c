package draws

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ssq/internal/contracts"
)

func TestRepository_SaveAndList(t *testing.T) {
	// Skip if running without database
	connString := os.Getenv("DATABASE_URL")
	if testing.Short() || connString == "" {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "database connection failed")
	defer pool.Close()

	repo := NewRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	// isolated codes far in the future so existing rows keep their order
	records := []contracts.DrawRecord{
		{Code: "9999001", Date: time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC), Weekday: "二", Special: 3, Primary: [6]contracts.PrimaryBall{1, 2, 3, 4, 5, 6}},
		{Code: "9999002", Date: time.Date(2999, 1, 3, 0, 0, 0, 0, time.UTC), Weekday: "四", Special: 9, Primary: [6]contracts.PrimaryBall{7, 8, 9, 10, 11, 12}},
	}
	defer pool.Exec(ctx, "DELETE FROM draw_records WHERE code LIKE '9999%'")

	require.NoError(t, repo.SaveBatch(ctx, records))
	// upsert is idempotent
	require.NoError(t, repo.SaveBatch(ctx, records))

	from := time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2999, 12, 31, 0, 0, 0, 0, time.UTC)
	got, err := repo.ListByDateRange(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "9999001", got[0].Code)
	assert.Equal(t, records[1].Primary, got[1].Primary)
	assert.Equal(t, got[0].Seq+1, got[1].Seq)

	bySeq, err := repo.ListBySeqRange(ctx, got[1].Seq, got[1].Seq)
	require.NoError(t, err)
	require.Len(t, bySeq, 1)
	assert.Equal(t, "9999002", bySeq[0].Code)
}
