//go:build integration

// Integration tests for database sources.  They need Docker and are gated
// behind the "integration" build tag.
package dataset_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/themedash/internal/application/starburst"
	"github.com/turtacn/themedash/internal/domain/strengths"
	"github.com/turtacn/themedash/internal/infrastructure/database/postgres"
	"github.com/turtacn/themedash/internal/infrastructure/dataset"
	"github.com/turtacn/themedash/internal/testutil"
)

// startPostgres launches a PostgreSQL 16 container seeded with a survey
// table and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "survey",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/survey?sslmode=disable", host, port.Port())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	_, err = pool.Exec(ctx, `
	CREATE TABLE responses (
		id          INT PRIMARY KEY,
		theme       TEXT NOT NULL,
		score       NUMERIC(5,2),
		taken_on    DATE,
		recorded_at TIMESTAMPTZ
	);
	INSERT INTO responses VALUES
		(1, 'Achiever',     12.50, '2024-03-01', '2024-03-01 10:30:00+00'),
		(2, ' Strategic ',  7,     '2024-03-02', '2024-03-02 00:00:00+00'),
		(3, 'Achiever',     NULL,  NULL,         NULL);`)
	require.NoError(t, err)
	return dsn
}

func newDatabaseLoader(t *testing.T) *dataset.Loader {
	t.Helper()
	cfg := postgres.PostgresConfig{MaxConns: 2, ConnectTimeout: 10 * time.Second, StatementTimeout: 5 * time.Second}
	l := dataset.NewLoader(dataset.WithDatabase(dataset.PostgresOpener(cfg, testutil.NewMockLogger())))
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLoader_Postgres_DecodesColumnTypes(t *testing.T) {
	dsn := startPostgres(t)
	l := newDatabaseLoader(t)

	tbl, err := l.Load(context.Background(), dataset.Source{
		Location: dsn,
		Query:    `SELECT id, theme AS "Theme", score, taken_on, recorded_at FROM responses ORDER BY id`,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "Theme", "score", "taken_on", "recorded_at"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())

	first := tbl.Rows[0]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "12.50", first[2])
	assert.Equal(t, "2024-03-01", first[3])
	recorded, err := time.Parse(time.RFC3339, first[4])
	require.NoError(t, err)
	assert.True(t, recorded.Equal(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)), "got %s", first[4])

	assert.Equal(t, "7.00", tbl.Rows[1][2])
	assert.Equal(t, []string{"3", "Achiever", "", "", ""}, tbl.Rows[2])
}

func TestLoader_Postgres_BuildsStarburst(t *testing.T) {
	dsn := startPostgres(t)
	l := newDatabaseLoader(t)

	tbl, err := l.Load(context.Background(), dataset.Source{
		Location: dsn,
		Query:    `SELECT theme AS "Theme" FROM responses`,
	})
	require.NoError(t, err)
	require.NoError(t, l.PingDatabase(context.Background(), dsn))

	records, err := strengths.RecordsFromTable(tbl, strengths.DefaultThemeColumn)
	require.NoError(t, err)
	chart, err := starburst.NewBuilder(strengths.DefaultTaxonomy()).BuildChart(records, "Team")
	require.NoError(t, err)

	assert.Equal(t, 2, chart.Counts[strengths.Theme("Achiever")])
	assert.Equal(t, 1, chart.Counts[strengths.Theme("Strategic")])
	assert.Equal(t, 3, chart.Counts.Total())
	assert.Equal(t, 2, chart.RadialMax)
}
