// Package postgres runs dataset queries against PostgreSQL through a pgx
// connection pool and turns the result set into a table.
package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/themedash/pkg/errors"
	"github.com/turtacn/themedash/pkg/types/table"
)

// PostgresConfig tunes every pool opened for a dataset source.
type PostgresConfig struct {
	MaxConns         int32         `mapstructure:"max_conns"`
	MinConns         int32         `mapstructure:"min_conns"`
	MaxConnLifetime  time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `mapstructure:"max_conn_idle_time"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// Rows is the subset of pgx.Rows consumed by scanTable.
type Rows interface {
	FieldDescriptions() []pgconn.FieldDescription
	Next() bool
	Values() ([]any, error)
	Err() error
	Close()
}

// Pool is a read-only connection pool for one DSN.
type Pool struct {
	pool   *pgxpool.Pool
	dsn    string
	logger logging.Logger
	once   sync.Once
}

// NewPool parses dsn, applies cfg and verifies the connection.
func NewPool(ctx context.Context, dsn string, cfg PostgresConfig, log logging.Logger) (*Pool, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid postgres dsn").
			WithDetail(RedactDSN(dsn))
	}
	configurePool(pc, cfg)

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "postgres connection failed").
			WithDetail(RedactDSN(dsn))
	}

	log.Info("Connected to PostgreSQL",
		logging.String("host", pc.ConnConfig.Host),
		logging.Int("port", int(pc.ConnConfig.Port)),
		logging.String("database", pc.ConnConfig.Database),
	)
	return &Pool{pool: pool, dsn: dsn, logger: log}, nil
}

// configurePool copies cfg onto pc, falling back to small-pool defaults.
func configurePool(pc *pgxpool.Config, cfg PostgresConfig) {
	pc.MaxConns = 4
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	pc.MaxConnLifetime = 30 * time.Minute
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pc.MaxConnIdleTime = 5 * time.Minute
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.ConnectTimeout > 0 {
		pc.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	stmt := 30 * time.Second
	if cfg.StatementTimeout > 0 {
		stmt = cfg.StatementTimeout
	}
	if pc.ConnConfig.RuntimeParams == nil {
		pc.ConnConfig.RuntimeParams = map[string]string{}
	}
	pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(stmt.Milliseconds(), 10)
	pc.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"
	pc.ConnConfig.RuntimeParams["application_name"] = "themedash"
}

// QueryTable runs query and returns every row as strings.
func (p *Pool) QueryTable(ctx context.Context, query string, args ...any) (*table.Table, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "dataset query failed")
	}
	return scanTable(rows)
}

// scanTable drains rows into a table and closes them.
func scanTable(rows Rows) (*table.Table, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	var data [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidData, "failed to decode row").
				WithDetailf("row=%d", len(data)+1)
		}
		row := make([]string, len(cols))
		for i := range cols {
			if i < len(vals) {
				row[i] = formatValue(vals[i])
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "dataset query failed")
	}
	return table.New(cols, data), nil
}

// formatValue renders a decoded column value the way it would appear in CSV.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return fmt.Sprint(v)
		}
		return formatValue(dv)
	default:
		return fmt.Sprint(v)
	}
}

// HealthCheck pings the pool and warns when most connections are busy.
func (p *Pool) HealthCheck(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "postgres health check failed")
	}
	stat := p.pool.Stat()
	if total := stat.TotalConns(); total > 0 {
		usage := float64(stat.AcquiredConns()) / float64(total)
		if usage > 0.8 {
			p.logger.Warn("High postgres pool usage",
				logging.Int("acquired", int(stat.AcquiredConns())),
				logging.Int("total", int(total)),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

// Close releases every pooled connection.  Safe to call more than once.
func (p *Pool) Close() error {
	p.once.Do(func() {
		p.pool.Close()
		p.logger.Info("Closed PostgreSQL pool", logging.String("dsn", RedactDSN(p.dsn)))
	})
	return nil
}

// RedactDSN hides the password of a URL-form DSN for logs and errors.
func RedactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "<unparsable dsn>"
	}
	if u.User == nil {
		return dsn
	}
	return u.Redacted()
}
