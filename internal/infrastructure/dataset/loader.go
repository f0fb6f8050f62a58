package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/turtacn/themedash/internal/infrastructure/database/postgres"
	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/themedash/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/themedash/pkg/errors"
	"github.com/turtacn/themedash/pkg/types/table"
)

// DefaultMaxBytes caps how much of a remote or local file is read.
const DefaultMaxBytes int64 = 32 << 20

// ObjectStore opens objects for s3:// sources.
type ObjectStore interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Querier runs SQL for postgres:// sources.
type Querier interface {
	QueryTable(ctx context.Context, query string, args ...any) (*table.Table, error)
	Close() error
}

// Opener connects to the database named by dsn.
type Opener func(ctx context.Context, dsn string) (Querier, error)

// Loader reads Sources into tables.  Nothing is cached: every Load reads the
// source again.  Database pools are kept per DSN and released by Close.
type Loader struct {
	httpClient *http.Client
	objects    ObjectStore
	openDB     Opener
	baseDir    string
	maxBytes   int64
	logger     logging.Logger
	metrics    *prometheus.AppMetrics

	mu    sync.Mutex
	pools map[string]Querier
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option { return func(l *Loader) { l.httpClient = c } }

// WithObjectStore enables s3:// sources.
func WithObjectStore(s ObjectStore) Option { return func(l *Loader) { l.objects = s } }

// WithDatabase enables postgres:// sources.
func WithDatabase(open Opener) Option { return func(l *Loader) { l.openDB = open } }

// WithBaseDir resolves relative file paths against dir.
func WithBaseDir(dir string) Option { return func(l *Loader) { l.baseDir = dir } }

// WithMaxBytes caps the size of file, http and object sources.
func WithMaxBytes(n int64) Option { return func(l *Loader) { l.maxBytes = n } }

// WithLogger sets the logger.
func WithLogger(log logging.Logger) Option { return func(l *Loader) { l.logger = log } }

// WithMetrics records every load.
func WithMetrics(m *prometheus.AppMetrics) Option { return func(l *Loader) { l.metrics = m } }

// NewLoader builds a Loader.  Without options it reads local files and
// http(s) URLs with a 30s timeout.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxBytes:   DefaultMaxBytes,
		logger:     logging.NewNopLogger(),
		pools:      make(map[string]Querier),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logging.NewNopLogger()
	}
	if l.maxBytes <= 0 {
		l.maxBytes = DefaultMaxBytes
	}
	return l
}

// Load reads src.
func (l *Loader) Load(ctx context.Context, src Source) (*table.Table, error) {
	scheme, err := src.Scheme()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var t *table.Table
	switch scheme {
	case SchemeFile:
		t, err = l.loadFile(src)
	case SchemeHTTP:
		t, err = l.loadHTTP(ctx, src)
	case SchemeS3:
		t, err = l.loadObject(ctx, src)
	case SchemePostgres:
		t, err = l.loadQuery(ctx, src)
	}
	elapsed := time.Since(start)
	prometheus.RecordDatasetLoad(l.metrics, string(scheme), elapsed, err)

	if err != nil {
		l.logger.Warn("dataset load failed",
			logging.String("scheme", string(scheme)),
			logging.String("location", displayLocation(src, scheme)),
			logging.Err(err),
		)
		return nil, err
	}
	l.logger.Debug("dataset loaded",
		logging.String("scheme", string(scheme)),
		logging.String("location", displayLocation(src, scheme)),
		logging.Int("rows", t.Len()),
		logging.Duration("elapsed", elapsed),
	)
	return t, nil
}

func (l *Loader) loadFile(src Source) (*table.Table, error) {
	p := src.filePath()
	if !filepath.IsAbs(p) && l.baseDir != "" {
		p = filepath.Join(l.baseDir, p)
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrCodeNotFound, "dataset file not found").WithDetail(p)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to open dataset file").WithDetail(p)
	}
	defer f.Close()
	return l.decode(f, src, "")
}

func (l *Loader) loadHTTP(ctx context.Context, src Source) (*table.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Location, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid dataset url")
	}
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "dataset request failed").
			WithDetail(src.Location)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "dataset request failed").
			WithDetailf("url=%s status=%d", src.Location, resp.StatusCode)
	}
	return l.decode(resp.Body, src, resp.Header.Get("Content-Type"))
}

func (l *Loader) loadObject(ctx context.Context, src Source) (*table.Table, error) {
	if l.objects == nil {
		return nil, errors.New(errors.ErrCodeUnsupportedSource, "object storage is not configured").
			WithDetail(src.Location)
	}
	bucket, key, err := src.objectRef()
	if err != nil {
		return nil, err
	}
	rc, err := l.objects.Open(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return l.decode(rc, src, "")
}

func (l *Loader) loadQuery(ctx context.Context, src Source) (*table.Table, error) {
	if l.openDB == nil {
		return nil, errors.New(errors.ErrCodeUnsupportedSource, "database sources are not configured")
	}
	if src.Query == "" {
		return nil, errors.New(errors.ErrCodeValidation, "database source needs a query")
	}
	db, err := l.pool(ctx, src.Location)
	if err != nil {
		return nil, err
	}
	return db.QueryTable(ctx, src.Query)
}

// pool returns the Querier for dsn, opening it on first use.  The dial runs
// without the lock so one unreachable DSN does not stall the others; when two
// callers race, the first stored pool wins and the other is closed.
func (l *Loader) pool(ctx context.Context, dsn string) (Querier, error) {
	l.mu.Lock()
	q, ok := l.pools[dsn]
	l.mu.Unlock()
	if ok {
		return q, nil
	}

	opened, err := l.openDB(ctx, dsn)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if q, ok := l.pools[dsn]; ok {
		l.mu.Unlock()
		_ = opened.Close()
		return q, nil
	}
	l.pools[dsn] = opened
	l.mu.Unlock()
	return opened, nil
}

// PingDatabase opens (or reuses) the pool for dsn and checks it is reachable.
// Queriers without a HealthCheck method are considered healthy once open.
func (l *Loader) PingDatabase(ctx context.Context, dsn string) error {
	if l.openDB == nil {
		return errors.New(errors.ErrCodeUnsupportedSource, "database sources are not configured")
	}
	db, err := l.pool(ctx, dsn)
	if err != nil {
		return err
	}
	if hc, ok := db.(interface{ HealthCheck(context.Context) error }); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// decode reads at most maxBytes from r and parses it in src's format.
func (l *Loader) decode(r io.Reader, src Source, contentType string) (*table.Table, error) {
	format, err := src.detectFormat(contentType)
	if err != nil {
		return nil, err
	}
	buf, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to read dataset")
	}
	if int64(len(buf)) > l.maxBytes {
		return nil, errors.New(errors.ErrCodeInvalidData, "dataset too large").
			WithDetailf("limit=%d bytes", l.maxBytes)
	}

	var t *table.Table
	switch format {
	case FormatXLSX:
		t, err = ParseXLSX(bytes.NewReader(buf), src.Sheet)
	default:
		t, err = ParseCSV(bytes.NewReader(buf))
	}
	if err != nil {
		if ae, ok := err.(*errors.AppError); ok && ae.Detail == "" {
			return nil, ae.WithDetail(displayLocation(src, SchemeFile))
		}
		return nil, err
	}
	return t, nil
}

// Close releases every database pool.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var firstErr error
	for dsn, q := range l.pools {
		if err := q.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", postgres.RedactDSN(dsn), err)
		}
		delete(l.pools, dsn)
	}
	return firstErr
}

// displayLocation hides credentials embedded in database DSNs.
func displayLocation(src Source, scheme Scheme) string {
	if scheme == SchemePostgres {
		return postgres.RedactDSN(src.Location)
	}
	return src.Location
}

// PostgresOpener opens a pgx pool per DSN with cfg applied.
func PostgresOpener(cfg postgres.PostgresConfig, log logging.Logger) Opener {
	return func(ctx context.Context, dsn string) (Querier, error) {
		p, err := postgres.NewPool(ctx, dsn, cfg, log)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
