// Package dashboard assembles configured panels into figures and pages.
// Each call reloads the panel's data set; nothing derived is kept between
// calls.
package dashboard

import (
	"context"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/themedash/internal/application/linechart"
	"github.com/turtacn/themedash/internal/application/rendering"
	"github.com/turtacn/themedash/internal/application/starburst"
	"github.com/turtacn/themedash/internal/domain/strengths"
	"github.com/turtacn/themedash/internal/infrastructure/dataset"
	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/themedash/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/themedash/pkg/errors"
	"github.com/turtacn/themedash/pkg/types/figure"
	"github.com/turtacn/themedash/pkg/types/table"
)

// Panel kinds.
const (
	KindLine      = "line"
	KindStarburst = "starburst"
)

// DefaultAPIPrefix is where the per-panel figure and image URLs point.
const DefaultAPIPrefix = "/api/v1/charts"

// DatasetLoader loads a panel's data set.
type DatasetLoader interface {
	Load(ctx context.Context, src dataset.Source) (*table.Table, error)
}

// Service defines the dashboard operations.
type Service interface {
	Panels() []Panel
	Panel(name string) (Panel, error)
	Starburst(ctx context.Context, name string) (*starburst.Chart, error)
	Line(ctx context.Context, name string) (*linechart.Chart, error)
	Figure(ctx context.Context, name string) (figure.Figure, error)
	RenderPNG(ctx context.Context, name string, w io.Writer) error
	Page(ctx context.Context) (*rendering.Page, error)
	// APIPrefix is the path the chart API is mounted under.
	APIPrefix() string
}

// Options configures page-level text.
type Options struct {
	Title       string
	Description string
	PlotlyURL   string
	APIPrefix   string
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	panels  []Panel
	byName  map[string]int
	loader  DatasetLoader
	builder *starburst.Builder
	opts    Options
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewService creates a dashboard Service.  A nil taxonomy selects the default
// CliftonStrengths taxonomy; metrics may be nil.
func NewService(panels []Panel, loader DatasetLoader, taxonomy *strengths.Taxonomy, opts Options, logger logging.Logger, metrics *prometheus.AppMetrics) (Service, error) {
	if loader == nil {
		return nil, errors.New(errors.ErrCodeValidation, "dataset loader is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = DefaultAPIPrefix
	}
	if opts.PlotlyURL == "" {
		opts.PlotlyURL = rendering.DefaultPlotlyURL
	}

	byName := make(map[string]int, len(panels))
	for i, p := range panels {
		if p.Name == "" {
			return nil, errors.New(errors.ErrCodeValidation, "panel name is required").WithDetailf("index=%d", i)
		}
		if p.Kind != KindLine && p.Kind != KindStarburst {
			return nil, errors.New(errors.ErrCodeValidation, "unknown panel kind").
				WithDetailf("panel=%s kind=%q", p.Name, p.Kind)
		}
		if _, dup := byName[p.Name]; dup {
			return nil, errors.New(errors.ErrCodeValidation, "duplicate panel name").WithDetailf("panel=%s", p.Name)
		}
		byName[p.Name] = i
	}

	return &serviceImpl{
		panels:  append([]Panel(nil), panels...),
		byName:  byName,
		loader:  loader,
		builder: starburst.NewBuilder(taxonomy),
		opts:    opts,
		logger:  logger.Named("dashboard"),
		metrics: metrics,
	}, nil
}

// FigureURL is the figure endpoint of panel name under prefix.
func FigureURL(prefix, name string) string { return prefix + "/" + name + "/figure" }

// ImageURL is the PNG endpoint of panel name under prefix.
func ImageURL(prefix, name string) string { return prefix + "/" + name + "/image.png" }

func (s *serviceImpl) APIPrefix() string { return s.opts.APIPrefix }

func (s *serviceImpl) Panels() []Panel {
	return append([]Panel(nil), s.panels...)
}

func (s *serviceImpl) Panel(name string) (Panel, error) {
	i, ok := s.byName[name]
	if !ok {
		return Panel{}, errors.NotFound("panel not found").WithDetailf("panel=%s", name)
	}
	return s.panels[i], nil
}

func (s *serviceImpl) panelOfKind(name, kind string) (Panel, error) {
	p, err := s.Panel(name)
	if err != nil {
		return Panel{}, err
	}
	if p.Kind != kind {
		return Panel{}, errors.New(errors.ErrCodeWrongChartKind, "panel is not a "+kind+" chart").
			WithDetailf("panel=%s kind=%s", p.Name, p.Kind)
	}
	return p, nil
}

func (s *serviceImpl) Starburst(ctx context.Context, name string) (*starburst.Chart, error) {
	p, err := s.panelOfKind(name, KindStarburst)
	if err != nil {
		return nil, err
	}
	return s.buildStarburst(ctx, p)
}

func (s *serviceImpl) Line(ctx context.Context, name string) (*linechart.Chart, error) {
	p, err := s.panelOfKind(name, KindLine)
	if err != nil {
		return nil, err
	}
	return s.buildLine(ctx, p)
}

func (s *serviceImpl) Figure(ctx context.Context, name string) (figure.Figure, error) {
	p, err := s.Panel(name)
	if err != nil {
		return figure.Figure{}, err
	}
	return s.figure(ctx, p)
}

func (s *serviceImpl) figure(ctx context.Context, p Panel) (figure.Figure, error) {
	switch p.Kind {
	case KindStarburst:
		c, err := s.buildStarburst(ctx, p)
		if err != nil {
			return figure.Figure{}, err
		}
		return c.Figure(), nil
	default:
		c, err := s.buildLine(ctx, p)
		if err != nil {
			return figure.Figure{}, err
		}
		return c.Figure(), nil
	}
}

// RenderPNG writes a static PNG of the named panel to w.
func (s *serviceImpl) RenderPNG(ctx context.Context, name string, w io.Writer) error {
	p, err := s.Panel(name)
	if err != nil {
		return err
	}
	switch p.Kind {
	case KindStarburst:
		c, err := s.buildStarburst(ctx, p)
		if err != nil {
			return err
		}
		return rendering.RenderStarburstPNG(w, c)
	default:
		c, err := s.buildLine(ctx, p)
		if err != nil {
			return err
		}
		return rendering.RenderLinePNG(w, c)
	}
}

// Page builds every panel concurrently.  The first failing panel fails the
// whole page.
func (s *serviceImpl) Page(ctx context.Context) (*rendering.Page, error) {
	out := make([]rendering.PagePanel, len(s.panels))

	g, gCtx := errgroup.WithContext(ctx)
	for i := range s.panels {
		i := i
		g.Go(func() error {
			p := s.panels[i]
			fig, err := s.figure(gCtx, p)
			if err != nil {
				return err
			}
			out[i] = rendering.PagePanel{
				ID:        p.Name,
				Title:     p.Title,
				Figure:    fig,
				FigureURL: FigureURL(s.opts.APIPrefix, p.Name),
				ImageURL:  ImageURL(s.opts.APIPrefix, p.Name),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &rendering.Page{
		Title:       s.opts.Title,
		Description: s.opts.Description,
		PlotlyURL:   s.opts.PlotlyURL,
		Panels:      out,
	}, nil
}

func (s *serviceImpl) load(ctx context.Context, p Panel) (*table.Table, error) {
	t, err := s.loader.Load(ctx, p.Source)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.DatasetRowsLoaded.WithLabelValues(p.Name).Set(float64(t.Len()))
	}
	return t, nil
}

func (s *serviceImpl) buildStarburst(ctx context.Context, p Panel) (c *starburst.Chart, err error) {
	start := time.Now()
	defer func() { s.observe(p, start, pointsOf(c), err) }()

	t, err := s.load(ctx, p)
	if err != nil {
		return nil, err
	}
	records, err := strengths.RecordsFromTable(t, p.ThemeColumn)
	if err != nil {
		return nil, err
	}
	return s.builder.BuildChart(records, p.Title)
}

func (s *serviceImpl) buildLine(ctx context.Context, p Panel) (c *linechart.Chart, err error) {
	start := time.Now()
	defer func() {
		n := 0
		if c != nil {
			n = c.Len()
		}
		s.observe(p, start, n, err)
	}()

	t, err := s.load(ctx, p)
	if err != nil {
		return nil, err
	}
	return linechart.Build(t, linechart.Spec{
		Title:   p.Title,
		XColumn: p.XColumn,
		YColumn: p.YColumn,
		Width:   p.Width,
		Height:  p.Height,
	})
}

func pointsOf(c *starburst.Chart) int {
	if c == nil {
		return 0
	}
	return c.Points()
}

func (s *serviceImpl) observe(p Panel, start time.Time, points int, err error) {
	elapsed := time.Since(start)
	prometheus.RecordChartBuild(s.metrics, p.Name, p.Kind, points, err)
	if s.metrics != nil {
		s.metrics.ChartBuildDuration.WithLabelValues(p.Kind).Observe(elapsed.Seconds())
	}

	if err != nil {
		prometheus.RecordError(s.metrics, "dashboard", string(errors.GetCode(err)))
		s.logger.Warn("chart build failed",
			logging.String("panel", p.Name),
			logging.String("kind", p.Kind),
			logging.Err(err),
		)
		return
	}
	s.logger.Info("chart built",
		logging.String("panel", p.Name),
		logging.String("kind", p.Kind),
		logging.Int("points", points),
		logging.Duration("elapsed", elapsed),
	)
}
