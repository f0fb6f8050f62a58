package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/turtacn/themedash/pkg/errors"
	"github.com/turtacn/themedash/pkg/types/figure"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultPlotlyURL is the plotly.js bundle loaded by the page.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.27.0.min.js"

// Page is the view model of the dashboard page.
type Page struct {
	Title       string
	Description string
	PlotlyURL   string
	Panels      []PagePanel
}

// PagePanel is one chart on the page.
type PagePanel struct {
	ID        string
	Title     string
	Figure    figure.Figure
	FigureURL string
	ImageURL  string
}

// PageRenderer executes the embedded dashboard template.
type PageRenderer struct {
	tmpl *template.Template
}

// NewPageRenderer parses the embedded template.
func NewPageRenderer() (*PageRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/dashboard.html.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to parse dashboard template")
	}
	return &PageRenderer{tmpl: tmpl}, nil
}

// Render writes the page to w.  Nothing is written if the template fails.
func (r *PageRenderer) Render(w io.Writer, p Page) error {
	if p.PlotlyURL == "" {
		p.PlotlyURL = DefaultPlotlyURL
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "dashboard.html.tmpl", p); err != nil {
		return errors.Wrap(err, errors.ErrCodeRenderFailed, "failed to render dashboard page")
	}
	if _, err := buf.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write dashboard page")
	}
	return nil
}
