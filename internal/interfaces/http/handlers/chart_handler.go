package handlers

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/themedash/internal/application/dashboard"
	"github.com/turtacn/themedash/internal/application/rendering"
	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/themedash/pkg/errors"
)

// ChartHandler serves the dashboard page and the chart API.
type ChartHandler struct {
	svc      dashboard.Service
	renderer *rendering.PageRenderer
	logger   logging.Logger
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(svc dashboard.Service, renderer *rendering.PageRenderer, logger logging.Logger) *ChartHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ChartHandler{svc: svc, renderer: renderer, logger: logger}
}

// ChartSummary describes one panel in the chart list.
type ChartSummary struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	FigureURL string `json:"figure_url"`
	ImageURL  string `json:"image_url"`
}

// ListResponse is the body of GET /api/v1/charts.
type ListResponse struct {
	Charts []ChartSummary `json:"charts"`
}

// ThemeCount is one bar of a starburst.
type ThemeCount struct {
	Theme  string `json:"theme"`
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// CountsResponse is the body of GET /api/v1/charts/{name}/counts.
type CountsResponse struct {
	Chart     string       `json:"chart"`
	Title     string       `json:"title"`
	Total     int          `json:"total"`
	RadialMax int          `json:"radial_max"`
	Counts    []ThemeCount `json:"counts"`
}

// Index handles GET /.
func (h *ChartHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Page(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, *page); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// List handles GET /api/v1/charts.
func (h *ChartHandler) List(w http.ResponseWriter, r *http.Request) {
	panels := h.svc.Panels()
	prefix := h.svc.APIPrefix()
	resp := ListResponse{Charts: make([]ChartSummary, 0, len(panels))}
	for _, p := range panels {
		resp.Charts = append(resp.Charts, ChartSummary{
			Name:      p.Name,
			Kind:      p.Kind,
			Title:     p.Title,
			FigureURL: dashboard.FigureURL(prefix, p.Name),
			ImageURL:  dashboard.ImageURL(prefix, p.Name),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Figure handles GET /api/v1/charts/{name}/figure.
func (h *ChartHandler) Figure(w http.ResponseWriter, r *http.Request) {
	fig, err := h.svc.Figure(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

// Counts handles GET /api/v1/charts/{name}/counts.  Only starburst panels
// have counts.
func (h *ChartHandler) Counts(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, err := h.svc.Starburst(r.Context(), name)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	resp := CountsResponse{
		Chart:     name,
		Title:     c.Title,
		Total:     c.Counts.Total(),
		RadialMax: c.RadialMax,
		Counts:    make([]ThemeCount, 0, c.Points()),
	}
	for _, s := range c.Series {
		for i, th := range s.Themes {
			resp.Counts = append(resp.Counts, ThemeCount{
				Theme:  string(th),
				Domain: string(s.Domain),
				Count:  s.Counts[i],
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Image handles GET /api/v1/charts/{name}/image.png.
func (h *ChartHandler) Image(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.RenderPNG(r.Context(), chi.URLParam(r, "name"), &buf); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// APIPrefix is the path the chart routes are mounted under.
func (h *ChartHandler) APIPrefix() string { return h.svc.APIPrefix() }

// NotFound writes the JSON 404 used for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Code:    errors.ErrCodeNotFound.String(),
		Message: errors.DefaultMessage(errors.ErrCodeNotFound),
		Detail:  r.URL.Path,
	})
}
