package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Chart Layer
	ChartBuildsTotal   CounterVec
	ChartBuildDuration HistogramVec
	ChartSeriesPoints  GaugeVec

	// Dataset Layer
	DatasetLoadsTotal   CounterVec
	DatasetLoadDuration HistogramVec
	DatasetRowsLoaded   GaugeVec

	// System Health
	ErrorsTotal CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultBuildDurationBuckets = []float64{.0005, .001, .005, .01, .05, .1, .5, 1}
	DefaultLoadDurationBuckets  = []float64{.001, .01, .05, .1, .5, 1, 2.5, 5, 10, 30}
)

// NewAppMetrics registers all metrics and returns the AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests")

	m.ChartBuildsTotal = collector.RegisterCounter("chart_builds_total", "Chart builds by panel, kind and outcome", "panel", "kind", "status")
	m.ChartBuildDuration = collector.RegisterHistogram("chart_build_duration_seconds", "Chart build duration including dataset load", DefaultBuildDurationBuckets, "kind")
	m.ChartSeriesPoints = collector.RegisterGauge("chart_series_points", "Data points in the last built chart", "panel")

	m.DatasetLoadsTotal = collector.RegisterCounter("dataset_loads_total", "Dataset loads by scheme and outcome", "scheme", "status")
	m.DatasetLoadDuration = collector.RegisterHistogram("dataset_load_duration_seconds", "Dataset load duration", DefaultLoadDurationBuckets, "scheme")
	m.DatasetRowsLoaded = collector.RegisterGauge("dataset_rows_loaded", "Rows in the last dataset loaded for a panel", "panel")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_code")

	return m
}

// Helpers

// RecordHTTPRequest counts one request and observes its duration.
func RecordHTTPRequest(metrics *AppMetrics, method, route string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordChartBuild counts one chart build and, on success, the number of points.
func RecordChartBuild(metrics *AppMetrics, panel, kind string, points int, err error) {
	if metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.ChartBuildsTotal.WithLabelValues(panel, kind, status).Inc()
	if err == nil {
		metrics.ChartSeriesPoints.WithLabelValues(panel).Set(float64(points))
	}
}

// RecordDatasetLoad counts one dataset load and observes its duration.
func RecordDatasetLoad(metrics *AppMetrics, scheme string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.DatasetLoadsTotal.WithLabelValues(scheme, status).Inc()
	metrics.DatasetLoadDuration.WithLabelValues(scheme).Observe(duration.Seconds())
}

// RecordError counts an error for component under its error code.
func RecordError(metrics *AppMetrics, component, errorCode string) {
	if metrics == nil {
		return
	}
	metrics.ErrorsTotal.WithLabelValues(component, errorCode).Inc()
}
