// Package dashboard renders a monitoring run as an interactive tabbed HTML
// page: value boxes and the metric table on the overview tab, go-echarts
// charts on the charts tab, and the live model API docs embedded on the API
// tab. JSON endpoints expose the same data for ad hoc use.
package dashboard

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/harbor-data/model.report/internal/httputil"
	"github.com/harbor-data/model.report/internal/monitoring"
	"github.com/harbor-data/model.report/internal/report"
)

// ANSI escape codes for request-log status coloring.
const (
	colorCyan      = "\033[36m"
	colorReset     = "\033[0m"
	colorYellow    = "\033[33m"
	colorBoldGreen = "\033[1;32m"
	colorBoldRed   = "\033[1;31m"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "modelreport_http_requests_total",
	Help: "Dashboard HTTP requests by path.",
}, []string{"path"})

// Server serves the dashboard for the most recent report run.
type Server struct {
	mu  sync.RWMutex
	rep *report.Report
}

// NewServer creates a dashboard server for the given run.
func NewServer(rep *report.Report) *Server {
	return &Server{rep: rep}
}

// SetReport swaps in a fresh run; subsequent requests render it.
func (s *Server) SetReport(rep *report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rep = rep
}

func (s *Server) report() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rep
}

// ServeMux returns the dashboard routes.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/charts/metrics", s.handleMetricsChart)
	mux.HandleFunc("/charts/counts", s.handleCountsChart)
	mux.HandleFunc("/charts/scores", s.handleScoresChart)
	mux.HandleFunc("/api/report", s.handleReportJSON)
	mux.HandleFunc("/api/metrics", s.handleMetricsJSON)
	mux.HandleFunc("/api/observations", s.handleObservationsJSON)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, status, and duration, and counts the
// request for /metrics.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		requestsTotal.WithLabelValues(r.URL.Path).Inc()
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.report())
}

func (s *Server) handleMetricsJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.report().Rows)
}

func (s *Server) handleObservationsJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.report().Results)
}
