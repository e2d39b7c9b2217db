package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pulsekpi/pulse/internal/catalog"
	"github.com/pulsekpi/pulse/internal/db"
	"github.com/pulsekpi/pulse/internal/health"
	"github.com/pulsekpi/pulse/internal/timeutil"
)

// ANSI escape codes for request log coloring
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server handles the health scoring API. The scorer is stateless; all
// request-scoped data comes from the database.
type Server struct {
	db      *db.DB
	cat     *catalog.Catalog
	scorer  *health.Scorer
	clock   timeutil.Clock
	profile string
}

// NewServer wires the API against its storage, catalog, and clock.
// profile names the weight profile used when a request does not pick one.
func NewServer(database *db.DB, cat *catalog.Catalog, clock timeutil.Clock, profile string) *Server {
	return &Server{
		db:      database,
		cat:     cat,
		scorer:  health.NewScorer(),
		clock:   clock,
		profile: profile,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("POST /api/customers", s.createCustomer)
	mux.HandleFunc("POST /api/accounts", s.createAccount)
	mux.HandleFunc("POST /api/accounts/{id}/kpis", s.uploadKPIs)
	mux.HandleFunc("GET /api/accounts/{id}/health", s.computeHealth)
	mux.HandleFunc("GET /api/accounts/{id}/trends", s.listTrends)
	mux.HandleFunc("GET /api/accounts/{id}/trends/chart", s.trendChart)
	mux.HandleFunc("GET /api/ranges", s.listRanges)
	mux.HandleFunc("PUT /api/ranges/{kpi}", s.putRangeOverride)
	mux.HandleFunc("DELETE /api/ranges/{kpi}", s.deleteRangeOverride)
	return mux
}
