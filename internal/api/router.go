package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/oracle/internal/api/handlers"
	"github.com/wonny/oracle/pkg/logger"
)

// Handlers bundles the endpoint handlers the router wires up. Jobs is nil
// when the server runs without an embedded scheduler.
type Handlers struct {
	Scan      *handlers.ScanHandler
	Portfolio *handlers.PortfolioHandler
	News      *handlers.NewsHandler
	Watchlist *handlers.WatchlistHandler
	Jobs      *handlers.JobsHandler
}

// NewRouter creates and configures the HTTP router.
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Scan endpoints
	api.HandleFunc("/scan/results", h.Scan.GetResults).Methods("GET")
	api.HandleFunc("/scan/run", h.Scan.TriggerRun).Methods("POST")
	api.HandleFunc("/scan/history", h.Scan.GetHistory).Methods("GET")
	api.HandleFunc("/scan/model", h.Scan.GetPredictionLog).Methods("GET")
	api.HandleFunc("/analyze/{symbol}", h.Scan.Analyze).Methods("GET")

	// Portfolio endpoints
	api.HandleFunc("/portfolio", h.Portfolio.GetPortfolio).Methods("GET")
	api.HandleFunc("/portfolio/trades", h.Portfolio.GetTrades).Methods("GET")

	// News and pulse endpoints
	api.HandleFunc("/news", h.News.GetNews).Methods("GET")
	api.HandleFunc("/news/refresh", h.News.RefreshNews).Methods("POST")
	api.HandleFunc("/pulse", h.News.GetPulse).Methods("GET")

	// Watchlist endpoints
	api.HandleFunc("/watchlist", h.Watchlist.GetWatchlist).Methods("GET")
	api.HandleFunc("/watchlist", h.Watchlist.AddSymbol).Methods("POST")
	api.HandleFunc("/watchlist/{symbol}", h.Watchlist.RemoveSymbol).Methods("DELETE")

	// Scheduler endpoints, only when a scheduler is embedded
	if h.Jobs != nil {
		api.HandleFunc("/jobs", h.Jobs.GetStats).Methods("GET")
		api.HandleFunc("/jobs/{name}/run", h.Jobs.TriggerJob).Methods("POST")
	}

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "oracle-api",
	})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
