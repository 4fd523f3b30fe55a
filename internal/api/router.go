package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/alphadesk/internal/api/handlers"
	"github.com/wonny/alphadesk/pkg/logger"
	"github.com/wonny/alphadesk/pkg/redis"
)

// NewRouter creates and configures the HTTP router
// SSOT: route wiring happens in this function only
func NewRouter(
	rankings *handlers.RankingsHandler,
	portfolio *handlers.PortfolioHandler,
	backtest *handlers.BacktestHandler,
	model *handlers.ModelHandler,
	limiter *redis.RateLimiter,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/rankings/latest", rankings.GetLatest).Methods("GET")
	api.HandleFunc("/rankings/{date}", rankings.GetByDate).Methods("GET")
	api.HandleFunc("/portfolio/latest", portfolio.GetLatest).Methods("GET")
	api.HandleFunc("/portfolio/{date}", portfolio.GetByDate).Methods("GET")
	api.HandleFunc("/backtest", backtest.Run).Methods("GET")
	api.HandleFunc("/model/run", model.TriggerRun).Methods("POST")

	if limiter != nil {
		api.Use(rateLimitMiddleware(limiter, log))
	}
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "alphadesk-api",
	})
}

// apiRateLimit bounds each client's API request rate
var apiRateLimit = redis.RateLimitConfig{
	Limit:  60,
	Window: time.Minute,
}

// rateLimitMiddleware applies a sliding-window limit per client address
func rateLimitMiddleware(limiter *redis.RateLimiter, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg := apiRateLimit
			cfg.Key = "api:" + r.RemoteAddr
			allowed, _, err := limiter.Allow(r.Context(), cfg)
			if err != nil {
				// Limiter trouble never blocks traffic
				log.WithError(err).Warn("rate limiter unavailable")
			} else if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs HTTP requests
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

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
