package yahoo

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/alphadesk/pkg/config"
	"github.com/wonny/alphadesk/pkg/httputil"
	"github.com/wonny/alphadesk/pkg/logger"
	"github.com/wonny/alphadesk/pkg/redis"
)

// Client fetches price history and fundamentals from Yahoo Finance
// SSOT: all Yahoo Finance calls go through this client
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	limiter    *rate.Limiter
	logger     *logger.Logger

	chartBaseURL   string
	summaryBaseURL string
	cacheTTL       time.Duration

	// concurrency for bulk history downloads
	bulkWorkers int
}

// NewClient creates a new Yahoo Finance client
func NewClient(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	burst := int(cfg.Yahoo.RatePerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient:     httpClient,
		cache:          cache,
		limiter:        rate.NewLimiter(rate.Limit(cfg.Yahoo.RatePerSecond), burst),
		logger:         log,
		chartBaseURL:   cfg.Yahoo.ChartBaseURL,
		summaryBaseURL: cfg.Yahoo.SummaryBaseURL,
		cacheTTL:       cfg.Yahoo.CacheTTL,
		bulkWorkers:    8,
	}
}
