package commands

import (
	"context"
	"fmt"

	"github.com/wonny/alphadesk/internal/backtest"
	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/internal/external/nasdaq"
	"github.com/wonny/alphadesk/internal/external/slickcharts"
	"github.com/wonny/alphadesk/internal/external/yahoo"
	"github.com/wonny/alphadesk/internal/fundamentals"
	"github.com/wonny/alphadesk/internal/liquidity"
	"github.com/wonny/alphadesk/internal/model"
	"github.com/wonny/alphadesk/internal/portfolio"
	"github.com/wonny/alphadesk/internal/scoring"
	"github.com/wonny/alphadesk/internal/strategy"
	"github.com/wonny/alphadesk/internal/universe"
	"github.com/wonny/alphadesk/pkg/config"
	"github.com/wonny/alphadesk/pkg/database"
	"github.com/wonny/alphadesk/pkg/httputil"
	"github.com/wonny/alphadesk/pkg/logger"
	"github.com/wonny/alphadesk/pkg/redis"
)

// app wires every component the commands share
// SSOT: dependency wiring happens here only
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	redis    *redis.Client
	strategy *strategy.Config
	limiter  *redis.RateLimiter

	scores     *scoring.Repository
	portfolios *portfolio.Repository
	runner     *model.Runner
	engine     *backtest.Engine
}

// newApp builds the full dependency graph from config
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	path := cfg.StrategyFile
	if strategyFile != "" {
		path = strategyFile
	}
	strat, err := strategy.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rc, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	limiter := redis.NewRateLimiter(rc, "alphadesk")
	cache := redis.NewCache(rc, "alphadesk")

	httpClient := httputil.New(cfg, log).
		WithRateLimiter(limiter, redis.YahooRateLimit)
	provider := yahoo.NewClient(cfg, httpClient, cache, log)

	var source contracts.ListingSource
	switch cfg.UniverseSource {
	case "nasdaq":
		source = nasdaq.NewListing(cfg, httpClient, log)
	default:
		source = slickcharts.NewSP500(cfg, httpClient, log)
	}

	scores := scoring.NewRepository(db.Pool)
	portfolios := portfolio.NewRepository(db.Pool)
	if err := scores.InitSchema(ctx); err != nil {
		db.Close()
		rc.Close()
		return nil, fmt.Errorf("init score schema: %w", err)
	}
	if err := portfolios.InitSchema(ctx); err != nil {
		db.Close()
		rc.Close()
		return nil, fmt.Errorf("init portfolio schema: %w", err)
	}

	runner := model.NewRunner(
		universe.NewLoader(source, cfg.Watchlist, log),
		liquidity.NewFilter(provider, strat.Liquidity, log),
		fundamentals.NewFetcher(provider, strat.Fundamentals.Workers, log),
		scoring.NewScorer(strat, log),
		portfolio.NewConstructor(strat.Portfolio, log),
		scores,
		portfolios,
		log,
	)
	engine := backtest.NewEngine(portfolios, provider, strat.Backtest, log)

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		redis:      rc,
		strategy:   strat,
		limiter:    limiter,
		scores:     scores,
		portfolios: portfolios,
		runner:     runner,
		engine:     engine,
	}, nil
}

// Close releases the app's connections
func (a *app) Close() {
	a.db.Close()
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("closing redis")
	}
}
