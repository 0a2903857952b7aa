package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/pingpong-club/internal/config"
	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/infrastructure/account/jwt"
	"github.com/riskibarqy/pingpong-club/internal/infrastructure/notify"
	"github.com/riskibarqy/pingpong-club/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pingpong-club/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pingpong-club/internal/interfaces/httpapi"
	"github.com/riskibarqy/pingpong-club/internal/observability"
	basecache "github.com/riskibarqy/pingpong-club/internal/platform/cache"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
	"github.com/riskibarqy/pingpong-club/internal/platform/resilience"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

// Runtime is everything a process needs after wiring.
type Runtime struct {
	Services httpapi.Services
	Store    usecase.Store
	Metrics  *observability.Metrics

	db *sqlx.DB
}

// Close releases the database pool.
func (r *Runtime) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Ping reports whether the database answers.
func (r *Runtime) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("database is not open")
	}
	return r.db.PingContext(ctx)
}

// ClubRules turns club configuration into match approval rules.
func ClubRules(club config.ClubConfig) match.Rules {
	rules := match.DefaultRules()
	if club.TimeZone != nil {
		rules.Location = club.TimeZone
	}
	rules.BonusWeekday = club.MatchBonusWeekday
	if club.InitialRankFresher > 0 {
		rules.Graduation.FreshmanRank = club.InitialRankFresher
	}
	return rules
}

// InitialRanks turns club configuration into registration ranks.
func InitialRanks(club config.ClubConfig) player.InitialRanks {
	ranks := player.DefaultInitialRanks()
	if club.InitialRankMale > 0 {
		ranks.Male = club.InitialRankMale
	}
	if club.InitialRankFemale > 0 {
		ranks.Female = club.InitialRankFemale
	}
	if club.InitialRankFresher > 0 {
		ranks.Freshman = club.InitialRankFresher
	}
	return ranks
}

// NewServices builds every use case over store. notifier and recorder may
// be nil.
func NewServices(
	cfg config.Config,
	store usecase.Store,
	notifier usecase.Notifier,
	recorder usecase.Recorder,
	logger *logging.Logger,
) httpapi.Services {
	loc := cfg.Club.TimeZone
	ledger := usecase.NewPointLedger()
	ranking := usecase.NewRankingService(store, logger)
	matches := usecase.NewMatchService(store, ranking, ledger, ClubRules(cfg.Club), cfg.Club.WorkerPoolSize, logger, recorder)
	tokens := jwt.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	return httpapi.Services{
		Accounts:    usecase.NewAccountService(store, tokens, logger),
		Players:     usecase.NewPlayerService(store, ranking, ledger, matches, InitialRanks(cfg.Club), logger),
		Ranking:     ranking,
		Matches:     matches,
		Bettings:    usecase.NewBettingService(store, ranking, ledger, cfg.Club.BettingDayWeekday, loc, logger, recorder),
		Leagues:     usecase.NewLeagueService(store, loc, logger),
		Tournaments: usecase.NewTournamentService(store, loc, logger),
		Partners:    usecase.NewPartnerService(store, logger),
		Divisions:   usecase.NewDivisionService(store, notifier, loc, logger, recorder),
	}
}

// NewRuntime opens the database and wires the use cases on top of it.
func NewRuntime(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	db, err := OpenDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var store usecase.Store = postgres.NewStore(db)
	if cfg.CacheEnabled {
		store = cache.NewStore(store, basecache.NewStore(cfg.CacheTTL))
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	var notifier usecase.Notifier
	if cfg.NotifyWebhookURL != "" {
		webhook, err := notify.NewWebhook(notify.WebhookConfig{
			URL:     cfg.NotifyWebhookURL,
			Timeout: cfg.NotifyTimeout,
			Breaker: resilience.Config{Threshold: 3, Cooldown: cfg.NotifyTimeout * 6, TrialCalls: 1},
		}, logger)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("build notifier: %w", err)
		}
		notifier = webhook
	}

	var recorder usecase.Recorder
	if metrics != nil {
		recorder = metrics
	}

	return &Runtime{
		Services: NewServices(cfg, store, notifier, recorder, logger),
		Store:    store,
		Metrics:  metrics,
		db:       db,
	}, nil
}

// NewHTTPServer wires the API on top of rt.
func NewHTTPServer(cfg config.Config, rt *Runtime, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	opts := httpapi.RouterOptions{CORSAllowedOrigins: cfg.CORSAllowedOrigins}
	if rt.Metrics != nil {
		opts.Metrics = rt.Metrics.Handler()
		opts.Observer = rt.Metrics
	}

	handler := httpapi.NewHandler(rt.Services, rt, logger)
	router := httpapi.NewRouter(handler, rt.Services.Accounts, logger, opts)

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}, nil
}
