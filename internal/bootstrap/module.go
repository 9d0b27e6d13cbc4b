package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"resmatch/internal/bootstrap/config"
	"resmatch/internal/bootstrap/database"
	"resmatch/internal/bootstrap/logging"
	domainmatch "resmatch/internal/domain/match"
	cacheinfra "resmatch/internal/infrastructure/cache"
	"resmatch/internal/infrastructure/events"
	"resmatch/internal/infrastructure/httpapi"
	"resmatch/internal/infrastructure/llm"
	"resmatch/internal/infrastructure/metrics"
	sqliterepo "resmatch/internal/infrastructure/persistence/sqlite/repository"
	"resmatch/internal/ports"
	matchusecase "resmatch/internal/usecase/match"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(sqliterepo.NewEntityRepository),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewSnapshotRepository,
			fx.As(new(ports.SnapshotStore)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(metrics.NewRecorder),
	fx.Provide(provideMatchService),
	fx.Provide(provideInvalidationCoordinator),
	fx.Provide(provideSubscriber),
	fx.Provide(provideHTTPServer),
)

// Components bundles everything a CLI command may need from the container.
type Components struct {
	fx.In

	App         *App
	Entities    *sqliterepo.EntityRepository
	Service     *matchusecase.Service
	Invalidator *matchusecase.InvalidationCoordinator
	Server      *httpapi.Server
	Subscriber  *events.Subscriber
}

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideMatchService(
	cfg config.Config,
	entities *sqliterepo.EntityRepository,
	cache ports.Cache,
	snapshots ports.SnapshotStore,
	recorder *metrics.Recorder,
) *matchusecase.Service {
	// A disabled model path leaves the scorer nil; the service then runs
	// fallback-only.
	var scorer ports.PairScorer
	if cfg.LLM.Enabled {
		scorer = llm.NewOpenAIScorer(cfg.LLM)
	}

	return matchusecase.NewService(entities, scorer, cache, snapshots, recorder, matchusecase.Config{
		CacheTTL:     cfg.Cache.TTL,
		SnapshotTTL:  cfg.Cache.SnapshotTTL,
		DefaultLimit: cfg.Match.DefaultLimit,
		Weights: domainmatch.Weights{
			Skill:      cfg.Match.SkillWeight,
			Interest:   cfg.Match.InterestWeight,
			Experience: cfg.Match.ExperienceWeight,
		},
	})
}

func provideInvalidationCoordinator(cache ports.Cache, recorder *metrics.Recorder) *matchusecase.InvalidationCoordinator {
	return matchusecase.NewInvalidationCoordinator(cache, recorder)
}

func provideSubscriber(cfg config.Config, invalidator *matchusecase.InvalidationCoordinator) *events.Subscriber {
	return events.NewSubscriber(cfg.Events, invalidator)
}

func provideHTTPServer(
	cfg config.Config,
	service *matchusecase.Service,
	invalidator *matchusecase.InvalidationCoordinator,
	recorder *metrics.Recorder,
) *httpapi.Server {
	return httpapi.NewServer(cfg.HTTP, service, invalidator, recorder.Handler())
}
