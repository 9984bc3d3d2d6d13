package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"focus-backend/internal/backgrounds"
	"focus-backend/internal/services/health"
	"focus-backend/internal/shared/config"
	"focus-backend/internal/shared/metrics"
	"focus-backend/internal/shared/server"
	"focus-backend/internal/shared/storage/db"
	"focus-backend/internal/shared/storage/docdb"
	"focus-backend/internal/shared/storage/kv"
	"focus-backend/internal/shared/storage/object"
	cloudinarystore "focus-backend/internal/shared/storage/object/cloudinary"
	gcsstore "focus-backend/internal/shared/storage/object/gcs"
	localstore "focus-backend/internal/shared/storage/object/local"
	s3store "focus-backend/internal/shared/storage/object/s3"
	"focus-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	Registry *prometheus.Registry
	DB       *sql.DB
	Mongo    *mongo.Client
	Redis    *goredis.Client
	Assets   object.AssetStore
	Health   *health.Service

	BackgroundsRepo    backgrounds.Repo
	BackgroundsService *backgrounds.Service
	BackgroundsHandler *backgrounds.Handler

	closers []func(context.Context) error
}

// Build connects the configured stores and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.AssetStoreType) == "" {
		cfg.AssetStoreType = "local"
	}
	if strings.TrimSpace(cfg.RecordStore) == "" {
		cfg.RecordStore = "memory"
	}
	ctx := context.Background()

	app := &App{
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
		Health:   health.NewService(),
	}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := app.buildRepo(ctx); err != nil {
		app.Close(ctx)
		return nil, err
	}
	assets, err := app.buildAssets(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.Assets = assets

	var cache backgrounds.ListCache
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rdb, err := kv.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			// The cache only saves reads; serve without it.
			telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err})
		} else {
			app.Redis = rdb
			app.Health.Register("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
			app.closers = append(app.closers, func(context.Context) error { return rdb.Close() })
			cache = backgrounds.NewRedisCache(rdb, cfg.RedisListTTL)
		}
	}

	app.BackgroundsService = &backgrounds.Service{
		Repo:                   app.BackgroundsRepo,
		Assets:                 assets,
		Cache:                  cache,
		Metrics:                metrics.MustNew(app.Registry),
		RollbackPartialUploads: cfg.RollbackPartialUploads,
	}
	app.BackgroundsHandler = backgrounds.NewHandler(app.BackgroundsService, cfg.MaxUploadBytes)
	if app.BackgroundsHandler == nil {
		app.Close(ctx)
		return nil, errors.New("failed to initialize handlers")
	}

	deps := server.RouterDeps{
		Config:   cfg,
		Handlers: []server.RouteRegistrar{app.BackgroundsHandler},
		Gatherer: app.Registry,
		Health:   app.Health,
	}
	if local, ok := assets.(*localstore.Store); ok {
		deps.UploadsDir = local.Dir()
	}
	app.Router = server.NewRouter(deps)

	return app, nil
}

// Close releases connections opened by Build in reverse order.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			telemetry.Warn("bootstrap.close_failed", map[string]any{"error": err})
		}
	}
	a.closers = nil
}

func (a *App) buildRepo(ctx context.Context) error {
	cfg := a.Config
	switch cfg.RecordStore {
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return fmt.Errorf("RECORD_STORE=postgres requires DATABASE_URL")
		}
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		a.DB = sqlDB
		a.Health.Register("postgres", sqlDB.PingContext)
		a.BackgroundsRepo = &backgrounds.PGRepo{DB: sqlDB}
	case "mongo":
		client, database, err := docdb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Disconnect)
		a.Mongo = client
		a.Health.Register("mongo", func(ctx context.Context) error { return client.Ping(ctx, nil) })
		a.BackgroundsRepo = backgrounds.NewMongoRepo(database)
	default:
		if !isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_store", map[string]any{"env": cfg.Env})
		}
		a.BackgroundsRepo = backgrounds.NewMemoryRepo()
	}
	return nil
}

func (a *App) buildAssets(ctx context.Context) (object.AssetStore, error) {
	cfg := a.Config
	switch cfg.AssetStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:        cfg.AWSRegion,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
			KMSKeyID:      cfg.SSEKMSKeyID,
		})
	case "gcs":
		store, err := gcsstore.New(ctx, gcsstore.Options{
			Bucket:    cfg.GCSBucket,
			Prefix:    cfg.GCSPrefix,
			CDNDomain: cfg.GCSCDNDomain,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		return store, nil
	case "cloudinary":
		return cloudinarystore.New(cloudinarystore.Options{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryFolder,
		})
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.LocalPublicURL), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
