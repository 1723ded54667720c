package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"record-attachments/internal/documents"
	"record-attachments/internal/services/health"
	"record-attachments/internal/shared/config"
	"record-attachments/internal/shared/server"
	"record-attachments/internal/shared/storage/db"
	"record-attachments/internal/shared/storage/object"
	localstore "record-attachments/internal/shared/storage/object/local"
	s3store "record-attachments/internal/shared/storage/object/s3"
	"record-attachments/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	DocumentsRepo    documents.DocumentsRepo
	DocumentsService *documents.Service
	DocumentsHandler *documents.Handler
	Health           *health.Service
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		Health:          app.Health,
	})

	return app, nil
}

// Close releases the database pool if one was opened.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Error("bootstrap.memory_repos", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			KMSKeyID:        cfg.SSEKMSKeyID,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var docRepo documents.DocumentsRepo
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		app.Health = health.NewService(app.DB, app.Store.Provider())
	} else {
		docRepo = documents.NewMemoryRepo(documents.DefaultTypes())
		app.Health = health.NewService(nil, app.Store.Provider())
	}

	docSvc := &documents.Service{
		Store:          app.Store,
		Repo:           docRepo,
		MaxUploadBytes: app.Config.MaxUploadBytes,
	}

	app.DocumentsRepo = docRepo
	app.DocumentsService = docSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
