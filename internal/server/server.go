package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

// New connects to the database and Redis, brings the schema up to date and
// wires every handler.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient := database.OptionalRedisClient(ctx, cfg)

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewWithDeps(cfg, db, redisClient, images), nil
}

// NewWithDeps builds the server around existing connections. redisClient may be nil.
func NewWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, images storage.ImageStore) *Server {
	tokens := service.NewDBTokenStore(db)
	var createLimiter, updateLimiter *middleware.RateLimiter
	if redisClient != nil {
		createLimiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreateLimit)
		updateLimiter = middleware.NewRecipeModificationRateLimiter(redisClient, cfg.RecipeUpdateLimit)
	}

	router := gin.Default()
	router.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.ImageStore == "local" {
		router.Static(cfg.MediaURL, cfg.MediaRoot)
	}

	api.SetupAPI(router, api.Services{
		DB:            db,
		Auth:          service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, tokens),
		Users:         service.NewUserService(db),
		Follows:       service.NewFollowService(db),
		Recipes:       service.NewRecipeService(db, service.NewImageService(images)),
		Ledger:        service.NewLedgerService(db),
		References:    service.NewReferenceService(db),
		CreateLimiter: createLimiter,
		UpdateLimiter: updateLimiter,
		Paging:        api.Paging{DefaultLimit: cfg.PageSize, MaxLimit: cfg.MaxPageSize},
	})

	return &Server{
		cfg:    cfg,
		router: router,
		db:     db,
		redis:  redisClient,
		http: &http.Server{
			Addr:              cfg.HTTPAddr(),
			Handler:           middleware.ErrorHandler(router),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// newImageStore picks the image backend named by IMAGE_STORE.
func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	switch cfg.ImageStore {
	case "s3":
		s3Cfg, err := cfg.NewS3Config(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to configure S3: %w", err)
		}
		if err := s3Cfg.SetupBucketPolicy(ctx); err != nil {
			log.Printf("[Server] could not apply public-read policy to %s: %v", s3Cfg.BucketName, err)
		}
		return storage.NewS3Store(s3Cfg), nil
	case "minio":
		minioCfg, err := cfg.NewMinioConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to configure MinIO: %w", err)
		}
		return storage.NewMinioStore(minioCfg), nil
	default:
		return storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	}
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.Printf("[Server] Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes connections
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			log.Printf("[Server] closing redis: %v", cerr)
		}
	}
	if sqlDB, derr := s.db.DB(); derr == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("[Server] closing database: %v", cerr)
		}
	}
	return err
}
