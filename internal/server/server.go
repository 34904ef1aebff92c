package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/forkfolio/backend/config"
	"github.com/forkfolio/backend/internal/api"
	"github.com/forkfolio/backend/internal/database"
	"github.com/forkfolio/backend/internal/middleware"
	"github.com/forkfolio/backend/internal/router"
	"github.com/forkfolio/backend/internal/service"
)

// Server owns the HTTP listener and the connections behind it.
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *database.DB
	redis  *redis.Client
}

// New wires the full application from configuration: databases, Redis,
// object storage, services and handlers. Optional dependencies degrade
// instead of failing startup: without Redis there is no rate limiting,
// without S3 uploads are rejected.
func New(cfg *config.Config) (*Server, error) {
	gormDB, err := database.NewGorm(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(gormDB); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	rawDB, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open health check connection: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	var images *service.ImageService
	if s3cfg, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("S3 unavailable, image uploads disabled: %v", err)
	} else {
		if err := s3cfg.SetupBucketPolicy(context.Background()); err != nil {
			log.Printf("Failed to apply bucket policy: %v", err)
		}
		images = service.NewImageService(s3cfg)
	}

	sessions := service.NewSessionService(redisClient, cfg.SessionSecret)
	auth := service.NewAuthService(gormDB)
	recipes := service.NewRecipeService(gormDB)
	reviews := service.NewReviewService(gormDB)

	rateLimiter := middleware.NewReviewCreationRateLimiter(redisClient)

	engine := router.SetupRouter(
		api.NewHealthHandler(rawDB),
		api.NewAuthHandler(auth, sessions, recipes),
		api.NewRecipeHandler(recipes, images, sessions),
		api.NewReviewHandler(reviews, sessions, rateLimiter),
	)

	return &Server{
		router: engine,
		db:     rawDB,
		redis:  redisClient,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}, nil
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the backing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}
	return nil
}
