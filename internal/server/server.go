// Package server exposes the application's procedures over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "glowup/docs" // swagger docs
	"glowup/internal/bootstrap"
	"glowup/internal/cache"
	"glowup/internal/config"
	"glowup/internal/middleware"
	"glowup/internal/models"
	"glowup/internal/notifications"
	"glowup/internal/repository"
	"glowup/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	cache          *cache.Cache
	publisher      notifications.Publisher
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	procedures     map[string]procedure
	userService    *service.UserService
	postService    *service.PostService
	socialService  *service.SocialService
	commentService *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{ApplySchema: true})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, rt.DB, rt.Redis, rt.Publisher)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient and publisher may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, publisher notifications.Publisher) (*Server, error) {
	if db == nil {
		return nil, errors.New("server requires a database")
	}
	if publisher == nil {
		publisher = notifications.NopPublisher{}
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	c := cache.New(redisClient)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		cache:          c,
		publisher:      publisher,
		promMiddleware: middleware.InitMetrics("glowup-api"),
		userService:    service.NewUserService(userRepo, c, publisher),
		postService:    service.NewPostService(postRepo, userRepo, c, publisher),
		socialService:  service.NewSocialService(followRepo, likeRepo, userRepo, postRepo, c, publisher),
		commentService: service.NewCommentService(commentRepo, postRepo, userRepo, c, publisher),
	}
	server.procedures = server.registerProcedures()

	return server, nil
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Glowup API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	// Context Middleware to propagate Request ID
	app.Use(middleware.ContextMiddleware())

	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := "*"
	if s.config != nil && strings.TrimSpace(s.config.AllowedOrigins) != "" {
		origins = s.config.AllowedOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		MaxAge:       86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	rpc := app.Group("/rpc")
	rpc.Get("/:procedure", s.HandleProcedure)
	rpc.Post("/:procedure", s.HandleProcedure)
}

// Start builds the app and blocks serving on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close sql DB: %w", cerr))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", rerr))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return errors.Join(errs...)
}

// errorHandler turns errors that escape handlers into the standard error body.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch {
		case fe.Code == fiber.StatusNotFound:
			code = models.CodeNotFound
		case fe.Code == fiber.StatusMethodNotAllowed:
			code = models.CodeMethodNotAllowed
		case fe.Code >= 400 && fe.Code < 500:
			code = models.CodeValidation
		}
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message, Code: code})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}
