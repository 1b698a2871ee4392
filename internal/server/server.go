// Package server contains the HTTP handlers and guards for the API.
package server

import (
	"context"
	"fmt"
	"time"

	"pauller/internal/cache"
	"pauller/internal/config"
	"pauller/internal/database"
	"pauller/internal/middleware"
	"pauller/internal/repository"
	"pauller/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	pollRepo       repository.PollRepository
	accountService *service.AccountService
	pollService    *service.PollService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Used by tests and by bootstrap layers that establish DB/Redis themselves.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	pollRepo := repository.NewPollRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("pauller-api"),
		userRepo:       userRepo,
		pollRepo:       pollRepo,
		accountService: service.NewAccountService(userRepo),
		pollService:    service.NewPollService(pollRepo),
	}
	return server, nil
}

// SetupMiddleware installs the cross-cutting middleware stack on the app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware, app))
	}
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/signup", s.Signup)
	users.Post("/login", s.Login)
	users.Put("/update", s.Authenticate(RequiredMode), s.UpdateUser)

	admin := users.Group("", s.Authenticate(RequiredMode), s.Guard(AdminCapability, RequiredMode))
	admin.Post("/:id/promote-admin", s.PromoteToAdmin)
	admin.Post("/:id/demote-admin", s.DemoteFromAdmin)
	admin.Post("/:id/activate", s.ActivateUser)
	admin.Post("/:id/deactivate", s.DeactivateUser)

	polls := api.Group("/polls")
	polls.Get("/",
		s.Authenticate(OptionalMode),
		s.Guard(AdminCapability, OptionalMode),
		s.Guard(ActiveCapability, OptionalMode),
		s.GetPolls)
	polls.Post("/create",
		s.Authenticate(RequiredMode),
		s.Guard(ActiveCapability, RequiredMode),
		s.CreatePoll)
	polls.Delete("/delete/:id",
		s.Authenticate(RequiredMode),
		s.Guard(AdminCapability, RequiredMode),
		s.DeletePoll)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "time": time.Now()})
}

// ReadinessCheck reports whether the database and cache are reachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	status := fiber.StatusOK
	dbStatus := "ok"
	redisStatus := "ok"

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(c.Context()) != nil {
			dbStatus = "unreachable"
			status = fiber.StatusServiceUnavailable
		}
	} else {
		dbStatus = "not configured"
		status = fiber.StatusServiceUnavailable
	}

	if s.redis != nil {
		if err := s.redis.Ping(c.Context()).Err(); err != nil {
			// Cache is optional; report but stay ready.
			redisStatus = "unreachable"
		}
	} else {
		redisStatus = "not configured"
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
