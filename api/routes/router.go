package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beambyp/EventBud/internal/events"
	"github.com/beambyp/EventBud/internal/ledger"
	"github.com/beambyp/EventBud/internal/seats"
	"github.com/beambyp/EventBud/internal/shared/config"
	"github.com/beambyp/EventBud/internal/shared/database"
	"github.com/beambyp/EventBud/internal/tickets"
	"github.com/beambyp/EventBud/internal/users"
	"github.com/beambyp/EventBud/pkg/cache"
	"github.com/beambyp/EventBud/pkg/clock"
	"github.com/beambyp/EventBud/pkg/logger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher tickets.Publisher // optional, nil disables notifications
	clock     clock.Clock
	log       *logger.Logger
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher tickets.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		clock:     clock.NewSystem(),
		log:       logger.GetDefault(),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	// Domain routes are mounted at root; their paths are the public API
	api := engine.Group("/")
	{
		// Shared repositories
		userRepo := users.NewRepository(r.db.GetPostgreSQL())
		eventRepo := events.NewRepository(r.db.GetPostgreSQL())
		seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
		ledgerRepo := ledger.NewRepository(r.db.GetPostgreSQL())
		ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())

		var cacheSvc cache.Service
		if r.db.Redis != nil {
			cacheSvc = cache.NewService(r.db.GetRedisClient())
		}

		// User routes
		userService := users.NewService(userRepo, eventRepo, r.config, r.clock, r.log)
		users.SetupUserRoutes(api, users.NewController(userService))

		// Event routes
		directory := users.NewDirectory(userRepo)
		eventService := events.NewService(eventRepo, ledgerRepo, seatRepo, directory, cacheSvc, r.clock, r.log)
		events.SetupEventRoutes(api, events.NewController(eventService))

		// Ticket routes
		ticketDirectory := users.NewTicketDirectory(userRepo)
		ticketService := tickets.NewService(ticketRepo, eventRepo, seatRepo, ledgerRepo, ticketDirectory, r.publisher, cacheSvc, r.clock, r.log)
		tickets.SetupTicketRoutes(api, tickets.NewController(ticketService))
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "eventbud-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "eventbud-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}
