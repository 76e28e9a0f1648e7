package handlers

import (
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the backend HTTP layer to services, the push hub and logging.
type Handler struct {
	services *service.Service
	hub      *Hub
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. A nil log discards output.
func NewHandler(services *service.Service, hub *Hub, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, hub: hub, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerEventRoutes(router)
	h.registerSummaryRoutes(router)

	// Push channel (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerEventRoutes(r *gin.Engine) {
	events := r.Group("/events")
	{
		events.GET("/live/:subject", h.getLive)
		events.GET("/today/:subject", h.getToday)
		// Body example: {"event_type":"phone","active":true}
		events.POST("/:subject", h.postEvent)
	}
}

func (h *Handler) registerSummaryRoutes(r *gin.Engine) {
	r.GET("/summary/today/:subject", h.getSummary)
}
