package handlers

import (
	"net/http"

	"fermentation_logger/internal/logger"
	"fermentation_logger/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options toggles optional surfaces of the router.
type Options struct {
	AuthEnabled bool         // require a bearer token on /api/v1
	Metrics     http.Handler // served at /metrics when set
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.opts.Metrics))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// live snapshot feed on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	if h.opts.AuthEnabled {
		api.Use(h.operatorMiddleware)
	}
	{
		h.registerReadingRoutes(api)
		h.registerDeliveryRoutes(api)
	}
}

func (h *Handler) registerReadingRoutes(api *gin.RouterGroup) {
	api.GET("/snapshot", h.getSnapshot)
	api.GET("/preview", h.getPreview)
	readings := api.Group("/readings")
	{
		readings.GET("", h.getReadings)
		// Body example: {"beerTemp":66.5,"gravity":1.048,"voltage":null}
		readings.POST("", h.postReadings)
	}
}

func (h *Handler) registerDeliveryRoutes(api *gin.RouterGroup) {
	api.GET("/deliveries", h.getDeliveries)
	api.POST("/send", h.sendNow)
}
