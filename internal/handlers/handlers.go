package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"vastusite/internal/config"
	"vastusite/internal/middleware"
	"vastusite/internal/queue"
	"vastusite/internal/repository"
	"vastusite/internal/security"
	"vastusite/internal/service"
)

type HandlerSet struct {
	log             zerolog.Logger
	cfg             *config.AppConfig
	authService     *service.AuthService
	leadService     *service.LeadService
	checkoutService *service.CheckoutService
	partnerService  *service.PartnerService
	cache           *redis.Client
	leads           *repository.LeadRepository
}

// NewHandlerSet wires the services behind the HTTP surface. cache may be nil,
// in which case events are not published and health reports redis as disabled.
func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, codec *security.SessionCodec, leads *repository.LeadRepository, cache *redis.Client) HandlerSet {
	producer := queue.NewProducer(cache, cfg.Redis.Stream)

	return HandlerSet{
		log:             log,
		cfg:             cfg,
		authService:     service.NewAuthService(codec, cfg.Security, log),
		leadService:     service.NewLeadService(leads, producer, log),
		checkoutService: service.NewCheckoutService(cfg.Security.PaymentKeyID, cfg.Security.PaymentKeySecret, log),
		partnerService:  service.NewPartnerService(producer, log),
		cache:           cache,
		leads:           leads,
	}
}

func (h HandlerSet) Register(engine *gin.Engine) {
	api := engine.Group("/api")
	{
		api.GET("/healthz", h.Health)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/session", h.Session)

		// GET, PATCH and DELETE are guarded by the global gate.
		api.POST("/leads", h.CaptureLead)
		api.GET("/leads", h.ListLeads)
		api.PATCH("/leads", h.UpdateLead)
		api.DELETE("/leads", h.DeleteLead)

		api.POST("/checkout", h.CreateOrder)
		api.POST("/checkout/verify", h.VerifyPayment)

		api.POST("/partners/register", h.RegisterPartner)
	}

	engine.GET(middleware.LoginPath, h.AdminLoginPage)
	engine.GET("/admin", h.AdminDashboardPage)
	engine.GET("/admin/leads", h.AdminLeadsPage)
}

func (h HandlerSet) respondError(c *gin.Context, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.Is(err, service.ErrLeadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, security.ErrInvalidSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrSignatureMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment signature"})
	default:
		h.log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("request_id", middleware.RequestIDFrom(c)).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequestBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}
