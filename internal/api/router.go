package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/config"
	"github.com/galihcitta/chalet-reservation-system/internal/middleware"
)

// Services groups what the handlers depend on. Intake and Publisher are
// optional; HealthCheck reports storage reachability when set.
type Services struct {
	Chalets      ChaletService
	Tenants      TenantService
	Reservations ReservationService
	Intake       IntakeService
	Publisher    Publisher
	HealthCheck  func(ctx context.Context) error
}

type Server struct {
	router             *gin.Engine
	config             *config.Config
	auth               *middleware.Authenticator
	chaletHandler      *ChaletHandler
	tenantHandler      *TenantHandler
	reservationHandler *ReservationHandler
	intakeHandler      *IntakeHandler
	authHandler        *AuthHandler
	healthCheck        func(ctx context.Context) error
	logger             *zap.Logger
}

func NewServer(cfg *config.Config, svc Services, logger *zap.Logger) *Server {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))

	if cfg.Metrics.Enabled {
		router.Use(middleware.PrometheusMiddleware())
	}

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry, cfg.Auth.RefreshExpiry)

	s := &Server{
		router:             router,
		config:             cfg,
		auth:               auth,
		chaletHandler:      NewChaletHandler(svc.Chalets, logger),
		tenantHandler:      NewTenantHandler(svc.Tenants, logger),
		reservationHandler: NewReservationHandler(svc.Reservations, logger),
		authHandler:        NewAuthHandler(auth, cfg.Auth.Users, logger),
		healthCheck:        svc.HealthCheck,
		logger:             logger,
	}
	if svc.Intake != nil {
		s.intakeHandler = NewIntakeHandler(svc.Intake, svc.Publisher, cfg.Intake.Queue, logger)
	}
	return s
}

func (s *Server) SetupRoutes() {
	s.router.GET("/health", s.health)

	if s.config.Metrics.Enabled {
		s.router.GET(s.config.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	auth := s.router.Group("/auth")
	{
		auth.POST("/login", s.authHandler.Login)
		auth.POST("/refresh", s.authHandler.RefreshToken)
	}

	v1 := s.router.Group("/api/v1")

	// The website form is open to anonymous visitors.
	if s.intakeHandler != nil {
		v1.POST("/reservations/public", s.intakeHandler.SubmitPublicReservation)
		v1.POST("/reservations/public/async", s.intakeHandler.EnqueuePublicReservation)
	}

	staff := v1.Group("")
	adminOnly := []gin.HandlerFunc{}
	if s.config.Auth.RequireAuth {
		staff.Use(s.auth.JWTAuthMiddleware())
		adminOnly = append(adminOnly, middleware.RequireRole(middleware.RoleAdmin))
	}

	{
		chalets := staff.Group("/chalets")
		chalets.POST("", s.chaletHandler.CreateChalet)
		chalets.GET("", s.chaletHandler.GetAllChalets)
		chalets.GET("/:id", s.chaletHandler.GetChalet)
		chalets.GET("/:id/reservations", s.reservationHandler.ListChaletReservations)
		chalets.PUT("/:id", s.chaletHandler.UpdateChalet)
		chalets.DELETE("/:id", append(adminOnly, s.chaletHandler.DeleteChalet)...)

		tenants := staff.Group("/tenants")
		tenants.POST("", s.tenantHandler.CreateTenant)
		tenants.GET("", s.tenantHandler.GetAllTenants)
		tenants.GET("/:id", s.tenantHandler.GetTenant)
		tenants.PUT("/:id", s.tenantHandler.UpdateTenant)
		tenants.DELETE("/:id", append(adminOnly, s.tenantHandler.DeleteTenant)...)

		reservations := staff.Group("/reservations")
		reservations.POST("", s.reservationHandler.CreateReservation)
		reservations.GET("", s.reservationHandler.GetAllReservations)
		reservations.GET("/:id", s.reservationHandler.GetReservation)
		reservations.PUT("/:id", s.reservationHandler.UpdateReservation)
		reservations.DELETE("/:id", s.reservationHandler.DeleteReservation)
	}
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":  "ok",
		"service": "chalet-reservation-system",
	}

	if s.healthCheck != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.healthCheck(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}

	c.JSON(status, body)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
