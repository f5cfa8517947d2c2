package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/hypersenta/backend/internal/app"
	iauth "github.com/hypersenta/backend/internal/auth"
	"github.com/hypersenta/backend/internal/handlers"
	"github.com/hypersenta/backend/internal/messaging"
	"github.com/hypersenta/backend/internal/middleware"
	"github.com/hypersenta/backend/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, dispatcher *messaging.Dispatcher) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("messaging dispatcher must be provided")
	}

	userSvc, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	orgSvc, err := services.NewOrganizationService(db)
	if err != nil {
		return nil, err
	}
	messageSvc, err := services.NewMessageService(db, dispatcher)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	authHandler := handlers.NewAuthHandler(userSvc, jwt)
	userHandler := handlers.NewUserHandler(userSvc)

	// Public routes: login and registration
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
	}
	r.POST("/api/users", userHandler.Create)

	// Protected routes
	requireAuth := middleware.Auth(jwt)

	api := r.Group("/api")
	api.Use(requireAuth)

	// Profile
	profileHandler := handlers.NewProfileHandler(userSvc)
	profile := api.Group("/profile")
	{
		profile.GET("", profileHandler.Me)
		profile.PATCH("", profileHandler.Update)
		profile.POST("/password", profileHandler.ChangePassword)
		profile.PUT("/last-organization", profileHandler.SetLastOrganization)
	}

	// Users (administration)
	users := api.Group("/users")
	{
		users.GET("", middleware.RequireSuperuser(), userHandler.List)
		users.GET("/:id", middleware.RequireSuperuser(), userHandler.Get)
		users.PATCH("/:id/active", middleware.RequireSuperuser(), userHandler.SetActive)
	}

	orgHandler := handlers.NewOrganizationHandler(orgSvc, userSvc)
	memberHandler := handlers.NewOrganizationMemberHandler(orgSvc)

	// Organization member routes are registered before the organization
	// routes. The member paths nest under /organizations/:id and must never
	// be shadowed by the shorter organization paths.
	members := api.Group("/organizations/:id/members")
	{
		members.GET("", memberHandler.List)
		members.POST("", memberHandler.Add)
		members.PATCH("/:userId", memberHandler.UpdateRole)
		members.DELETE("/:userId", memberHandler.Remove)
	}

	// Organizations
	orgs := api.Group("/organizations")
	{
		orgs.GET("", orgHandler.List)
		orgs.GET("/:id", orgHandler.Get)
		orgs.POST("", orgHandler.Create)
		orgs.PATCH("/:id", orgHandler.Update)
		orgs.DELETE("/:id", orgHandler.Delete)
	}

	// Messages
	messageHandler := handlers.NewMessageHandler(messageSvc)
	msgs := api.Group("/messages")
	{
		msgs.GET("", middleware.RequireSuperuser(), messageHandler.List)
		msgs.POST("/sms", messageHandler.SendSMS)
		msgs.POST("/email", messageHandler.SendEmail)
	}

	// Metrics endpoint
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
