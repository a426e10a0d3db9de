package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholarmatch/scholarship-service/internal/models"
	"github.com/scholarmatch/scholarship-service/internal/services"
	"github.com/scholarmatch/scholarship-service/internal/utils"
)

// HandlerManager wires every handler against the service layer
type HandlerManager struct {
	serviceManager services.ServiceManager
	logger         utils.Logger

	authHandler         *AuthHandler
	profileHandler      *ProfileHandler
	scholarshipHandler  *ScholarshipHandler
	interactionHandler  *InteractionHandler
	dashboardHandler    *DashboardHandler
	notificationHandler *NotificationHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		serviceManager: serviceManager,
		logger:         logger,

		authHandler:         NewAuthHandler(serviceManager.Auth(), logger),
		profileHandler:      NewProfileHandler(serviceManager.Profile(), logger),
		scholarshipHandler:  NewScholarshipHandler(serviceManager.Scholarship(), serviceManager.Match(), logger),
		interactionHandler:  NewInteractionHandler(serviceManager.Interaction(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Interaction(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
	}
}

// SetupRoutes registers all API routes on the router
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", hm.authHandler.Signup)
		auth.POST("/login", hm.authHandler.Login)
	}

	authed := v1.Group("")
	authed.Use(JWTAuthMiddleware(hm.serviceManager.Auth()))
	{
		authed.POST("/profiles", hm.profileHandler.SubmitProfile)
		authed.GET("/profiles/me", hm.profileHandler.GetMyProfile)

		authed.GET("/scholarships/matches", hm.scholarshipHandler.GetMatches)
		authed.GET("/scholarships/saved", hm.interactionHandler.ListSaved)
		authed.GET("/scholarships/applied", hm.interactionHandler.ListApplied)
		authed.POST("/scholarships/:id/save", hm.interactionHandler.SaveScholarship)
		authed.DELETE("/scholarships/:id/save", hm.interactionHandler.UnsaveScholarship)
		authed.POST("/scholarships/:id/apply", hm.interactionHandler.ApplyScholarship)
		authed.DELETE("/scholarships/:id/apply", hm.interactionHandler.UnapplyScholarship)

		authed.GET("/dashboard/stats", hm.dashboardHandler.GetStats)
	}

	admin := authed.Group("")
	admin.Use(RequireRoleMiddleware(models.RoleAdmin))
	{
		admin.POST("/scholarships", hm.scholarshipHandler.CreateScholarship)
		admin.GET("/scholarships", hm.scholarshipHandler.ListScholarships)
		admin.GET("/scholarships/export", hm.scholarshipHandler.ExportScholarships)
		admin.POST("/scholarships/import", hm.scholarshipHandler.ImportScholarships)
		admin.GET("/scholarships/:id", hm.scholarshipHandler.GetScholarship)
		admin.PUT("/scholarships/:id", hm.scholarshipHandler.UpdateScholarship)
		admin.DELETE("/scholarships/:id", hm.scholarshipHandler.DeleteScholarship)

		admin.POST("/notifications/sweep", hm.notificationHandler.TriggerSweep)
	}
}

// healthCheck reports service and dependency health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "scholarship-service",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "scholarship-service",
	})
}
