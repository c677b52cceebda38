package auth

import (
	"github.com/gin-gonic/gin"
)

// Router handles auth-related routes
type Router struct {
	controller *Controller
	service    Service
}

func NewRouter(controller *Controller, service Service) *Router {
	return &Router{
		controller: controller,
		service:    service,
	}
}

// SetupRoutes registers all auth routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/auth")
	{
		// Public routes (no authentication required)
		group.POST("/register", r.controller.Register)
		group.POST("/login", r.controller.Login)
		group.POST("/refresh", r.controller.Refresh)

		// Protected routes (authentication required)
		protected := group.Group("")
		protected.Use(RequireAuth(r.service))
		{
			protected.GET("/me", r.controller.GetMe)
			protected.PUT("/change-password", r.controller.ChangePassword)
		}
	}
}
