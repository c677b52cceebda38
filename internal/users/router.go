package users

import (
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers user management routes. The auth middlewares
// are injected to keep this package independent of internal/auth.
func SetupUserRoutes(rg *gin.RouterGroup, controller *Controller, requireAuth, requireSuperuser gin.HandlerFunc) {
	group := rg.Group("/users")
	group.Use(requireAuth)
	{
		group.GET("", requireSuperuser, controller.ListUsers)
		group.GET("/:id", controller.GetUser)
		group.PATCH("/:id", controller.UpdateUser)
		group.DELETE("/:id", requireSuperuser, controller.DeleteUser)
	}
}
