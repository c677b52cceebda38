package items

import (
	"github.com/gin-gonic/gin"
)

// SetupItemRoutes registers item routes. All of them require an
// authenticated user; the middleware is injected by the caller.
func SetupItemRoutes(rg *gin.RouterGroup, controller *Controller, requireAuth gin.HandlerFunc) {
	group := rg.Group("/items")
	group.Use(requireAuth)
	{
		group.GET("", controller.ListItems)
		group.POST("", controller.CreateItem)
		group.GET("/:id", controller.GetItem)
		group.PATCH("/:id", controller.UpdateItem)
		group.DELETE("/:id", controller.DeleteItem)
	}
}
