// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"stash/internal/auth"
	"stash/internal/items"
	"stash/internal/notifications"
	"stash/internal/shared/config"
	"stash/internal/shared/database"
	"stash/internal/users"
	"stash/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config      *config.Config
	db          *database.DB
	notifier    notifications.Service
	authService auth.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notifier notifications.Service) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) (err error) {
	r.authService, err = r.buildAuthService()
	if err != nil {
		return err
	}

	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupUserRoutes(api)
		r.setupItemRoutes(api)
	}

	return nil
}

// buildAuthService assembles the token codec, issuer and auth service that
// both the auth endpoints and the middleware share.
func (r *Router) buildAuthService() (auth.Service, error) {
	codec, err := auth.NewCodec(r.config.JWT)
	if err != nil {
		return nil, err
	}
	issuer := auth.NewIssuer(codec, r.config.JWT.AccessTTL, r.config.JWT.RefreshTTL)

	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, codec, issuer)
	if r.notifier != nil {
		authService.SetNotifier(r.notifier)
	}
	return authService, nil
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "stash-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "stash-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authController := auth.NewController(r.authService)
	authRouter := auth.NewRouter(authController, r.authService)

	authRouter.SetupRoutes(rg)
}

// setupUserRoutes configures user management routes
func (r *Router) setupUserRoutes(rg *gin.RouterGroup) {
	userRepo := users.NewRepository(r.db.GetPostgreSQL())
	userService := users.NewService(userRepo, auth.HashPassword)
	userController := users.NewController(userService)

	users.SetupUserRoutes(rg, userController,
		auth.RequireAuth(r.authService),
		auth.RequireSuperuser(),
	)
}

// setupItemRoutes configures item management routes
func (r *Router) setupItemRoutes(rg *gin.RouterGroup) {
	itemRepo := items.NewRepository(r.db.GetPostgreSQL())

	var cacheService cache.Service
	if r.db.GetRedisClient() != nil {
		cacheService = cache.NewService(r.db.GetRedisClient())
	}

	itemService := items.NewService(itemRepo, cacheService)
	itemController := items.NewController(itemService)

	items.SetupItemRoutes(rg, itemController, auth.RequireAuth(r.authService))
}
