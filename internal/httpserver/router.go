package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/Skotchmaster/favorites_api/docs"
	"github.com/Skotchmaster/favorites_api/internal/metrics"
	authmw "github.com/Skotchmaster/favorites_api/pkg/middleware/auth"
	"github.com/Skotchmaster/favorites_api/pkg/logging"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	CustomerHandler *CustomerHTTP
	FavoriteHandler *FavoriteHTTP
	Authenticator   authmw.Authenticator
	// Ready reports whether the backing store is reachable.
	Ready   func(ctx context.Context) error
	Metrics *metrics.Metrics
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			logging.FromContext(ctx).Error("readiness_failed", "status", http.StatusServiceUnavailable, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	e.GET("/swagger/*", echo.WrapHandler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)

	gate := authmw.NewBearerMiddleware(d.Authenticator)

	customers := e.Group("/customers", gate.RequireAuth)
	customers.GET("", d.CustomerHandler.List)
	customers.GET("/search", d.CustomerHandler.Search)
	customers.GET("/:id", d.CustomerHandler.Get)
	customers.POST("", d.CustomerHandler.Create)
	customers.PUT("/:id", d.CustomerHandler.Update)
	customers.DELETE("/:id", d.CustomerHandler.Delete)

	customers.GET("/:customerId/favorites", d.FavoriteHandler.List)
	customers.POST("/:customerId/favorites", d.FavoriteHandler.Add)
	customers.DELETE("/:customerId/favorites/:productId", d.FavoriteHandler.Remove)
}
