package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers the server exposes.
type Handlers struct {
	Bookings *api.BookingHandler
	Flights  *api.FlightHandler
	Payments *api.PaymentHandler
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger, handlers Handlers) error {
	router := newRouter(cfg, logger, handlers)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, logger *zap.Logger, handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	corsCfg := cors.DefaultConfig()
	if len(cfg.HTTP.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Access-Token")
	router.Use(cors.New(corsCfg))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Flight Booking API is running!")
	})

	protected := auth.Middleware(cfg.Auth.JWTSecret)

	root := router.Group("/api")
	handlers.Flights.Register(root.Group("/flights"))
	handlers.Bookings.Register(root.Group("/bookings", protected))
	handlers.Payments.Register(root.Group("/payments", protected))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
