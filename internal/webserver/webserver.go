package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cantwait/lash-backend/config"
)

// ContextDBKey carries the request-scoped gorm handle.
const ContextDBKey = "webserver.db"

// ContextConfigKey carries the application config.
const ContextConfigKey = "webserver.config"

type WebServer struct {
	root *echo.Echo
	pub  *echo.Group
	api  *echo.Group
	cfg  *config.AppConfig
	db   *gorm.DB
}

var server *WebServer

// Init builds the Echo server: recovery, request logging, auth middleware
// and the public/protected route groups. Must be called before any
// route registration.
func Init(cfg *config.AppConfig, db *gorm.DB) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// request logging goes through zap, keep the engine logger quiet
	e.Logger.SetLevel(log.ERROR)

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextDBKey, db)
			c.Set(ContextConfigKey, cfg)
			return next(c)
		}
	})

	pub := e.Group("/api/v1")
	api := e.Group("/api/v1")
	api.Use(echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: parseTokenFunc(cfg.Web.JwtSecret),
		ContextKey:     ContextTokenKey,
	}))

	server = &WebServer{root: e, pub: pub, api: api, cfg: cfg, db: db}
	return server
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	})
}

// Listen starts serving and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *WebServer) Listen(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("webserver listening", zap.String("addr", addr))
		if err := s.root.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.root.Shutdown(shutdownCtx)
	}
}

// Echo exposes the underlying engine (used in handler tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Public routes (no auth).

func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// Authenticated API routes.

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPATCH(path string, h echo.HandlerFunc) {
	server.api.PATCH(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
