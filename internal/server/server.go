// Package server assembles the echo application: middleware, the public
// session endpoints and the token-protected API.
package server

import (
	"context"
	"net/http"

	"delivery-ops/internal/auth"
	"delivery-ops/internal/config"
	"delivery-ops/internal/modules/courier"
	"delivery-ops/internal/modules/dispatch"
	"delivery-ops/internal/modules/order"
	"delivery-ops/internal/modules/report"
	"delivery-ops/internal/modules/session"
	"delivery-ops/internal/modules/station"
	"delivery-ops/internal/modules/support"
	"delivery-ops/internal/store"
	"delivery-ops/pkg/mailer"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	echo *echo.Echo
	addr string
	log  *zap.Logger
}

// New wires every module onto st. mail may be nil when report mail is off.
func New(cfg *config.Config, log *zap.Logger, st *store.Store, mail mailer.ServiceInterface) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	window := cfg.Pipeline.AtRiskWindow
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestMetrics)
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Server.ClientOrigin},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	sessionHandler := session.NewHandler(session.NewService(st, issuer))

	public := e.Group("/api")
	sessionHandler.RegisterPublicRoutes(public)

	api := e.Group("/api", auth.JWT(issuer), auth.RequireSession(st))
	sessionHandler.RegisterRoutes(api)
	order.NewHandler(order.NewService(order.NewRepository(st), window)).RegisterRoutes(api)
	station.NewHandler(station.NewService(st, window)).RegisterRoutes(api)
	dispatch.NewHandler(dispatch.NewService(dispatch.NewRepository(st), window)).RegisterRoutes(api)
	courier.NewHandler(courier.NewService(st, window)).RegisterRoutes(api)
	support.NewHandler(support.NewService(st, window)).RegisterRoutes(api)
	report.NewHandler(report.NewService(st, mail, loc, window)).RegisterRoutes(api)

	return &Server{echo: e, addr: ":" + cfg.Server.Port, log: log}, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
