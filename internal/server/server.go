package server

import (
	"context"
	"fmt"

	"github.com/daveharmswebdev/property-manager-sub008/api/handler"
	"github.com/daveharmswebdev/property-manager-sub008/config"
	"github.com/daveharmswebdev/property-manager-sub008/internal/auth"
	"github.com/daveharmswebdev/property-manager-sub008/internal/realtime"
	"github.com/daveharmswebdev/property-manager-sub008/internal/receipt"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Server struct {
	e    *echo.Echo
	port int
	log  zerolog.Logger
}

func NewServer(cfg *config.Config, receiptService *receipt.Service, hub *realtime.Hub, registrar *realtime.Registrar, jwtManager *auth.JWTManager, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	registerRoutes(e, cfg, receiptService, hub, registrar, jwtManager, log)

	return &Server{
		e:    e,
		port: cfg.Server.Port,
		log:  log,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info().Str("addr", addr).Msg("Starting HTTP server")
	return s.e.Start(addr)
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.e.Shutdown(ctx)
}

func registerRoutes(e *echo.Echo, cfg *config.Config, receiptService *receipt.Service, hub *realtime.Hub, registrar *realtime.Registrar, jwtManager *auth.JWTManager, log zerolog.Logger) {
	public := e.Group("/api")
	loginHandler := handler.NewLoginHandler(jwtManager)
	loginHandler.RegisterRoutes(public)

	protected := e.Group("/api", JWTAuthMiddleware(jwtManager))
	receiptHandler := handler.NewReceiptHandler(receiptService)
	receiptHandler.RegisterReceiptRoutes(protected)

	ws := e.Group("", JWTAuthMiddleware(jwtManager))
	wsHandler := handler.NewWSHandler(hub, registrar, cfg.Realtime.SendBuffer, log)
	wsHandler.RegisterRoutes(ws)
}

func (s *Server) GetEcho() *echo.Echo {
	return s.e
}
