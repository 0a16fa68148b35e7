package httpserver

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"mail-calendar-automation/internal/automation"
	"mail-calendar-automation/internal/correlation"
	"mail-calendar-automation/internal/ledger"
	"mail-calendar-automation/internal/middleware"
	"mail-calendar-automation/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	mw          middleware.Middleware

	// Pipeline domain
	automationUC automation.UseCase
	correlator   correlation.UseCase
	ledger       ledger.Ledger
	location     *time.Location
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string
	Middleware  middleware.Config

	// Pipeline domain
	Automation automation.UseCase
	Correlator correlation.UseCase
	Ledger     ledger.Ledger
	Location   *time.Location
}

// New creates a new HTTPServer instance and registers its routes.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:            logger,
		gin:          gin.New(),
		port:         cfg.Port,
		mode:         cfg.Mode,
		environment:  cfg.Environment,
		mw:           middleware.New(logger, cfg.Middleware),
		automationUC: cfg.Automation,
		correlator:   cfg.Correlator,
		ledger:       cfg.Ledger,
		location:     cfg.Location,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (srv HTTPServer) Handler() *gin.Engine {
	return srv.gin
}
