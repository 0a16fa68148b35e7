package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	automationHTTP "mail-calendar-automation/internal/automation/delivery/http"
)

// setupAutomationDomain registers the pipeline, ledger and correlation routes.
func (srv HTTPServer) setupAutomationDomain(ctx context.Context, api *gin.RouterGroup) error {
	h := automationHTTP.New(srv.l, srv.automationUC, srv.correlator, srv.ledger, srv.location)
	automationHTTP.RegisterRoutes(api, h, srv.mw)

	srv.l.Infof(ctx, "Pipeline routes registered under /api/v1")
	return nil
}
