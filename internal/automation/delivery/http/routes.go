package http

import (
	"github.com/gin-gonic/gin"

	"mail-calendar-automation/internal/middleware"
)

// RegisterRoutes maps the pipeline endpoints under rg. Routes that change
// the calendar require the internal key.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.GET("/ledger/stats", h.Stats)

	inbox := rg.Group("/inbox")
	{
		inbox.POST("/process", mw.RateLimit(), mw.InternalKey(), h.ProcessInbox)
	}

	messages := rg.Group("/messages")
	{
		messages.POST("/:kind", mw.RateLimit(), mw.InternalKey(), h.ProcessMessage)
	}

	corr := rg.Group("/correlation")
	{
		corr.POST("/duplicate", mw.RateLimit(), h.FindDuplicate)
		corr.POST("/cancellation", mw.RateLimit(), h.FindCancellationTarget)
	}
}
