package http

import (
	"github.com/gin-gonic/gin"

	"mail-calendar-automation/internal/model"
	"mail-calendar-automation/pkg/response"
)

// Stats returns ledger counts per action and per day.
// @Router /api/v1/ledger/stats [GET]
func (h *handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.ledger.Stats(ctx)
	if err != nil {
		h.l.Errorf(ctx, "ledger.Stats: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, stats)
}

// ProcessInbox runs one poll now.
// @Router /api/v1/inbox/process [POST]
func (h *handler) ProcessInbox(c *gin.Context) {
	ctx := c.Request.Context()

	out, err := h.uc.ProcessInbox(ctx)
	if err != nil {
		h.l.Errorf(ctx, "uc.ProcessInbox: %v", err)
		if out.Processed() == 0 {
			h.respondError(c, err)
			return
		}
	}

	response.OK(c, out)
}

// ProcessMessage runs a captured message through the confirmation or cancellation flow.
// Pipeline failures are part of the outcome, not an HTTP error.
// @Router /api/v1/messages/{kind} [POST]
func (h *handler) ProcessMessage(c *gin.Context) {
	ctx := c.Request.Context()

	kind, msg, err := h.processMessageReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	process := h.uc.ProcessConfirmation
	if kind == model.KindCancellation {
		process = h.uc.ProcessCancellation
	}
	out, err := process(ctx, msg)
	if err != nil {
		h.l.Warnf(ctx, "uc.Process %s %s: %v", kind, msg.ID, err)
	}

	response.OK(c, out)
}

// FindDuplicate reports the existing event a creation would duplicate.
// @Router /api/v1/correlation/duplicate [POST]
func (h *handler) FindDuplicate(c *gin.Context) {
	ctx := c.Request.Context()

	d, err := h.processDescriptorReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	res, err := h.correlator.FindDuplicate(ctx, d)
	if err != nil {
		h.l.Errorf(ctx, "correlator.FindDuplicate: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newCorrelationResp(res))
}

// FindCancellationTarget reports the event a cancellation would delete.
// @Router /api/v1/correlation/cancellation [POST]
func (h *handler) FindCancellationTarget(c *gin.Context) {
	ctx := c.Request.Context()

	d, err := h.processDescriptorReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	res, err := h.correlator.FindCancellationTarget(ctx, d)
	if err != nil {
		h.l.Errorf(ctx, "correlator.FindCancellationTarget: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newCorrelationResp(res))
}
