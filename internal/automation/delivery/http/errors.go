package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mail-calendar-automation/internal/automation"
	"mail-calendar-automation/internal/calendar"
	"mail-calendar-automation/internal/correlation"
	"mail-calendar-automation/pkg/response"
)

var (
	errUnknownKind  = errors.New("kind must be confirmation or cancellation")
	errTitleMissing = errors.New("title is required")
	errStartMissing = errors.New("start is required")
)

// mapError translates use-case errors into HTTP errors. Unknown errors map to nil.
func (h *handler) mapError(err error) *response.HTTPError {
	switch {
	case errors.Is(err, correlation.ErrInvalidDescriptor):
		return response.BadRequest(err)
	case errors.Is(err, calendar.ErrUnavailable):
		return response.NewHTTPError(http.StatusServiceUnavailable, "calendar unavailable")
	case errors.Is(err, automation.ErrNoMailbox):
		return response.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return nil
	}
}

func (h *handler) respondError(c *gin.Context, err error) {
	if httpErr := h.mapError(err); httpErr != nil {
		response.Error(c, httpErr, nil)
		return
	}
	response.InternalError(c, err)
}
