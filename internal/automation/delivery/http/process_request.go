package http

import (
	"github.com/gin-gonic/gin"

	"mail-calendar-automation/internal/model"
	"mail-calendar-automation/pkg/response"
)

// processDescriptorReq binds and validates a descriptor body.
func (h *handler) processDescriptorReq(c *gin.Context) (model.EventDescriptor, error) {
	var req descriptorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return model.EventDescriptor{}, response.BadRequest(err)
	}
	if err := req.validate(); err != nil {
		return model.EventDescriptor{}, response.BadRequest(err)
	}
	d, err := req.toDescriptor(h.loc)
	if err != nil {
		return model.EventDescriptor{}, response.BadRequest(err)
	}
	return d, nil
}

// processMessageReq binds a captured message and its kind from the path.
func (h *handler) processMessageReq(c *gin.Context) (model.MessageKind, model.Message, error) {
	kind := model.MessageKind(c.Param("kind"))
	if kind != model.KindConfirmation && kind != model.KindCancellation {
		return "", model.Message{}, response.BadRequest(errUnknownKind)
	}

	var req messageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", model.Message{}, response.BadRequest(err)
	}
	return kind, req.toMessage(), nil
}
