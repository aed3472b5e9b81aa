package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

const (
	defaultAuditLimit = 25
	maxAuditLimit     = 100
)

type AuditController struct {
	auditor Auditor
	respond *Responder
}

func NewAuditController(auditor Auditor, respond *Responder) *AuditController {
	return &AuditController{auditor: auditor, respond: respond}
}

// List returns audit events, newest first.
// GET /api/admin/audit
func (ac *AuditController) List(c *gin.Context) {
	limit, offset, err := parsePagination(c, defaultAuditLimit, maxAuditLimit)
	if err != nil {
		ac.respond.Error(c, err)
		return
	}

	eventType := entities.AuditEventType(c.Query("event_type"))
	switch eventType {
	case "", entities.AuditEventContent, entities.AuditEventAuth, entities.AuditEventMaintenance:
	default:
		ac.respond.Error(c, apperr.BadRequest("invalid event_type: %s", eventType))
		return
	}

	events, total, err := ac.auditor.GetEvents(c.Request.Context(), eventType, limit, offset)
	if err != nil {
		ac.respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
