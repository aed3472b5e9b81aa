package http

import (
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/audit"
	"github.com/0010capacity/capacity-backend/internal/auth"
	"github.com/0010capacity/capacity-backend/internal/database/patch"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

// contentHooks runs after every admin mutation: it writes the audit entry
// and, on success, asks for a site rebuild. Both collaborators are optional.
type contentHooks struct {
	auditor Auditor
	site    SiteRefresher
}

func (h contentHooks) record(c *gin.Context, action, entityType, slug string, err error) {
	if h.auditor != nil {
		var adminID *uuid.UUID
		if identity, ok := auth.GetIdentity(c); ok {
			id := identity.ID
			adminID = &id
		}
		h.auditor.LogContent(audit.ContentChange{
			AdminID:    adminID,
			Action:     action,
			EntityType: entityType,
			EntitySlug: slug,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}, err)
	}
	if err == nil && h.site != nil {
		h.site.RequestSiteRegeneration(c.Request.Context(), action)
	}
}

// checkLength validates the rune length of a present string field.
func checkLength(name string, f patch.Field[string], min, max int) error {
	if !f.Present || f.Null {
		return nil
	}
	return checkStringLength(name, f.Value, min, max)
}

func checkStringLength(name, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min {
		if min == 1 {
			return apperr.Validation("%s must not be empty", name)
		}
		return apperr.Validation("%s must be at least %d characters", name, min)
	}
	if max > 0 && n > max {
		return apperr.Validation("%s must be at most %d characters", name, max)
	}
	return nil
}

func checkOption(name string, options []entities.Option, value string) error {
	if !entities.ValidOption(options, value) {
		return apperr.Validation("invalid %s: %s", name, value)
	}
	return nil
}

func checkOptions(name string, options []entities.Option, values []string) error {
	for _, v := range values {
		if err := checkOption(name, options, v); err != nil {
			return err
		}
	}
	return nil
}
