package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/auth"
)

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// Responder writes error envelopes. In production, database and internal
// failures are reported with a generic message; the cause is only logged.
type Responder struct {
	logger     *zap.Logger
	production bool
}

func NewResponder(logger *zap.Logger, production bool) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Responder{logger: logger, production: production}
}

func (r *Responder) Error(c *gin.Context, err error) {
	status, body := apperr.Render(err, r.production)

	if status >= 500 {
		r.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	var lockout *auth.LockoutError
	if errors.As(err, &lockout) {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(lockout.RetryAfter.Seconds()))))
	}

	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the request body into req and runs its binding rules.
// Decoding failures are BadRequest; rule violations are Validation errors.
func bindJSON(c *gin.Context, req any) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperr.Validation("%s", describeValidation(verrs[0]))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperr.BadRequest("Request body is empty")
	case errors.As(err, &syntaxErr):
		return apperr.BadRequest("Invalid JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return apperr.BadRequest("Invalid type for field %s", typeErr.Field)
	}
	return apperr.BadRequest("Invalid request body: %v", err)
}

func describeValidation(fe validator.FieldError) string {
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	}
	return fmt.Sprintf("%s is invalid", field)
}

// toSnake turns a Go field name into its JSON name, e.g. CoverImageURL -> cover_image_url.
func toSnake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parsePagination reads limit and offset. limit is capped at maxLimit.
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int, err error) {
	limit = defaultLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, apperr.BadRequest("limit must be a positive integer")
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, apperr.BadRequest("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

// includeDrafts honors include_drafts=true only for authenticated admins.
func includeDrafts(c *gin.Context) bool {
	if !auth.IsAdmin(c) {
		return false
	}
	v, _ := strconv.ParseBool(c.Query("include_drafts"))
	return v
}

func parseChapterNumber(c *gin.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 {
		return 0, apperr.BadRequest("chapter number must be a positive integer")
	}
	return n, nil
}
