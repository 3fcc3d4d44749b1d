package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/logger"
)

// parseDate accepts the YYYY-MM-DD wire format; anything else is treated
// as absent.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func parseDateTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t
	}
	return parseDate(s)
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// writeBusinessOr500 maps a usecase error onto the response: business
// errors by code convention, everything else a logged 500.
func writeBusinessOr500(c *gin.Context, err error, logContext string) {
	if msg, ok := httperr.BusinessMessage(err); ok {
		var be httperr.BusinessError
		if errors.As(err, &be) {
			switch {
			case strings.HasSuffix(be.Code, "_not_found"):
				httperr.NotFound(c, msg)
				return
			case strings.HasPrefix(be.Code, "duplicate_"):
				httperr.Conflict(c, msg)
				return
			}
		}
		httperr.BadRequest(c, msg)
		return
	}

	logger.Log.Error(logContext + ": " + err.Error())
	httperr.Internal(c, "Internal server error")
}
