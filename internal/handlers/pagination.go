package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitcore/gym-backend/internal/httperr"
)

const (
	defaultPage    = 1
	defaultPerPage = 20
)

// pagination parses page/per_page with the shared defaults. Writes a 400
// and returns ok=false on non-positive values.
func pagination(c *gin.Context) (page, perPage int, ok bool) {
	page = defaultPage
	perPage = defaultPerPage

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httperr.BadRequest(c, "Invalid pagination parameters")
			return 0, 0, false
		}
		page = n
	}

	if v := c.Query("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httperr.BadRequest(c, "Invalid pagination parameters")
			return 0, 0, false
		}
		perPage = n
	}

	return page, perPage, true
}

func offset(page, perPage int) int {
	return (page - 1) * perPage
}
