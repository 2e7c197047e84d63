package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tkzw-dev/issue-tracker-api/internal/errors"
)

// parseIDParam parses a numeric path parameter. Unparseable ids are treated
// as a missing resource, never as a server fault.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "")
		return 0, false
	}
	return id, true
}
