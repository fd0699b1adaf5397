package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openmicroshop/commerce-backend/internal/http/response"
)

// parseID pulls a positive integer path parameter; writes the 400 itself so
// callers can just bail.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name,
			fmt.Errorf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}
