package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError maps a service error onto the wire. Internal causes never
// reach the body; an unavailable dependency advertises a retry.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae.Status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}
	if ae.Status == http.StatusInternalServerError {
		RespondError(c, ae.Status, ae.Code, nil)
		return
	}
	RespondError(c, ae.Status, ae.Code, ae)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
