package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/gin-gonic/gin"
)

// errorBody is the JSON shape of every failed response. Error carries the
// underlying cause for server-side failures only.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// statusFor maps an error category to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorConflict),
		errors.Is(err, common.ErrorInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Domain errors use their own message;
// anything else is a 500 with fallback as the message and the cause attached.
func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	var de *common.Error
	if errors.As(err, &de) {
		c.AbortWithStatusJSON(statusFor(err), errorBody{Message: de.Message})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, errorBody{Message: fallback, Error: err.Error()})
		return
	}
	c.AbortWithStatusJSON(status, errorBody{Message: err.Error()})
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody{Message: message})
}
