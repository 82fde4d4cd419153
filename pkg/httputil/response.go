package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-admin/pkg/errors"
)

// Page is the JSON envelope written for every rendered view.
type Page struct {
	Page   string            `json:"page"`
	Data   interface{}       `json:"data,omitempty"`
	Form   interface{}       `json:"form,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
	Flash  interface{}       `json:"flash,omitempty"`
	User   interface{}       `json:"user,omitempty"`
	Error  *Error            `json:"error,omitempty"`
}

// Error represents a failed page load.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RespondWithPage writes page as JSON.
func RespondWithPage(c *gin.Context, status int, page Page) {
	c.JSON(status, page)
}

// StatusFor maps err to an HTTP status and a message safe to show users.
// Anything that is not an AppError is an internal error.
func StatusFor(err error) (int, string) {
	appErr, ok := errors.As(err)
	if !ok {
		return http.StatusInternalServerError, "Internal server error"
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		return status, "Internal server error"
	}
	return status, appErr.Message
}
