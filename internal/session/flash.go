package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "dental_flash"

// Flash categories
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashDanger  = "danger"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// SetFlash stores a message for the next page view.
func SetFlash(c *gin.Context, category, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, category+"|"+message, 60, "/", "", false, true)
}

// PopFlash returns and clears the pending message, or nil.
func PopFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	category, message, ok := strings.Cut(raw, "|")
	if !ok {
		return &Flash{Category: FlashInfo, Message: raw}
	}
	return &Flash{Category: category, Message: message}
}
