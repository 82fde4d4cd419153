package dashboard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-admin/internal/handler"
	"github.com/jwalitptl/dental-admin/internal/model"
)

type Service interface {
	Get(ctx context.Context) (*model.Dashboard, error)
}

type Handler struct {
	*handler.BaseHandler
	service Service
}

func NewHandler(base *handler.BaseHandler, service Service) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.Show)
}

func (h *Handler) Show(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Render(c, http.StatusOK, handler.View{Name: "dashboard", Data: d})
}
