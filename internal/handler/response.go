package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/session"
	"github.com/jwalitptl/dental-admin/pkg/httputil"
)

// View is everything a page needs to render.
type View struct {
	Name   string
	Data   interface{}
	Form   interface{}
	Errors map[string]string
	Flash  *session.Flash
	User   *model.Identity
	Error  *httputil.Error
}

// Renderer turns a view into a response. HTML templates plug in here.
type Renderer interface {
	Render(c *gin.Context, status int, view View)
}

// JSONRenderer writes every view as an httputil.Page.
type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func (JSONRenderer) Render(c *gin.Context, status int, view View) {
	page := httputil.Page{
		Page:   view.Name,
		Data:   view.Data,
		Form:   view.Form,
		Errors: view.Errors,
		Error:  view.Error,
	}
	// Typed nils would marshal as null instead of being omitted.
	if view.Flash != nil {
		page.Flash = view.Flash
	}
	if view.User != nil {
		page.User = view.User
	}
	httputil.RespondWithPage(c, status, page)
}
