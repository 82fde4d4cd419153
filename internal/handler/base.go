package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dental-admin/internal/middleware"
	"github.com/jwalitptl/dental-admin/internal/session"
	"github.com/jwalitptl/dental-admin/pkg/errors"
	"github.com/jwalitptl/dental-admin/pkg/httputil"
)

// BaseHandler holds what every page handler shares.
type BaseHandler struct {
	Renderer Renderer
}

func NewBaseHandler(r Renderer) *BaseHandler {
	return &BaseHandler{Renderer: r}
}

// Render fills in the pending flash and the signed-in user, then renders.
func (h *BaseHandler) Render(c *gin.Context, status int, view View) {
	if view.Flash == nil {
		view.Flash = session.PopFlash(c)
	}
	if view.User == nil {
		view.User = middleware.CurrentIdentity(c)
	}
	h.Renderer.Render(c, status, view)
}

// RenderForm re-renders a form page. Validation errors keep the submitted
// values and go out as 422; anything else is handled by RespondError.
func (h *BaseHandler) RenderForm(c *gin.Context, name string, form interface{}, data interface{}, err error) {
	if appErr, ok := errors.As(err); ok && appErr.Code == errors.ErrValidation {
		h.Render(c, http.StatusUnprocessableEntity, View{
			Name:   name,
			Form:   form,
			Data:   data,
			Errors: appErr.Fields,
		})
		return
	}
	h.RespondError(c, err)
}

// RespondError renders an error page with the status the error maps to.
func (h *BaseHandler) RespondError(c *gin.Context, err error) {
	status, message := httputil.StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}
	_ = c.Error(err)

	h.Render(c, status, View{
		Name:  "error",
		Error: &httputil.Error{Code: status, Message: message},
	})
}

// Redirect sends a 303 to location with a flash message for the next page.
func (h *BaseHandler) Redirect(c *gin.Context, location, category, message string) {
	if message != "" {
		session.SetFlash(c, category, message)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// ParseID reads the :id path parameter. Anything but a positive integer is
// answered with 404 and ok is false.
func (h *BaseHandler) ParseID(c *gin.Context, resource string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.RespondError(c, errors.NotFound(resource, err))
		return 0, false
	}
	return id, true
}

// Bind decodes the submitted form into obj. Malformed bodies get a 400.
func (h *BaseHandler) Bind(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		h.RespondError(c, errors.BadRequest("Malformed form submission", err))
		return false
	}
	return true
}
