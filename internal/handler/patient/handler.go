package patient

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-admin/internal/handler"
	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/service/patient"
	"github.com/jwalitptl/dental-admin/internal/session"
	"github.com/jwalitptl/dental-admin/pkg/errors"
)

type Handler struct {
	*handler.BaseHandler
	service patient.PatientService
}

func NewHandler(base *handler.BaseHandler, service patient.PatientService) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/new", h.NewPatient)
		patients.POST("/new", h.CreatePatient)
		patients.GET("/:id", h.GetPatient)
		patients.GET("/:id/edit", h.EditPatient)
		patients.POST("/:id/edit", h.UpdatePatient)
		patients.POST("/:id/delete", h.DeletePatient)
	}
}

func (h *Handler) ListPatients(c *gin.Context) {
	var filter model.PatientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.RespondError(c, errors.BadRequest("Invalid search", err))
		return
	}

	patients, err := h.service.List(c.Request.Context(), &filter)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.Render(c, http.StatusOK, handler.View{
		Name: "patients/list",
		Data: gin.H{"patients": patients, "q": filter.Query},
	})
}

func (h *Handler) NewPatient(c *gin.Context) {
	h.Render(c, http.StatusOK, handler.View{Name: "patients/form", Form: model.PatientForm{}})
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var form model.PatientForm
	if !h.Bind(c, &form) {
		return
	}

	if _, err := h.service.Create(c.Request.Context(), form); err != nil {
		h.RenderForm(c, "patients/form", form, nil, err)
		return
	}

	h.Redirect(c, "/patients", session.FlashSuccess, "Patient created")
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := h.ParseID(c, "patient")
	if !ok {
		return
	}

	detail, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.Render(c, http.StatusOK, handler.View{Name: "patients/view", Data: detail})
}

func (h *Handler) EditPatient(c *gin.Context) {
	id, ok := h.ParseID(c, "patient")
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.Render(c, http.StatusOK, handler.View{
		Name: "patients/form",
		Form: model.FormFromPatient(p),
		Data: p,
	})
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := h.ParseID(c, "patient")
	if !ok {
		return
	}

	var form model.PatientForm
	if !h.Bind(c, &form) {
		return
	}

	if _, err := h.service.Update(c.Request.Context(), id, form); err != nil {
		h.RenderForm(c, "patients/form", form, gin.H{"id": id}, err)
		return
	}

	h.Redirect(c, "/patients", session.FlashSuccess, "Patient updated")
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := h.ParseID(c, "patient")
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		h.Redirect(c, "/patients", session.FlashSuccess, "Patient deleted")
	case errors.Is(err, errors.ErrConflict):
		appErr, _ := errors.As(err)
		h.Redirect(c, fmt.Sprintf("/patients/%d", id), session.FlashDanger, appErr.Message)
	default:
		h.RespondError(c, err)
	}
}
