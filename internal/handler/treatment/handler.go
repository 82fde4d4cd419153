package treatment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-admin/internal/handler"
	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/service/treatment"
	"github.com/jwalitptl/dental-admin/internal/session"
)

type Handler struct {
	*handler.BaseHandler
	service treatment.TreatmentService
}

func NewHandler(base *handler.BaseHandler, service treatment.TreatmentService) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	treatments := r.Group("/treatments")
	{
		treatments.GET("", h.ListTreatments)
		treatments.GET("/new", h.NewTreatment)
		treatments.POST("/new", h.CreateTreatment)
		treatments.GET("/:id/edit", h.EditTreatment)
		treatments.POST("/:id/edit", h.UpdateTreatment)
	}
}

func (h *Handler) ListTreatments(c *gin.Context) {
	treatments, err := h.service.List(c.Request.Context())
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.Render(c, http.StatusOK, handler.View{
		Name: "treatments/list",
		Data: gin.H{"treatments": treatments},
	})
}

func (h *Handler) NewTreatment(c *gin.Context) {
	form := model.TreatmentForm{PatientID: c.Query("patient_id")}
	h.Render(c, http.StatusOK, handler.View{Name: "treatments/form", Form: form})
}

func (h *Handler) CreateTreatment(c *gin.Context) {
	var form model.TreatmentForm
	if !h.Bind(c, &form) {
		return
	}

	if _, err := h.service.Create(c.Request.Context(), form); err != nil {
		h.RenderForm(c, "treatments/form", form, nil, err)
		return
	}

	h.Redirect(c, "/treatments", session.FlashSuccess, "Treatment saved")
}

func (h *Handler) EditTreatment(c *gin.Context) {
	id, ok := h.ParseID(c, "treatment")
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.Render(c, http.StatusOK, handler.View{
		Name: "treatments/form",
		Form: model.FormFromTreatment(t),
		Data: t,
	})
}

func (h *Handler) UpdateTreatment(c *gin.Context) {
	id, ok := h.ParseID(c, "treatment")
	if !ok {
		return
	}

	var form model.TreatmentForm
	if !h.Bind(c, &form) {
		return
	}

	if _, err := h.service.Update(c.Request.Context(), id, form); err != nil {
		h.RenderForm(c, "treatments/form", form, gin.H{"id": id}, err)
		return
	}

	h.Redirect(c, "/treatments", session.FlashSuccess, "Treatment updated")
}
