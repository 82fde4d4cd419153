package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-admin/internal/handler"
	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/service/appointment"
	"github.com/jwalitptl/dental-admin/internal/session"
)

type Handler struct {
	*handler.BaseHandler
	service appointment.AppointmentService
}

func NewHandler(base *handler.BaseHandler, service appointment.AppointmentService) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.GET("/new", h.NewAppointment)
		appointments.POST("/new", h.CreateAppointment)
		appointments.POST("/:id/delete", h.DeleteAppointment)
	}
}

// formData is what the booking form needs besides the submitted values.
var formData = gin.H{"services": model.Services}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.service.List(c.Request.Context())
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.Render(c, http.StatusOK, handler.View{
		Name: "appointments/list",
		Data: gin.H{"appointments": appointments},
	})
}

func (h *Handler) NewAppointment(c *gin.Context) {
	h.Render(c, http.StatusOK, handler.View{
		Name: "appointments/form",
		Form: model.AppointmentForm{Service: model.ServiceCleaning},
		Data: formData,
	})
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var form model.AppointmentForm
	if !h.Bind(c, &form) {
		return
	}

	if _, err := h.service.Book(c.Request.Context(), form); err != nil {
		h.RenderForm(c, "appointments/form", form, formData, err)
		return
	}

	h.Redirect(c, "/appointments", session.FlashSuccess, "Appointment created")
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := h.ParseID(c, "appointment")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.RespondError(c, err)
		return
	}

	h.Redirect(c, "/appointments", session.FlashSuccess, "Appointment removed")
}
