package invoice

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-admin/internal/handler"
	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/service/invoice"
	"github.com/jwalitptl/dental-admin/internal/session"
)

type Handler struct {
	*handler.BaseHandler
	service invoice.InvoiceService
}

func NewHandler(base *handler.BaseHandler, service invoice.InvoiceService) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	invoices := r.Group("/invoices")
	{
		invoices.GET("", h.ListInvoices)
		invoices.GET("/new", h.NewInvoice)
		invoices.POST("/new", h.CreateInvoice)
	}
}

func (h *Handler) ListInvoices(c *gin.Context) {
	invoices, err := h.service.List(c.Request.Context())
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.Render(c, http.StatusOK, handler.View{
		Name: "invoices/list",
		Data: gin.H{"invoices": invoices},
	})
}

func (h *Handler) NewInvoice(c *gin.Context) {
	form := model.InvoiceForm{
		PatientName: c.Query("patient_name"),
		Status:      model.InvoiceStatusUnpaid,
	}
	h.Render(c, http.StatusOK, handler.View{Name: "invoices/form", Form: form})
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	var form model.InvoiceForm
	if !h.Bind(c, &form) {
		return
	}

	if _, err := h.service.Create(c.Request.Context(), form); err != nil {
		h.RenderForm(c, "invoices/form", form, nil, err)
		return
	}

	h.Redirect(c, "/invoices", session.FlashSuccess, "Invoice created")
}
