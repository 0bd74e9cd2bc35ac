package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GiacomoGuaresi/LiteERP/internal/dto"
	"github.com/GiacomoGuaresi/LiteERP/internal/middleware"
	"github.com/GiacomoGuaresi/LiteERP/internal/service"
)

type OrdersHandler struct {
	svc   service.OrderService
	audit service.LogService
}

func NewOrdersHandler(svc service.OrderService, audit service.LogService) *OrdersHandler {
	return &OrdersHandler{svc: svc, audit: audit}
}

func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	order, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(),
		fmt.Sprintf("Created production order #%d (product %d, qty %d)", order.ID, order.ProductID, order.QuantityRequested),
		middleware.ActorEmail(c))
	c.JSON(http.StatusCreated, order)
}

func (h *OrdersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) ListDetails(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	details, err := h.svc.ListDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	order, err := h.svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(),
		fmt.Sprintf("Order #%d moved to %s", order.ID, order.Status),
		middleware.ActorEmail(c))
	c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(),
		fmt.Sprintf("Deleted production order #%d and its sub-orders", id),
		middleware.ActorEmail(c))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *OrdersHandler) Cost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Cost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) PickListPDF(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	pdf, err := h.svc.PickListPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="order_%d_picklist.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
