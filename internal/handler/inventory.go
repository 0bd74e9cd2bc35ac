package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GiacomoGuaresi/LiteERP/internal/dto"
	"github.com/GiacomoGuaresi/LiteERP/internal/middleware"
	"github.com/GiacomoGuaresi/LiteERP/internal/service"
)

type InventoryHandler struct {
	svc   service.InventoryService
	audit service.LogService
}

func NewInventoryHandler(svc service.InventoryService, audit service.LogService) *InventoryHandler {
	return &InventoryHandler{svc: svc, audit: audit}
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.CreateInventoryItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(),
		fmt.Sprintf("Created inventory item %s (#%d)", item.Code, item.ID),
		middleware.ActorEmail(c))
	c.JSON(http.StatusCreated, item)
}

// List supports the ?fields=code,quantityOnHand projection of the listing
// endpoint; no parameter returns full items.
func (h *InventoryHandler) List(c *gin.Context) {
	var fields []string
	if raw := c.Query("fields"); raw != "" {
		fields = strings.Split(raw, ",")
	}
	items, err := h.svc.List(c.Request.Context(), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateInventoryItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(),
		fmt.Sprintf("Deleted inventory item #%d", id),
		middleware.ActorEmail(c))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *InventoryHandler) AddStock(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.QuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.svc.AddStock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(),
		fmt.Sprintf("Added %d units to item %s (#%d)", req.Quantity, item.Code, item.ID),
		middleware.ActorEmail(c))
	c.JSON(http.StatusOK, item)
}

// AddStockByCode resolves the item by its human-readable code — the barcode
// scanning flow uses this.
func (h *InventoryHandler) AddStockByCode(c *gin.Context) {
	code := c.Param("code")
	var req dto.QuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.svc.AddStockByCode(c.Request.Context(), code, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(),
		fmt.Sprintf("Added %d units to item %s (#%d)", req.Quantity, item.Code, item.ID),
		middleware.ActorEmail(c))
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) RemoveStock(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.QuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.svc.RemoveStock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(),
		fmt.Sprintf("Removed %d units from item %s (#%d)", req.Quantity, item.Code, item.ID),
		middleware.ActorEmail(c))
	c.JSON(http.StatusOK, item)
}
