package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GiacomoGuaresi/LiteERP/internal/dto"
	"github.com/GiacomoGuaresi/LiteERP/internal/middleware"
	"github.com/GiacomoGuaresi/LiteERP/internal/service"
)

type BOMHandler struct {
	svc   service.BOMService
	audit service.LogService
}

func NewBOMHandler(svc service.BOMService, audit service.LogService) *BOMHandler {
	return &BOMHandler{svc: svc, audit: audit}
}

func (h *BOMHandler) Create(c *gin.Context) {
	var req dto.CreateBOMEdgeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	edge, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(),
		fmt.Sprintf("Created BOM edge #%d (%d -> %d x%d)", edge.ID, edge.ParentProductID, edge.ChildProductID, edge.QuantityPerUnit),
		middleware.ActorEmail(c))
	c.JSON(http.StatusCreated, edge)
}

func (h *BOMHandler) List(c *gin.Context) {
	edges, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, edges)
}

func (h *BOMHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	edge, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, edge)
}

// Children returns the direct component edges of a product, the one-level
// view the BOM editor works with.
func (h *BOMHandler) Children(c *gin.Context) {
	parentID, ok := idParam(c, "id")
	if !ok {
		return
	}
	edges, err := h.svc.Children(c.Request.Context(), parentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, edges)
}

func (h *BOMHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBOMEdgeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	edge, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, edge)
}

func (h *BOMHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(),
		fmt.Sprintf("Deleted BOM edge #%d", id),
		middleware.ActorEmail(c))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
