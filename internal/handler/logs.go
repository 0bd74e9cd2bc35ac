package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GiacomoGuaresi/LiteERP/internal/service"
)

const defaultLogLimit = 200

type LogsHandler struct {
	svc service.LogService
}

func NewLogsHandler(svc service.LogService) *LogsHandler {
	return &LogsHandler{svc: svc}
}

func (h *LogsHandler) List(c *gin.Context) {
	limit := defaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	logs, err := h.svc.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
