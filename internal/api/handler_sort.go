package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alarm-clock-backend/internal/sorter"
)

type putSortRequest struct {
	Key string `json:"key" binding:"required"`
}

// PutSort handles PUT /api/sort.
func (h *Handler) PutSort(c *gin.Context) {
	var req putSortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.ctl.SelectSort(c.Request.Context(), sorter.Key(req.Key)); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alarms": h.ctl.Alarms(), "sortKey": h.ctl.SortKey()})
}
