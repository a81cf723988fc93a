package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetRinging handles GET /api/ringing.
func (h *Handler) GetRinging(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ringing": h.ctl.Ringing(), "pending": h.ctl.Pending()})
}

// DismissRinging handles DELETE /api/ringing.
func (h *Handler) DismissRinging(c *gin.Context) {
	h.ctl.DismissRinging()
	c.Status(http.StatusNoContent)
}

// DeleteRingingAlarm handles DELETE /api/ringing/alarm.
func (h *Handler) DeleteRingingAlarm(c *gin.Context) {
	alarm, err := h.ctl.DeleteRinging(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, alarm)
}
