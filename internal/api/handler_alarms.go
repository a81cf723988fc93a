package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"alarm-clock-backend/internal/controller"
	"alarm-clock-backend/internal/validate"
)

// ListAlarms handles GET /api/alarms.
func (h *Handler) ListAlarms(c *gin.Context) {
	st := h.ctl.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"alarms":  st.Alarms,
		"sortKey": st.SortKey,
		"ringing": st.Ringing,
		"pending": st.Pending,
	})
}

// CreateAlarm handles POST /api/alarms.
func (h *Handler) CreateAlarm(c *gin.Context) {
	h.submit(c, nil)
}

// UpdateAlarm handles PUT /api/alarms/:id.
func (h *Handler) UpdateAlarm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.submit(c, &id)
}

func (h *Handler) submit(c *gin.Context, editingID *int64) {
	var form controller.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	alarm, result, err := h.ctl.SubmitAlarm(c.Request.Context(), form, editingID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	if !result.Valid() {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"errors": result})
		return
	}

	if editingID == nil {
		c.JSON(http.StatusCreated, alarm)
		return
	}
	if alarm.ID == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("alarm %d does not exist", *editingID)})
		return
	}
	c.JSON(http.StatusOK, alarm)
}

// DeleteAlarm handles DELETE /api/alarms/:id.
func (h *Handler) DeleteAlarm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ctl.DeleteAlarm(c.Request.Context(), id); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SnoozeAlarm handles POST /api/alarms/:id/snooze.
func (h *Handler) SnoozeAlarm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	alarm, err := h.ctl.SnoozeAlarm(c.Request.Context(), id)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, alarm)
}

// ValidateAlarm handles POST /api/alarms/validate. Only the fields present in
// the body are checked, so a form can validate one field as it changes.
func (h *Handler) ValidateAlarm(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var result validate.Result
	for name, value := range req {
		fieldErr, err := validate.Check(validate.Field(name), value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		switch validate.Field(name) {
		case validate.FieldTitle:
			result.Title = fieldErr
		case validate.FieldDescription:
			result.Description = fieldErr
		case validate.FieldTime:
			result.Time = fieldErr
		}
	}
	c.JSON(http.StatusOK, gin.H{"valid": result.Valid(), "errors": result})
}
