package api

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const eventBuffer = 16

// StreamEvents handles GET /api/events as a server-sent events stream. The
// current state is sent first, then every change until the client leaves.
func (h *Handler) StreamEvents(c *gin.Context) {
	sub := h.broker.Subscribe(eventBuffer)
	defer sub.Close()

	h.log.Debug("event stream opened", zap.String("ip", c.ClientIP()))
	c.SSEvent("state", h.ctl.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case e, ok := <-sub.C():
			if !ok {
				return false
			}
			c.SSEvent(string(e.Kind), e)
			return true
		case <-ctx.Done():
			return false
		}
	})
	h.log.Debug("event stream closed", zap.String("ip", c.ClientIP()))
}
