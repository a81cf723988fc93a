package api

import (
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alarm-clock-backend/internal/controller"
	"alarm-clock-backend/internal/events"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	ctl     *controller.Controller
	broker  *events.Broker
	db      *gorm.DB
	webpush *webpush.Options
	log     *zap.Logger
}

// NewHandler creates a new API handler. db and webpushOptions may be nil when
// push notifications are disabled.
func NewHandler(ctl *controller.Controller, broker *events.Broker, db *gorm.DB, webpushOptions *webpush.Options, log *zap.Logger) *Handler {
	return &Handler{
		ctl:     ctl,
		broker:  broker,
		db:      db,
		webpush: webpushOptions,
		log:     log.Named("api"),
	}
}

// abortWithError maps controller error codes to HTTP status codes.
func (h *Handler) abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch controller.ErrorCode(err) {
	case controller.ErrNotFound:
		status = http.StatusNotFound
	case controller.ErrInvalid:
		status = http.StatusBadRequest
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": controller.ErrorDescription(err)})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid alarm ID"})
		return 0, false
	}
	return id, true
}
