package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"alarm-clock-backend/config"
	"alarm-clock-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mw.Logger(log), gin.Recovery())

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, log)

	// Entries are keyed by controller version, so any mutation makes them stale.
	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL+time.Minute)
	caching := mw.Cache(cacheStore, cfg.CacheTTL, h.ctl.Version)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/alarms", caching, h.ListAlarms)
		api.POST("/alarms", h.CreateAlarm)
		api.POST("/alarms/validate", h.ValidateAlarm)
		api.PUT("/alarms/:id", h.UpdateAlarm)
		api.DELETE("/alarms/:id", h.DeleteAlarm)
		api.POST("/alarms/:id/snooze", h.SnoozeAlarm)

		api.PUT("/sort", h.PutSort)

		api.GET("/ringing", h.GetRinging)
		api.DELETE("/ringing", h.DismissRinging)
		api.DELETE("/ringing/alarm", h.DeleteRingingAlarm)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		api.GET("/events", h.StreamEvents)
	}

	return r
}
