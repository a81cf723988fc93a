package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alarm-clock-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Payload is the JSON body pushed to every subscriber when an alarm rings.
type Payload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

// WorkerPool delivers ringing alarms to all push subscribers.
type WorkerPool struct {
	size    int
	jobs    chan model.Alarm
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
	log     *zap.Logger
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options, log *zap.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan model.Alarm, size*4),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log.Named("notification"),
	}
}

// Start launches the worker goroutines. They exit when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Run starts the workers and blocks until ctx is cancelled and they have exited.
func (wp *WorkerPool) Run(ctx context.Context) error {
	wp.Start(ctx)
	<-ctx.Done()
	wp.Wait()
	return nil
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	wp.log.Debug("worker started", zap.Int("worker", id))
	for {
		select {
		case alarm := <-wp.jobs:
			wp.log.Debug("worker processing alarm", zap.Int("worker", id), zap.Int64("alarm", alarm.ID))
			wp.notifyAll(ctx, alarm)
		case <-ctx.Done():
			wp.log.Debug("worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues a ringing alarm for delivery. It never blocks: when the
// queue is full the alarm is dropped.
func (wp *WorkerPool) Dispatch(alarm model.Alarm) {
	select {
	case wp.jobs <- alarm:
	default:
		wp.log.Warn("notification queue full, dropping alarm", zap.Int64("alarm", alarm.ID))
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan model.Alarm {
	return wp.jobs
}

func (wp *WorkerPool) notifyAll(ctx context.Context, alarm model.Alarm) {
	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Find(&subscriptions).Error; err != nil {
		wp.log.Error("failed to fetch subscriptions", zap.Int64("alarm", alarm.ID), zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(Payload{
		Title:       alarm.Title,
		Description: alarm.Description,
		Time:        alarm.Time,
	})
	if err != nil {
		wp.log.Error("failed to encode payload", zap.Int64("alarm", alarm.ID), zap.Error(err))
		return
	}

	wp.log.Info("sending notifications", zap.Int64("alarm", alarm.ID), zap.Int("subscribers", len(subscriptions)))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Warn("failed to send notification", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.log.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			wp.log.Error("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}
