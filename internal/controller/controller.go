// Package controller owns all mutable alarm state: the collection (through
// the store), the ringing slot or queue, and the sticky sort key. Every
// presentation intent goes through a Controller method.
package controller

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"alarm-clock-backend/config"
	"alarm-clock-backend/internal/events"
	"alarm-clock-backend/internal/model"
	"alarm-clock-backend/internal/parse"
	"alarm-clock-backend/internal/sorter"
	"alarm-clock-backend/internal/store"
	"alarm-clock-backend/internal/validate"
)

// Notifier delivers a ringing alarm outside the process. Dispatch must not block.
type Notifier interface {
	Dispatch(alarm model.Alarm)
}

// Form is the raw alarm input submitted by a presentation layer.
type Form struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

// Options tunes controller behavior.
type Options struct {
	RingMode string         // config.RingModeSingle or config.RingModeQueue
	Snooze   time.Duration  // how far ahead a snooze moves the alarm
	Location *time.Location // wall clock used for snoozing
	Now      func() time.Time
}

// State is a consistent snapshot for rendering.
type State struct {
	Alarms  []model.Alarm `json:"alarms"`
	SortKey sorter.Key    `json:"sortKey"`
	Ringing *model.Alarm  `json:"ringing"`
	Pending []model.Alarm `json:"pending"`
	Version uint64        `json:"version"`
}

// Controller serializes every intent; the scheduler and HTTP handlers may call
// it concurrently.
type Controller struct {
	mu        sync.Mutex
	store     store.Store
	publisher events.Publisher
	notifier  Notifier
	mode      string
	snooze    time.Duration
	loc       *time.Location
	now       func() time.Time
	log       *zap.Logger

	ringing *model.Alarm
	pending []model.Alarm
	sortKey sorter.Key
	version uint64
}

// New creates a controller. notifier may be nil.
func New(s store.Store, publisher events.Publisher, notifier Notifier, opts Options, log *zap.Logger) *Controller {
	if opts.Snooze <= 0 {
		opts.Snooze = 10 * time.Minute
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RingMode != config.RingModeQueue {
		opts.RingMode = config.RingModeSingle
	}
	return &Controller{
		store:     s,
		publisher: publisher,
		notifier:  notifier,
		mode:      opts.RingMode,
		snooze:    opts.Snooze,
		loc:       opts.Location,
		now:       opts.Now,
		log:       log.Named("controller"),
		sortKey:   sorter.KeyTime,
	}
}

// Start hydrates the collection from storage.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Load(ctx)
	c.alarmsChanged()
}

// SubmitAlarm validates form and, when valid, adds a new alarm or replaces the
// one with editingID. An invalid form, or an editingID that no longer exists,
// is a no-op: a zero alarm and a nil error are returned.
func (c *Controller) SubmitAlarm(ctx context.Context, form Form, editingID *int64) (model.Alarm, validate.Result, error) {
	result := validate.Alarm(form.Title, form.Description, form.Time)
	if !result.Valid() {
		c.log.Debug("submission rejected", zap.Int("errors", len(result.Errors())))
		return model.Alarm{}, result, nil
	}

	clock, err := parse.ParseClock(form.Time)
	if err != nil {
		return model.Alarm{}, result, err
	}
	alarm := model.Alarm{
		Title:       form.Title,
		Description: form.Description,
		Time:        clock.String(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if editingID == nil {
		added, err := c.store.Add(ctx, alarm)
		if err != nil {
			return model.Alarm{}, result, err
		}
		c.log.Info("alarm added", zap.Int64("id", added.ID), zap.String("time", added.Time))
		c.alarmsChanged()
		return added, result, nil
	}

	id := *editingID
	if _, ok := c.store.Get(id); !ok {
		c.log.Debug("edit of unknown alarm ignored", zap.Int64("id", id))
		return model.Alarm{}, result, nil
	}
	if err := c.store.Update(ctx, id, alarm); err != nil {
		return model.Alarm{}, result, err
	}
	updated, _ := c.store.Get(id)
	c.refreshRinging(updated)
	c.log.Info("alarm updated", zap.Int64("id", id), zap.String("time", updated.Time))
	c.alarmsChanged()
	return updated, result, nil
}

// DeleteAlarm removes an alarm and any ringing state it holds. Unknown ids are
// a no-op.
func (c *Controller) DeleteAlarm(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteLocked(ctx, id)
}

// DeleteRinging deletes the alarm currently ringing.
func (c *Controller) DeleteRinging(ctx context.Context) (model.Alarm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ringing == nil {
		return model.Alarm{}, Errorf(ErrNotFound, "no alarm is ringing")
	}
	alarm := *c.ringing
	return alarm, c.deleteLocked(ctx, alarm.ID)
}

func (c *Controller) deleteLocked(ctx context.Context, id int64) error {
	if _, ok := c.store.Get(id); !ok {
		c.dropRinging(id)
		return nil
	}
	if err := c.store.Remove(ctx, id); err != nil {
		return err
	}
	c.log.Info("alarm deleted", zap.Int64("id", id))
	c.dropRinging(id)
	c.alarmsChanged()
	return nil
}

// SelectSort reorders the collection by key and remembers key as the current
// sort. Later adds and edits are not re-sorted.
func (c *Controller) SelectSort(ctx context.Context, key sorter.Key) error {
	if _, err := sorter.ParseKey(string(key)); err != nil {
		return Errorf(ErrInvalid, "%v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Replace(ctx, sorter.Sort(c.store.All(), key)); err != nil {
		return err
	}
	c.sortKey = key
	c.log.Info("alarms sorted", zap.String("key", string(key)))
	c.alarmsChanged()
	return nil
}

// SnoozeAlarm moves an alarm's time to now plus the snooze period and stops it
// ringing.
func (c *Controller) SnoozeAlarm(ctx context.Context, id int64) (model.Alarm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	alarm, ok := c.store.Get(id)
	if !ok {
		return model.Alarm{}, Errorf(ErrNotFound, "alarm %d does not exist", id)
	}
	alarm.Time = parse.FormatClock(c.now().In(c.loc).Add(c.snooze))
	if err := c.store.Update(ctx, id, alarm); err != nil {
		return model.Alarm{}, err
	}
	c.log.Info("alarm snoozed", zap.Int64("id", id), zap.String("time", alarm.Time))
	c.dropRinging(id)
	c.alarmsChanged()
	return alarm, nil
}

// DismissRinging closes the ringing alarm without changing it. In queue mode
// the next pending alarm starts ringing.
func (c *Controller) DismissRinging() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ringing == nil {
		return
	}
	c.dropRinging(c.ringing.ID)
}

// Ring implements scheduler.Sink. In single mode the latest match replaces
// whatever is ringing; in queue mode matches wait their turn, once per id.
func (c *Controller) Ring(alarm model.Alarm) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.Dispatch(alarm)
	}

	if c.mode == config.RingModeQueue && c.ringing != nil {
		if c.ringing.ID == alarm.ID || slices.ContainsFunc(c.pending, func(a model.Alarm) bool { return a.ID == alarm.ID }) {
			return
		}
		c.pending = append(c.pending, alarm)
		c.version++
		return
	}

	c.ringing = &alarm
	c.version++
	c.publisher.Publish(events.Event{Kind: events.KindRinging, Alarm: &alarm})
}

// Alarms returns the collection in its current order.
func (c *Controller) Alarms() []model.Alarm {
	return c.store.All()
}

// Ringing returns the alarm currently ringing, or nil.
func (c *Controller) Ringing() *model.Alarm {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ringing == nil {
		return nil
	}
	a := *c.ringing
	return &a
}

// Pending returns the alarms queued behind the ringing one.
func (c *Controller) Pending() []model.Alarm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.pending)
}

// SortKey returns the last selected sort key.
func (c *Controller) SortKey() sorter.Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortKey
}

// Version increases on every observable state change.
func (c *Controller) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Snapshot returns the full state at one instant.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Alarms:  c.store.All(),
		SortKey: c.sortKey,
		Pending: slices.Clone(c.pending),
		Version: c.version,
	}
	if st.Pending == nil {
		st.Pending = []model.Alarm{}
	}
	if c.ringing != nil {
		a := *c.ringing
		st.Ringing = &a
	}
	return st
}

// dropRinging removes id from the ringing state. If it was the current alarm,
// the next pending one takes its place, or ringing is cleared.
func (c *Controller) dropRinging(id int64) {
	c.pending = slices.DeleteFunc(c.pending, func(a model.Alarm) bool { return a.ID == id })

	if c.ringing == nil || c.ringing.ID != id {
		return
	}
	c.version++
	if len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.ringing = &next
		c.publisher.Publish(events.Event{Kind: events.KindRinging, Alarm: &next})
		return
	}
	c.ringing = nil
	c.publisher.Publish(events.Event{Kind: events.KindRingingCleared})
}

// refreshRinging keeps ringing copies in step with an edited alarm.
func (c *Controller) refreshRinging(updated model.Alarm) {
	if c.ringing != nil && c.ringing.ID == updated.ID {
		c.ringing = &updated
	}
	for i := range c.pending {
		if c.pending[i].ID == updated.ID {
			c.pending[i] = updated
		}
	}
}

func (c *Controller) alarmsChanged() {
	c.version++
	c.publisher.Publish(events.Event{Kind: events.KindAlarmsChanged, Alarms: c.store.All()})
}
