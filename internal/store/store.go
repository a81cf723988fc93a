package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"alarm-clock-backend/internal/kv"
	"alarm-clock-backend/internal/model"
)

// Store defines the operations on the ordered alarm collection.
type Store interface {
	// Load replaces the in-memory collection with the persisted one. Missing or
	// unreadable data yields an empty collection.
	Load(ctx context.Context)
	All() []model.Alarm
	Get(id int64) (model.Alarm, bool)
	Add(ctx context.Context, alarm model.Alarm) (model.Alarm, error)
	Update(ctx context.Context, id int64, alarm model.Alarm) error
	Remove(ctx context.Context, id int64) error
	Replace(ctx context.Context, alarms []model.Alarm) error
}

// kvStore keeps the collection in memory and mirrors it into one kv slot.
type kvStore struct {
	mu     sync.Mutex
	slots  kv.Store
	key    string
	alarms []model.Alarm
	now    func() time.Time
	log    *zap.Logger
}

// Option configures a store.
type Option func(*kvStore)

// WithClock overrides the clock used to derive new alarm ids.
func WithClock(now func() time.Time) Option {
	return func(s *kvStore) { s.now = now }
}

// NewKVStore creates an alarm store persisted under key in slots. Call Load
// before first use.
func NewKVStore(slots kv.Store, key string, log *zap.Logger, opts ...Option) Store {
	s := &kvStore{
		slots:  slots,
		key:    key,
		alarms: []model.Alarm{},
		now:    time.Now,
		log:    log.Named("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *kvStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alarms = []model.Alarm{}

	raw, ok, err := s.slots.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("could not read alarms, starting empty", zap.String("slot", s.key), zap.Error(err))
		return
	}
	if !ok {
		s.log.Info("no saved alarms", zap.String("slot", s.key))
		return
	}

	var saved []model.Alarm
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		s.log.Warn("discarding malformed alarms", zap.String("slot", s.key), zap.Error(err))
		return
	}
	if saved != nil {
		s.alarms = saved
	}
	s.log.Info("alarms loaded", zap.Int("count", len(s.alarms)))
}

func (s *kvStore) All() []model.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.alarms)
}

func (s *kvStore) Get(id int64) (model.Alarm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.alarms[i], true
	}
	return model.Alarm{}, false
}

// Add assigns a fresh id derived from the current time, stamps dateCreated if
// unset, and appends the alarm.
func (s *kvStore) Add(ctx context.Context, alarm model.Alarm) (model.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.now().UnixMilli()
	id := created
	for s.indexOf(id) >= 0 {
		id++
	}
	alarm.ID = id
	if alarm.DateCreated == nil {
		alarm.DateCreated = &created
	}

	next := append(slices.Clone(s.alarms), alarm)
	if err := s.commit(ctx, next); err != nil {
		return model.Alarm{}, err
	}
	return alarm, nil
}

// Update replaces the alarm with the given id in place. The id and, when the
// replacement has none, dateCreated are kept. Unknown ids are ignored.
func (s *kvStore) Update(ctx context.Context, id int64, alarm model.Alarm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	alarm.ID = id
	if alarm.DateCreated == nil {
		alarm.DateCreated = s.alarms[i].DateCreated
	}

	next := slices.Clone(s.alarms)
	next[i] = alarm
	return s.commit(ctx, next)
}

// Remove deletes the alarm with the given id. Unknown ids are ignored.
func (s *kvStore) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	next := slices.Delete(slices.Clone(s.alarms), i, i+1)
	return s.commit(ctx, next)
}

// Replace swaps in a whole new collection, e.g. after sorting.
func (s *kvStore) Replace(ctx context.Context, alarms []model.Alarm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(alarms)
	if next == nil {
		next = []model.Alarm{}
	}
	return s.commit(ctx, next)
}

// commit persists next and only then makes it the current collection.
func (s *kvStore) commit(ctx context.Context, next []model.Alarm) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode alarms: %w", err)
	}
	if err := s.slots.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to persist alarms: %w", err)
	}
	s.alarms = next
	return nil
}

func (s *kvStore) indexOf(id int64) int {
	return slices.IndexFunc(s.alarms, func(a model.Alarm) bool { return a.ID == id })
}
