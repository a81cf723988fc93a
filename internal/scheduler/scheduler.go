package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"alarm-clock-backend/internal/model"
	"alarm-clock-backend/internal/parse"
)

// Source provides the alarms to check on each tick.
type Source interface {
	All() []model.Alarm
}

// Sink receives every alarm whose time matches the current minute.
type Sink interface {
	Ring(alarm model.Alarm)
}

// TickerFunc starts a ticker and returns its channel and a stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Service runs the periodic ringing check.
type Service struct {
	interval  time.Duration
	loc       *time.Location
	source    Source
	sink      Sink
	now       func() time.Time
	newTicker TickerFunc
	log       *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTicker overrides how the periodic tick is produced.
func WithTicker(f TickerFunc) Option {
	return func(s *Service) { s.newTicker = f }
}

// NewService creates a scheduler that checks source every interval, matching
// against wall-clock time in loc.
func NewService(interval time.Duration, loc *time.Location, source Source, sink Sink, log *zap.Logger, opts ...Option) *Service {
	if loc == nil {
		loc = time.Local
	}
	s := &Service{
		interval:  interval,
		loc:       loc,
		source:    source,
		sink:      sink,
		now:       time.Now,
		newTicker: realTicker,
		log:       log.Named("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run checks once immediately, then once per interval until ctx is done.
// No check runs after Run returns.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info("starting ringing check", zap.Duration("interval", s.interval), zap.String("location", s.loc.String()))

	s.CheckOnce()

	tick, stop := s.newTicker(s.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("ringing check shutting down")
			return nil
		case <-tick:
			// Cancellation wins over a tick that arrived at the same time.
			if ctx.Err() != nil {
				return nil
			}
			s.CheckOnce()
		}
	}
}

// CheckOnce rings every alarm whose time equals the current HH:MM and
// returns the matches in collection order.
func (s *Service) CheckOnce() []model.Alarm {
	current := parse.FormatClock(s.now().In(s.loc))

	var matches []model.Alarm
	for _, alarm := range s.source.All() {
		if alarm.Time == current {
			matches = append(matches, alarm)
		}
	}

	if len(matches) > 0 {
		s.log.Info("alarms ringing", zap.String("time", current), zap.Int("count", len(matches)))
	} else {
		s.log.Debug("no alarms due", zap.String("time", current))
	}
	for _, alarm := range matches {
		s.sink.Ring(alarm)
	}
	return matches
}
