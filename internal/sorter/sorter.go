package sorter

import (
	"fmt"
	"slices"
	"strings"

	"alarm-clock-backend/internal/model"
)

// Key selects the field alarms are ordered by.
type Key string

const (
	KeyTime  Key = "time"
	KeyTitle Key = "title"
)

// ParseKey converts user input into a Key.
func ParseKey(s string) (Key, error) {
	switch k := Key(s); k {
	case KeyTime, KeyTitle:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Sort returns a copy of alarms ordered by key. Equal keys keep their
// relative input order. The input slice is not modified.
func Sort(alarms []model.Alarm, key Key) []model.Alarm {
	sorted := slices.Clone(alarms)
	if sorted == nil {
		sorted = []model.Alarm{}
	}

	var field func(model.Alarm) string
	switch key {
	case KeyTitle:
		field = func(a model.Alarm) string { return a.Title }
	default:
		// HH:MM is zero-padded, so byte order is chronological within a day.
		field = func(a model.Alarm) string { return a.Time }
	}

	slices.SortStableFunc(sorted, func(a, b model.Alarm) int {
		return strings.Compare(field(a), field(b))
	})
	return sorted
}
