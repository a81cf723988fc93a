package sorter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alarm-clock-backend/internal/model"
)

func ids(alarms []model.Alarm) []int64 {
	out := make([]int64, len(alarms))
	for i, a := range alarms {
		out[i] = a.ID
	}
	return out
}

func fixture() []model.Alarm {
	return []model.Alarm{
		{ID: 1, Title: "Lunch", Time: "12:30"},
		{ID: 2, Title: "Alpha", Time: "07:00"},
		{ID: 3, Title: "Gym", Time: "18:45"},
		{ID: 4, Title: "Alpha", Time: "07:00"},
		{ID: 5, Title: "Bed", Time: "00:15"},
	}
}

func TestSort_ByTime(t *testing.T) {
	got := Sort(fixture(), KeyTime)
	assert.Equal(t, []int64{5, 2, 4, 1, 3}, ids(got))
}

func TestSort_ByTitle(t *testing.T) {
	got := Sort(fixture(), KeyTitle)
	assert.Equal(t, []int64{2, 4, 5, 3, 1}, ids(got))
}

func TestSort_TitleIsCaseSensitive(t *testing.T) {
	in := []model.Alarm{{ID: 1, Title: "alpha"}, {ID: 2, Title: "Beta"}}
	assert.Equal(t, []int64{2, 1}, ids(Sort(in, KeyTitle)))
}

func TestSort_StableForEqualKeys(t *testing.T) {
	in := []model.Alarm{
		{ID: 9, Time: "08:00"},
		{ID: 3, Time: "08:00"},
		{ID: 7, Time: "08:00"},
	}
	assert.Equal(t, []int64{9, 3, 7}, ids(Sort(in, KeyTime)))
}

func TestSort_Idempotent(t *testing.T) {
	once := Sort(fixture(), KeyTime)
	twice := Sort(once, KeyTime)
	assert.Equal(t, once, twice)
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	_ = Sort(in, KeyTime)
	assert.Equal(t, fixture(), in)
}

func TestSort_Empty(t *testing.T) {
	got := Sort(nil, KeyTitle)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("time")
	require.NoError(t, err)
	assert.Equal(t, KeyTime, k)

	k, err = ParseKey("title")
	require.NoError(t, err)
	assert.Equal(t, KeyTitle, k)

	_, err = ParseKey("date")
	assert.Error(t, err)
}
