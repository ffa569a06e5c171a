package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	t.Run("Plain date", func(t *testing.T) {
		d, err := ParseDay("2025-06-01")
		require.NoError(t, err)
		assert.Equal(t, NewDay(2025, time.June, 1), d)
		assert.Equal(t, "2025-06-01", d.String())
	})

	t.Run("Timestamp is truncated in its own offset", func(t *testing.T) {
		d, err := ParseDay("2025-06-01T23:30:00-05:00")
		require.NoError(t, err)
		assert.Equal(t, NewDay(2025, time.June, 1), d)
	})

	t.Run("Datetime", func(t *testing.T) {
		d, err := ParseDay("2025-06-01 10:00:00")
		require.NoError(t, err)
		assert.Equal(t, "2025-06-01", d.String())
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseDay("01/06/2025")
		assert.Error(t, err)
		_, err = ParseDay("2025-13-01")
		assert.Error(t, err)
	})
}

func TestDayCompare(t *testing.T) {
	a := NewDay(2024, time.December, 31)
	b := a.AddDays(1)
	assert.Equal(t, NewDay(2025, time.January, 1), b)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(NewDay(2024, time.December, 31)))
}

func TestDayJSON(t *testing.T) {
	in := []Day{NewDay(2025, time.June, 1), NewDay(2025, time.June, 3)}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `["2025-06-01","2025-06-03"]`, string(b))

	var out []Day
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	var bad Day
	assert.Error(t, json.Unmarshal([]byte(`"June 1"`), &bad))
}

func TestDayScan(t *testing.T) {
	var d Day
	require.NoError(t, d.Scan(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-02", d.String())

	require.NoError(t, d.Scan([]byte("2025-06-03")))
	assert.Equal(t, "2025-06-03", d.String())

	assert.Error(t, d.Scan(42))

	v, err := NewDay(2025, time.June, 4).Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-06-04", v)
}

func TestDaySet(t *testing.T) {
	d1 := NewDay(2025, time.June, 1)
	d2 := NewDay(2025, time.June, 2)
	d3 := NewDay(2025, time.June, 3)

	a := NewDaySet(d3, d1, d2)
	b := NewDaySet(d2, d3.AddDays(1))

	assert.Equal(t, 3, a.Len())
	assert.True(t, a.Contains(d1))
	assert.Equal(t, []Day{d1, d2, d3}, a.Sorted())
	assert.Equal(t, []Day{d2}, a.Intersect(b).Sorted())
	assert.Equal(t, 4, a.Union(b).Len())
	assert.Equal(t, 0, a.Intersect(NewDaySet()).Len())
}

func TestNormalizeDays(t *testing.T) {
	d1 := NewDay(2025, time.June, 1)
	d2 := NewDay(2025, time.June, 2)

	set, dups := NormalizeDays([]Day{d2, d1, d2, d2})
	assert.Equal(t, []Day{d1, d2}, set.Sorted())
	assert.Equal(t, []Day{d2}, dups)

	set, dups = NormalizeDays(nil)
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, dups)
}
