package datex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(DefaultZone)
	require.NoError(t, err)
	return loc
}

func TestClassifier_LateEveningStaysOnCivilDate(t *testing.T) {
	// 23:30 in Brasília is already the next day in UTC.
	now := time.Date(2025, time.March, 11, 2, 30, 0, 0, time.UTC)
	c := NewClassifier(saoPaulo(t), fixedClock(now))

	assert.Equal(t, MustParse("2025-03-10"), c.Today())
	assert.False(t, c.IsPast(MustParse("2025-03-10")))
	assert.True(t, c.IsPast(MustParse("2025-03-09")))
	assert.False(t, c.IsPast(MustParse("2025-03-11")))
	assert.True(t, c.IsToday(10, time.March, 2025))
	assert.False(t, c.IsToday(11, time.March, 2025))
}

func TestClassifier_IgnoresHostZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// Same instant handed over in a zone that is already on the 11th.
	now := time.Date(2025, time.March, 11, 11, 30, 0, 0, tokyo)
	c := NewClassifier(saoPaulo(t), fixedClock(now))

	assert.Equal(t, MustParse("2025-03-10"), c.Today())
}

func TestClassifier_DaysUntil(t *testing.T) {
	now := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	c := NewClassifier(saoPaulo(t), fixedClock(now))

	assert.Equal(t, 0, c.DaysUntil(MustParse("2025-03-10")))
	assert.Equal(t, 5, c.DaysUntil(MustParse("2025-03-15")))
	assert.Equal(t, -1, c.DaysUntil(MustParse("2025-03-09")))
}

func TestLoadClassifier(t *testing.T) {
	c, err := LoadClassifier("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultZone, c.Location().String())

	_, err = LoadClassifier("Nowhere/Atlantis", nil)
	require.Error(t, err)
}
