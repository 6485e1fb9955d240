package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotByID(t *testing.T) {
	s, ok := SlotByID("19:20-20:50")
	require.True(t, ok)
	assert.Equal(t, "19:20 às 20:50", s.Label())

	_, ok = SlotByID("08:00-09:00")
	assert.False(t, ok)

	assert.Less(t, SlotOrder("19:20-20:50"), SlotOrder("21:10-22:40"))
	assert.Equal(t, len(TimeSlots), SlotOrder("bogus"))
}

func TestRandomColor_FromPalette(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.Contains(t, Palette, RandomColor())
	}
}

func TestSession_Day(t *testing.T) {
	d, err := Session{Date: "2025-03-10"}.Day()
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", d.String())

	_, err = Session{Date: "10/03/2025"}.Day()
	require.Error(t, err)
}

func TestFields_Clone(t *testing.T) {
	f := Subject{Name: "Redes", Instructor: "Ana"}.Fields()
	c := f.Clone()
	c["nome"] = "Outra"
	assert.Equal(t, "Redes", f["nome"])
}
