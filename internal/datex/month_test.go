package datex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name  string
		from  MonthCursor
		delta int
		want  MonthCursor
	}{
		{"december forward", MonthCursor{2025, time.December}, 1, MonthCursor{2026, time.January}},
		{"january back", MonthCursor{2025, time.January}, -1, MonthCursor{2024, time.December}},
		{"same year", MonthCursor{2025, time.March}, 4, MonthCursor{2025, time.July}},
		{"many back", MonthCursor{2025, time.March}, -15, MonthCursor{2023, time.December}},
		{"zero", MonthCursor{2025, time.March}, 0, MonthCursor{2025, time.March}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.from, tt.delta))
		})
	}
}

func TestAddMonths_RoundTrip(t *testing.T) {
	c := MonthCursor{2025, time.November}
	for _, n := range []int{1, 2, 13, 25} {
		assert.Equal(t, c, AddMonths(AddMonths(c, n), -n))
	}
	assert.Equal(t, c, c.Next().Prev())
}

func TestMonthGrid_March2025(t *testing.T) {
	c := MonthCursor{2025, time.March}
	weeks := MonthGrid(c)

	// 1 March 2025 is a Saturday.
	assert.Len(t, weeks, 6)
	for i := 0; i < 6; i++ {
		assert.True(t, weeks[0][i].Blank())
	}
	assert.Equal(t, 1, weeks[0][6].Day)
	assert.Equal(t, 2, weeks[1][0].Day)
	assert.Equal(t, 31, weeks[5][1].Day)
	assert.True(t, weeks[5][2].Blank())
	assert.Equal(t, "março de 2025", c.String())
}

func TestMonthGrid_FebruaryStartingSunday(t *testing.T) {
	// February 2026 starts on a Sunday and has exactly four weeks.
	weeks := MonthGrid(MonthCursor{2026, time.February})
	assert.Len(t, weeks, 4)
	assert.Equal(t, 1, weeks[0][0].Day)
	assert.Equal(t, 28, weeks[3][6].Day)
}

func TestMonthCursor_Contains(t *testing.T) {
	c := MonthCursor{2025, time.March}
	assert.True(t, c.Contains(MustParse("2025-03-31")))
	assert.False(t, c.Contains(MustParse("2025-04-01")))
	assert.Equal(t, 31, c.DaysIn())
	assert.Equal(t, 29, MonthCursor{2024, time.February}.DaysIn())
}
