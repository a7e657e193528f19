package sms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSlots(t *testing.T) {
	tt := []struct {
		desc         string
		reportedSlot int
		links        Links
		expected     SlotInterval
		underflows   bool
	}{
		{
			desc:         "middle part",
			reportedSlot: 3,
			links:        Links{Current: 3, Total: 5},
			expected:     SlotInterval{Start: 1, Current: 3, End: 5},
		},
		{
			desc:         "first part",
			reportedSlot: 4,
			links:        Links{Current: 1, Total: 3},
			expected:     SlotInterval{Start: 4, Current: 4, End: 6},
		},
		{
			desc:         "last part",
			reportedSlot: 6,
			links:        Links{Current: 3, Total: 3},
			expected:     SlotInterval{Start: 4, Current: 6, End: 6},
		},
		{
			desc:         "start below first slot",
			reportedSlot: 2,
			links:        Links{Current: 3, Total: 3},
			expected:     SlotInterval{Start: 0, Current: 2, End: 2},
			underflows:   true,
		},
		{
			desc:         "negative start",
			reportedSlot: 1,
			links:        Links{Current: 4, Total: 4},
			expected:     SlotInterval{Start: -2, Current: 1, End: 1},
			underflows:   true,
		},
		{
			desc:         "single part counter",
			reportedSlot: 7,
			links:        Links{Current: 1, Total: 1},
			expected:     SlotInterval{Start: 7, Current: 7, End: 7},
		},
		{
			desc:         "zero total",
			reportedSlot: 7,
			links:        Links{Current: 3, Total: 0},
			expected:     SlotInterval{Start: 7, Current: 7, End: 7},
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual := ResolveSlots(tc.reportedSlot, tc.links)

			assert.Equal(t, tc.expected, actual)
			assert.Equal(t, tc.underflows, actual.Underflows())
		})
	}
}

func TestResolveSlots_IntervalLength(t *testing.T) {
	for total := 2; total <= 10; total++ {
		for current := 1; current <= total; current++ {
			for reportedSlot := current; reportedSlot < 40; reportedSlot++ {
				interval := ResolveSlots(reportedSlot, Links{Current: current, Total: total})

				assert.Equal(t, total, interval.End-interval.Start+1)
				assert.Equal(t, total, interval.Len())
				assert.LessOrEqual(t, interval.Start, reportedSlot)
				assert.LessOrEqual(t, reportedSlot, interval.End)
				assert.True(t, interval.Contains(reportedSlot))
				assert.Equal(t, current, interval.Part(reportedSlot))
			}
		}
	}
}

func TestResolveSlots_SameIntervalFromEveryPart(t *testing.T) {
	const start = 5
	const total = 4
	expected := ResolveSlots(start, Links{Current: 1, Total: total})

	for current := 1; current <= total; current++ {
		reportedSlot := start + current - 1
		actual := ResolveSlots(reportedSlot, Links{Current: current, Total: total})

		assert.Equal(t, expected.Start, actual.Start)
		assert.Equal(t, expected.End, actual.End)
		assert.Equal(t, reportedSlot, actual.Current)
		assert.Equal(t, current == 1, actual.First())
	}
}

func TestSlotInterval_Slots(t *testing.T) {
	interval := SlotInterval{Start: 1, Current: 3, End: 5}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, interval.Slots())
	assert.False(t, interval.Contains(0))
	assert.False(t, interval.Contains(6))
	assert.Equal(t, "1-5@3", interval.String())
}
