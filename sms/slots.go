package sms

import "fmt"

// FirstSlot is the lowest memory slot that can hold a message.
const FirstSlot = 1

// SlotInterval is the span of memory slots occupied by one message. Current is the slot the
// interval was resolved from.
type SlotInterval struct {
	Start   int
	Current int
	End     int
}

// ResolveSlots computes the interval of slots spanned by a linked message from the slot of one
// of its parts and the part's counter. Current is always the reported slot. A counter with less
// than two parts describes a single part message.
//
// The start is not clamped: a reported slot lower than the part number yields a start below
// FirstSlot, use Underflows to detect that.
func ResolveSlots(reportedSlot int, links Links) SlotInterval {
	if links.Total <= 1 {
		return SlotInterval{Start: reportedSlot, Current: reportedSlot, End: reportedSlot}
	}
	start := reportedSlot - links.Current + 1
	return SlotInterval{
		Start:   start,
		Current: reportedSlot,
		End:     start + links.Total - 1,
	}
}

// Len returns the number of slots in the interval.
func (i SlotInterval) Len() int {
	return i.End - i.Start + 1
}

// Slots returns all slots of the interval in ascending order.
func (i SlotInterval) Slots() []int {
	result := make([]int, 0, i.Len())
	for slot := i.Start; slot <= i.End; slot++ {
		result = append(result, slot)
	}
	return result
}

// Contains reports if the given slot is part of the interval.
func (i SlotInterval) Contains(slot int) bool {
	return i.Start <= slot && slot <= i.End
}

// First reports if the interval was resolved from its own first slot.
func (i SlotInterval) First() bool {
	return i.Start == i.Current
}

// Underflows reports if the interval starts before the first valid memory slot.
func (i SlotInterval) Underflows() bool {
	return i.Start < FirstSlot
}

// Part returns the part number of the given slot, counting from 1.
func (i SlotInterval) Part(slot int) int {
	return slot - i.Start + 1
}

func (i SlotInterval) String() string {
	return fmt.Sprintf("%d-%d@%d", i.Start, i.End, i.Current)
}
