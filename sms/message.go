package sms

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ftl/gsm-inbox/gsm"
)

// DateTimeLayout is the layout of the Date/time header line.
const DateTimeLayout = "02/01/2006 15:04:05 -0700"

// ParseDateTime parses a timestamp in DateTimeLayout. The result keeps the offset of the
// device as its location.
func ParseDateTime(s string) (time.Time, error) {
	result, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q: %w", s, err)
	}
	return result, nil
}

// FormatDateTime formats the given instant in DateTimeLayout, shown in the given offset
// from UTC in seconds.
func FormatDateTime(t time.Time, offset int) string {
	return t.In(time.FixedZone("", offset)).Format(DateTimeLayout)
}

// Interval summarizes the first and the last slot of a message.
type Interval struct {
	Start int
	End   int
}

// Memory describes where a message is stored on the device.
type Memory struct {
	Type      gsm.MemoryType `json:"type"`
	Slots     []int          `json:"slots"`
	Intervals Interval       `json:"-"`
}

// SMS is one complete logical message. Multipart messages are merged into one SMS.
type SMS struct {
	DateTime  time.Time
	Text      string
	Memory    Memory
	Sender    gsm.Address
	Multipart bool
	Read      bool
}

// BuildSMS creates the SMS for the given finalized record. The timestamp of the record is
// converted to UTC, the slots must not be empty.
func BuildSMS(memory gsm.MemoryType, record RawMessageRecord, slots []int, text string) (SMS, error) {
	if len(slots) == 0 {
		return SMS{}, fmt.Errorf("message without slots")
	}
	timestamp, err := ParseDateTime(record.DateTime)
	if err != nil {
		return SMS{}, err
	}

	ownSlots := make([]int, len(slots))
	copy(ownSlots, slots)

	return SMS{
		DateTime: timestamp.UTC(),
		Text:     text,
		Memory: Memory{
			Type:  memory,
			Slots: ownSlots,
			Intervals: Interval{
				Start: ownSlots[0],
				End:   ownSlots[len(ownSlots)-1],
			},
		},
		Sender:    gsm.Address(record.Sender),
		Multipart: record.Linked,
		Read:      record.Read,
	}, nil
}

type jsonSMS struct {
	DateTime  string      `json:"datetime"`
	Text      string      `json:"text"`
	Memory    Memory      `json:"memory"`
	Sender    gsm.Address `json:"sender"`
	Multipart bool        `json:"multipart"`
	Read      bool        `json:"read"`
}

// MarshalJSON writes the fields in the order datetime, text, memory, sender, multipart, read.
// The timestamp is written in DateTimeLayout in UTC.
func (s SMS) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSMS{
		DateTime:  FormatDateTime(s.DateTime, 0),
		Text:      s.Text,
		Memory:    s.Memory,
		Sender:    s.Sender,
		Multipart: s.Multipart,
		Read:      s.Read,
	})
}

func (s SMS) String() string {
	return fmt.Sprintf("SMS %s%v from %s at %s:\n%s",
		s.Memory.Type, s.Memory.Slots, s.Sender, s.DateTime.Format(time.RFC3339), s.Text)
}
