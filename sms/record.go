package sms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Locations of a record in the device memory. For a single part message all three are the
// position the record was read from.
type Locations struct {
	Start   int
	Current int
	End     int
}

// Links holds the (current/total) counter of one part of a linked message.
type Links struct {
	Current int
	Total   int
}

func (l Links) String() string {
	return fmt.Sprintf("(%d/%d)", l.Current, l.Total)
}

// RawMessageRecord is the content of one memory position as reported by the tool.
type RawMessageRecord struct {
	Locations Locations
	Sender    string
	Linked    bool
	Links     *Links
	Text      string
	Read      bool
	DateTime  string
}

// ValidateLinks checks the link counters of a linked record. Non-linked records are always valid.
func (r RawMessageRecord) ValidateLinks() error {
	if !r.Linked {
		return nil
	}
	result := &MalformedLinkInfoError{Position: r.Locations.Start, Links: r.Links}
	switch {
	case r.Links == nil:
		result.Reason = "linked without part counter"
	case r.Links.Total <= 1:
		result.Reason = "linked with less than two parts"
	case r.Links.Current < 1:
		result.Reason = "part number below 1"
	case r.Links.Current > r.Links.Total:
		result.Reason = "part number exceeds total"
	default:
		return nil
	}
	return result
}

type grammarState int

const (
	expectIndex grammarState = iota
	expectDateTime
	expectSender
	expectMarker
	expectLinks
)

var (
	indexLine    = regexp.MustCompile(`^([0-9]+)\. Inbox Message \(((?i:read|unread))\)$`)
	dateTimeLine = regexp.MustCompile(`^Date/time: ([0-9]{2}/[0-9]{2}/[0-9]{4} [0-9]{2}:[0-9]{2}:[0-9]{2} [+-][0-9]{4})$`)
	senderLine   = regexp.MustCompile(`^Sender: (\+[0-9]+|[A-Za-z0-9]+) Msg Center: (\+?[0-9]+)$`)
	linksLine    = regexp.MustCompile(`^Linked \(([0-9]+)/([0-9]+)\):$`)
)

const (
	linkedMarker = "Linked:"
	textMarker   = "Text:"
)

// ParseRawMessage parses the output for one memory position. The header is read line by line:
// index, date/time, sender, an optional Linked:/Text: marker and an optional
// Linked (current/total): line. Everything after the header is the message text.
// Lines before the index line are ignored. If the header is missing or malformed, the
// position is considered empty and ok is false.
func ParseRawMessage(output string) (result RawMessageRecord, ok bool) {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")

	state := expectIndex
	bodyStart := len(lines)
	for i := 0; i < len(lines) && bodyStart == len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		switch state {
		case expectIndex:
			parts := indexLine.FindStringSubmatch(line)
			if parts == nil {
				continue
			}
			position, err := strconv.Atoi(parts[1])
			if err != nil {
				return RawMessageRecord{}, false
			}
			result.Locations = Locations{Start: position, Current: position, End: position}
			result.Read = strings.EqualFold(parts[2], "read")
			state = expectDateTime
		case expectDateTime:
			parts := dateTimeLine.FindStringSubmatch(line)
			if parts == nil {
				return RawMessageRecord{}, false
			}
			result.DateTime = parts[1]
			state = expectSender
		case expectSender:
			parts := senderLine.FindStringSubmatch(line)
			if parts == nil {
				return RawMessageRecord{}, false
			}
			result.Sender = parts[1]
			state = expectMarker
		case expectMarker:
			switch line {
			case linkedMarker:
				result.Linked = true
				state = expectLinks
			case textMarker:
				state = expectLinks
			default:
				if links, found := parseLinks(line); found {
					result.Linked = true
					result.Links = &links
					bodyStart = i + 1
				} else {
					bodyStart = i
				}
			}
		case expectLinks:
			if links, found := parseLinks(line); found {
				result.Linked = true
				result.Links = &links
				bodyStart = i + 1
			} else {
				bodyStart = i
			}
		}
	}

	if state < expectMarker {
		return RawMessageRecord{}, false
	}

	if bodyStart < len(lines) {
		result.Text = strings.TrimSuffix(strings.Join(lines[bodyStart:], "\n"), "\n")
	}
	return result, true
}

func parseLinks(line string) (Links, bool) {
	parts := linksLine.FindStringSubmatch(line)
	if parts == nil {
		return Links{}, false
	}
	current, err := strconv.Atoi(parts[1])
	if err != nil {
		return Links{}, false
	}
	total, err := strconv.Atoi(parts[2])
	if err != nil {
		return Links{}, false
	}
	return Links{Current: current, Total: total}, true
}
