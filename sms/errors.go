package sms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ftl/gsm-inbox/gsm"
)

var (
	// ErrDeviceCommand matches every DeviceCommandError.
	ErrDeviceCommand = errors.New("device command failed")

	// ErrMalformedLinkInfo matches every MalformedLinkInfoError.
	ErrMalformedLinkInfo = errors.New("malformed link info")

	// ErrIncompleteMultipart matches every IncompleteMultipartError.
	ErrIncompleteMultipart = errors.New("incomplete multipart message")

	// ErrNoMessage is returned by Assembler.Fetch if the requested position holds no message.
	ErrNoMessage = errors.New("no message")
)

// DeviceCommandError reports a failed invocation of the device command for one position.
// Err is nil if the command ran, but returned a nonzero exit code.
type DeviceCommandError struct {
	Memory   gsm.MemoryType
	Position int
	ExitCode int
	Output   string
	Err      error
}

func (e *DeviceCommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %d: %v", e.Memory, e.Position, e.Err)
	}
	return fmt.Sprintf("%s %d: exit code %d: %s", e.Memory, e.Position, e.ExitCode, strings.TrimSpace(e.Output))
}

func (e *DeviceCommandError) Is(target error) bool {
	return target == ErrDeviceCommand
}

func (e *DeviceCommandError) Unwrap() error {
	return e.Err
}

// MalformedLinkInfoError reports a linked record whose (current/total) counters cannot describe
// a valid span of slots.
type MalformedLinkInfoError struct {
	Position int
	Links    *Links
	Reason   string
}

func (e *MalformedLinkInfoError) Error() string {
	if e.Links == nil {
		return fmt.Sprintf("position %d: %s", e.Position, e.Reason)
	}
	return fmt.Sprintf("position %d, linked %s: %s", e.Position, e.Links, e.Reason)
}

func (e *MalformedLinkInfoError) Is(target error) bool {
	return target == ErrMalformedLinkInfo
}

// IncompleteMultipartError reports a multipart message where at least one part could not be
// fetched. Causes combines the errors of the failed fetches, if any.
type IncompleteMultipartError struct {
	Interval SlotInterval
	Missing  []int
	Causes   error
}

func (e *IncompleteMultipartError) Error() string {
	result := fmt.Sprintf("slots %s: missing parts in slots %v", e.Interval, e.Missing)
	if e.Causes != nil {
		result += ": " + e.Causes.Error()
	}
	return result
}

func (e *IncompleteMultipartError) Is(target error) bool {
	return target == ErrIncompleteMultipart
}

func (e *IncompleteMultipartError) Unwrap() error {
	return e.Causes
}
