package sms

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ftl/gsm-inbox/gsm"
)

// DefaultPositions is the number of memory positions scanned by default.
const DefaultPositions = 30

// PositionState is the outcome of scanning one memory position.
type PositionState int

// All position states. NotScanned and RawFetched are transient, all others are terminal.
const (
	NotScanned PositionState = iota
	RawFetched
	Discarded
	FinalizedSingle
	FinalizedMultipart
	SkippedDuplicate
)

func (s PositionState) String() string {
	switch s {
	case NotScanned:
		return "not scanned"
	case RawFetched:
		return "raw fetched"
	case Discarded:
		return "discarded"
	case FinalizedSingle:
		return "finalized single"
	case FinalizedMultipart:
		return "finalized multipart"
	case SkippedDuplicate:
		return "skipped duplicate"
	default:
		return fmt.Sprintf("PositionState(%d)", int(s))
	}
}

// PositionReport describes what happened to one memory position during a scan.
type PositionReport struct {
	Position int
	State    PositionState
	Err      error
}

// ScanResult contains all messages that were finalized during a scan and a report for
// every scanned position.
type ScanResult struct {
	Messages  []SMS
	Positions []PositionReport
}

// Err combines the errors of all positions.
func (r ScanResult) Err() error {
	var result error
	for _, position := range r.Positions {
		result = multierr.Append(result, position.Err)
	}
	return result
}

// Count returns the number of positions that ended in the given state.
func (r ScanResult) Count(state PositionState) int {
	result := 0
	for _, position := range r.Positions {
		if position.State == state {
			result++
		}
	}
	return result
}

// MessageCallback is called with every finalized message.
type MessageCallback func(SMS)

// Assembler scans the positions of one memory bank and assembles linked parts into complete
// messages. The positions are scanned strictly in ascending order, one device command at a
// time. An Assembler is not safe for concurrent use.
type Assembler struct {
	runner          gsm.Runner
	memory          gsm.MemoryType
	parser          *Parser
	positions       int
	logger          *zap.Logger
	messageCallback MessageCallback
}

// NewAssembler returns an Assembler that scans the given memory with DefaultPositions positions.
func NewAssembler(runner gsm.Runner, memory gsm.MemoryType) *Assembler {
	return &Assembler{
		runner:    runner,
		memory:    memory,
		parser:    NewParser(),
		positions: DefaultPositions,
		logger:    zap.NewNop(),
	}
}

// WithPositions sets the number of positions to scan. Scan reads the positions 0 to n-1.
func (a *Assembler) WithPositions(positions int) *Assembler {
	a.positions = positions
	return a
}

// WithParser sets the parser used for the command output.
func (a *Assembler) WithParser(parser *Parser) *Assembler {
	a.parser = parser
	return a
}

// WithLogger sets the logger, the default logs nothing.
func (a *Assembler) WithLogger(logger *zap.Logger) *Assembler {
	a.logger = logger
	return a
}

// WithMessageCallback sets a callback that is called for every message as soon as it is finalized.
func (a *Assembler) WithMessageCallback(callback MessageCallback) *Assembler {
	a.messageCallback = callback
	return a
}

// Scan all positions. Only the slots of messages that were finalized are skipped later on. A failure at one position never stops the scan, it is reported in the
// PositionReport of that position. The returned error is only set if the context is done
// before all positions were scanned.
func (a *Assembler) Scan(ctx context.Context) (ScanResult, error) {
	result := ScanResult{
		Positions: make([]PositionReport, 0, a.positions),
	}
	covered := make(map[int]bool)

	for position := 0; position < a.positions; position++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		report := PositionReport{Position: position, State: NotScanned}
		if covered[position] {
			report.State = SkippedDuplicate
			result.Positions = append(result.Positions, report)
			continue
		}

		message, state, err := a.scanPosition(ctx, position, covered)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return result, ctxErr
		}
		report.State = state
		report.Err = err
		result.Positions = append(result.Positions, report)

		if err != nil {
			a.logger.Debug("position discarded", zap.Stringer("memory", a.memory), zap.Int("position", position), zap.Error(err))
			continue
		}
		if state != FinalizedSingle && state != FinalizedMultipart {
			continue
		}
		result.Messages = append(result.Messages, message)
		if a.messageCallback != nil {
			a.messageCallback(message)
		}
	}

	a.logger.Info("scan complete",
		zap.Stringer("memory", a.memory),
		zap.Int("positions", len(result.Positions)),
		zap.Int("messages", len(result.Messages)),
	)
	return result, nil
}

func (a *Assembler) scanPosition(ctx context.Context, position int, covered map[int]bool) (SMS, PositionState, error) {
	record, ok, err := a.fetch(ctx, position)
	if err != nil {
		return SMS{}, Discarded, err
	}
	if !ok {
		return SMS{}, Discarded, nil
	}

	if isSinglePart(record) {
		message, err := a.finalizeSingle(record)
		if err != nil {
			return SMS{}, Discarded, err
		}
		return message, FinalizedSingle, nil
	}

	interval, err := resolveRecord(record)
	if err != nil {
		return SMS{}, Discarded, err
	}
	if !interval.First() {
		a.logger.Debug("skipping part of a message that starts at an earlier slot",
			zap.Int("position", position),
			zap.Stringer("interval", interval),
			zap.Bool("covered", covered[position]),
		)
		return SMS{}, SkippedDuplicate, nil
	}

	message, err := a.assembleMultipart(ctx, record, interval)
	if err != nil {
		return SMS{}, Discarded, err
	}
	for _, slot := range message.Memory.Slots {
		covered[slot] = true
	}
	return message, FinalizedMultipart, nil
}

// Fetch the message at the given position. If the position holds a part of a linked message,
// all parts are fetched and the complete message is returned. ErrNoMessage is returned if the
// position holds no message.
func (a *Assembler) Fetch(ctx context.Context, position int) (SMS, error) {
	record, ok, err := a.fetch(ctx, position)
	if err != nil {
		return SMS{}, err
	}
	if !ok {
		return SMS{}, fmt.Errorf("%s %d: %w", a.memory, position, ErrNoMessage)
	}

	if isSinglePart(record) {
		return a.finalizeSingle(record)
	}

	interval, err := resolveRecord(record)
	if err != nil {
		return SMS{}, err
	}
	return a.assembleMultipart(ctx, record, interval)
}

func (a *Assembler) fetch(ctx context.Context, position int) (RawMessageRecord, bool, error) {
	exitCode, output, err := a.runner.Run(ctx, a.memory, position)
	if err != nil {
		return RawMessageRecord{}, false, &DeviceCommandError{
			Memory:   a.memory,
			Position: position,
			ExitCode: exitCode,
			Output:   output,
			Err:      err,
		}
	}
	if exitCode != 0 {
		return RawMessageRecord{}, false, &DeviceCommandError{
			Memory:   a.memory,
			Position: position,
			ExitCode: exitCode,
			Output:   output,
		}
	}
	return a.parser.ParseMessage(output)
}

func (a *Assembler) finalizeSingle(record RawMessageRecord) (SMS, error) {
	record.Linked = false
	record.Links = nil
	return BuildSMS(a.memory, record, []int{record.Locations.Start}, record.Text)
}

// assembleMultipart fetches all remaining parts of the message described by the given record and
// interval and merges them into one SMS.
func (a *Assembler) assembleMultipart(ctx context.Context, record RawMessageRecord, interval SlotInterval) (SMS, error) {
	message := newMultipart(record, interval)

	var causes error
	for _, slot := range interval.Slots() {
		if slot == interval.Current {
			continue
		}
		part, ok, err := a.fetch(ctx, slot)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return SMS{}, ctxErr
			}
			causes = multierr.Append(causes, err)
			continue
		}
		if !ok {
			continue
		}
		if !message.Matches(part, slot) {
			a.logger.Warn("part does not belong to the message",
				zap.Int("slot", slot),
				zap.Stringer("interval", interval),
				zap.String("sender", part.Sender),
			)
			continue
		}
		message.SetPart(slot, part)
	}

	if !message.Complete() {
		return SMS{}, &IncompleteMultipartError{
			Interval: interval,
			Missing:  message.Missing(),
			Causes:   causes,
		}
	}

	merged := message.First()
	merged.Locations = Locations{Start: interval.Start, Current: interval.Current, End: interval.End}
	merged.Read = message.Read()
	return BuildSMS(a.memory, merged, interval.Slots(), message.Text())
}

func isSinglePart(record RawMessageRecord) bool {
	if !record.Linked {
		return true
	}
	return record.Links != nil && record.Links.Total <= 1
}

func resolveRecord(record RawMessageRecord) (SlotInterval, error) {
	if err := record.ValidateLinks(); err != nil {
		return SlotInterval{}, err
	}
	interval := ResolveSlots(record.Locations.Start, *record.Links)
	if interval.Underflows() {
		return interval, &MalformedLinkInfoError{
			Position: record.Locations.Start,
			Links:    record.Links,
			Reason:   fmt.Sprintf("slot interval %s starts before slot %d", interval, FirstSlot),
		}
	}
	return interval, nil
}

// multipart collects the parts of one linked message, indexed by their part number.
type multipart struct {
	interval SlotInterval
	total    int
	sender   string
	parts    []part
}

type part struct {
	Valid  bool
	Record RawMessageRecord
}

func newMultipart(record RawMessageRecord, interval SlotInterval) *multipart {
	result := &multipart{
		interval: interval,
		total:    record.Links.Total,
		sender:   record.Sender,
		parts:    make([]part, interval.Len()),
	}
	result.SetPart(interval.Current, record)
	return result
}

// Matches reports if the given record is the expected part for the given slot.
func (m *multipart) Matches(record RawMessageRecord, slot int) bool {
	return record.Linked &&
		record.Links != nil &&
		record.Links.Total == m.total &&
		record.Links.Current == m.interval.Part(slot) &&
		record.Sender == m.sender
}

func (m *multipart) SetPart(slot int, record RawMessageRecord) {
	i := m.interval.Part(slot) - 1
	if i < 0 || i >= len(m.parts) {
		return
	}
	m.parts[i].Record = record
	m.parts[i].Valid = true
}

func (m *multipart) Complete() bool {
	for _, part := range m.parts {
		if !part.Valid {
			return false
		}
	}
	return true
}

func (m *multipart) Missing() []int {
	var result []int
	for i, part := range m.parts {
		if !part.Valid {
			result = append(result, m.interval.Start+i)
		}
	}
	return result
}

// First returns the record of the first part, it provides the metadata of the merged message.
func (m *multipart) First() RawMessageRecord {
	return m.parts[0].Record
}

// Read reports if all parts are read.
func (m *multipart) Read() bool {
	for _, part := range m.parts {
		if !part.Record.Read {
			return false
		}
	}
	return true
}

// Text concatenates the texts of all parts in the order of their part numbers.
func (m *multipart) Text() string {
	var result string
	for _, part := range m.parts {
		result += part.Record.Text
	}
	return result
}
