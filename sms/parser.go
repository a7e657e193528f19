package sms

import (
	"fmt"
)

// OutputKind selects the grammar used to parse a command output.
type OutputKind int

// All supported output kinds
const (
	SMSOutput OutputKind = iota
	IdentifyOutput
)

func (k OutputKind) String() string {
	switch k {
	case SMSOutput:
		return "sms"
	case IdentifyOutput:
		return "identify"
	default:
		return fmt.Sprintf("OutputKind(%d)", int(k))
	}
}

// OutputParserFunc parses one command output. It returns false if the output does not match
// the grammar of its kind.
type OutputParserFunc func(string) (any, bool)

type Parser struct {
	parsers map[OutputKind]OutputParserFunc
}

// NewParser returns a new output parser that uses the default parsers for
// SMS output (RawMessageRecord) and identify output (Identity).
func NewParser() *Parser {
	return &Parser{
		parsers: map[OutputKind]OutputParserFunc{
			SMSOutput: func(s string) (any, bool) {
				return ParseRawMessage(s)
			},
			IdentifyOutput: func(s string) (any, bool) {
				return ParseIdentity(s)
			},
		},
	}
}

// Set an individual output parser for the given kind.
func (p *Parser) Set(kind OutputKind, parser OutputParserFunc) {
	p.parsers[kind] = parser
}

// Parse the given output with the parser registered for the given kind. Output that does not
// match is reported through the boolean result, an error is only returned if no parser is
// registered for the kind.
func (p *Parser) Parse(kind OutputKind, output string) (any, bool, error) {
	parser, ok := p.parsers[kind]
	if !ok {
		return nil, false, fmt.Errorf("no output parser registered for %s", kind)
	}
	result, ok := parser(output)
	return result, ok, nil
}

// ParseMessage parses SMS output and returns the record.
func (p *Parser) ParseMessage(output string) (RawMessageRecord, bool, error) {
	parsed, ok, err := p.Parse(SMSOutput, output)
	if err != nil || !ok {
		return RawMessageRecord{}, false, err
	}
	record, ok := parsed.(RawMessageRecord)
	if !ok {
		return RawMessageRecord{}, false, fmt.Errorf("unexpected %s parser result %T", SMSOutput, parsed)
	}
	return record, true, nil
}
