package gsm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Address is the originating address of a message. It is either an international
// number with a leading + or a short alphanumeric code.
type Address string

var internationalNumber = regexp.MustCompile(`^\+[0-9]+$`)

// International reports if the address is an international phone number.
func (a Address) International() bool {
	return internationalNumber.MatchString(string(a))
}

//go:generate go tool mockgen -source=gsm.go -destination=mock_runner.go -package=gsm

// Runner executes the external message command for one memory position and returns
// the exit code and the decoded text output of the command.
type Runner interface {
	Run(ctx context.Context, memory MemoryType, position int) (int, string, error)
}

// RunnerFunc wraps a function with the Run signature into a Runner.
type RunnerFunc func(context.Context, MemoryType, int) (int, string, error)

func (f RunnerFunc) Run(ctx context.Context, memory MemoryType, position int) (int, string, error) {
	return f(ctx, memory, position)
}

// Charsets contains encoding.Encoding instances for the character sets the command
// output may be written in. UTF-8 output needs no decoding and is therefore not listed.
var Charsets = map[string]encoding.Encoding{
	"ISO8859-1":   charmap.ISO8859_1,
	"ISO8859-2":   charmap.ISO8859_2,
	"ISO8859-5":   charmap.ISO8859_5,
	"ISO8859-7":   charmap.ISO8859_7,
	"ISO8859-15":  charmap.ISO8859_15,
	"KOI8-R":      charmap.KOI8R,
	"KOI8-U":      charmap.KOI8U,
	"CP1251":      charmap.Windows1251,
	"CP1252":      charmap.Windows1252,
	"CODEPAGE437": charmap.CodePage437,
	"CODEPAGE850": charmap.CodePage850,
	"CODEPAGE866": charmap.CodePage866,
	"UTF16BE":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"UTF16LE":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
}

// DecoderByName returns a decoder for the named charset. An empty name or UTF-8
// returns nil, meaning the output is used as is.
func DecoderByName(name string) (*encoding.Decoder, error) {
	sanitized := strings.ToUpper(strings.TrimSpace(name))
	switch sanitized {
	case "", "UTF8", "UTF-8":
		return nil, nil
	}
	codec, ok := Charsets[sanitized]
	if !ok {
		return nil, fmt.Errorf("unsupported charset %s", name)
	}
	return codec.NewDecoder(), nil
}
