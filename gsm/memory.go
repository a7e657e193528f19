package gsm

import (
	"fmt"
	"strings"
)

// MemoryType identifies a message memory bank of the phone, as used by gnokii --getsms
type MemoryType string

// All supported memory types
const (
	SIMMemory          MemoryType = "SM"
	PhoneMemory        MemoryType = "ME"
	CombinedMemory     MemoryType = "MT"
	BroadcastMemory    MemoryType = "BM"
	StatusReportMemory MemoryType = "SR"
)

// MemoryTypesByName maps all supported memory types by their string representation
var MemoryTypesByName = map[string]MemoryType{
	"SM": SIMMemory,
	"ME": PhoneMemory,
	"MT": CombinedMemory,
	"BM": BroadcastMemory,
	"SR": StatusReportMemory,
}

// MemoryTypeByName returns the MemoryType with the given name
func MemoryTypeByName(name string) (MemoryType, error) {
	sanitized := strings.ToUpper(strings.TrimSpace(name))
	result, ok := MemoryTypesByName[sanitized]
	if !ok {
		return "", fmt.Errorf("invalid memory type %s", name)
	}
	return result, nil
}

// Valid reports if m is one of the supported memory types.
func (m MemoryType) Valid() bool {
	_, ok := MemoryTypesByName[string(m)]
	return ok
}

func (m MemoryType) String() string {
	return string(m)
}
