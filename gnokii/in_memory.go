package gnokii

import (
	"context"
	"fmt"
	"sync"

	"github.com/ftl/gsm-inbox/gsm"
)

// Call records one invocation of an InMemory runner.
type Call struct {
	Memory   gsm.MemoryType
	Position int
}

type result struct {
	exitCode int
	output   string
	err      error
}

// InMemory is a gsm.Runner that serves prepared outputs. Positions without a prepared output
// behave like empty locations.
type InMemory struct {
	results  map[Call]result
	identity *result
	calls    []Call
	lock     *sync.RWMutex
}

func NewInMemory() *InMemory {
	return &InMemory{
		results: make(map[Call]result),
		lock:    new(sync.RWMutex),
	}
}

func (rw *InMemory) Run(ctx context.Context, memory gsm.MemoryType, position int) (int, string, error) {
	rw.lock.Lock()
	defer rw.lock.Unlock()

	call := Call{Memory: memory, Position: position}
	rw.calls = append(rw.calls, call)

	if err := ctx.Err(); err != nil {
		return -1, "", err
	}
	prepared, ok := rw.results[call]
	if !ok {
		return 1, fmt.Sprintf("GetSMS %s %d failed! (The given location is empty.)\n", memory, position), nil
	}
	return prepared.exitCode, prepared.output, prepared.err
}

// Identify returns the prepared identify output.
func (rw *InMemory) Identify(ctx context.Context) (string, error) {
	rw.lock.RLock()
	defer rw.lock.RUnlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if rw.identity == nil {
		return "", fmt.Errorf("gnokii --identify: no phone prepared")
	}
	return rw.identity.output, rw.identity.err
}

// PrepareIdentity lets Identify return the given output.
func (rw *InMemory) PrepareIdentity(output string) {
	rw.lock.Lock()
	defer rw.lock.Unlock()

	rw.identity = &result{output: output}
}

// PrepareOutput lets the given position return the given output with exit code 0.
func (rw *InMemory) PrepareOutput(memory gsm.MemoryType, position int, output string) {
	rw.prepare(memory, position, result{output: output})
}

// PrepareExitCode lets the given position fail with the given exit code and output.
func (rw *InMemory) PrepareExitCode(memory gsm.MemoryType, position int, exitCode int, output string) {
	rw.prepare(memory, position, result{exitCode: exitCode, output: output})
}

// PrepareError lets the given position fail to run at all.
func (rw *InMemory) PrepareError(memory gsm.MemoryType, position int, err error) {
	rw.prepare(memory, position, result{exitCode: -1, err: err})
}

func (rw *InMemory) prepare(memory gsm.MemoryType, position int, r result) {
	rw.lock.Lock()
	defer rw.lock.Unlock()

	rw.results[Call{Memory: memory, Position: position}] = r
}

func (rw *InMemory) Calls() []Call {
	rw.lock.RLock()
	defer rw.lock.RUnlock()

	result := make([]Call, len(rw.calls))
	copy(result, rw.calls)
	return result
}

func (rw *InMemory) ClearCalls() {
	rw.lock.Lock()
	defer rw.lock.Unlock()

	rw.calls = nil
}
