// Package testutil holds helpers shared by package tests: deterministic load
// IDs, CUE fixtures and log capture.
package testutil

import (
	"fmt"
	"sync"
)

// FixedLoadIDGenerator returns the same load ID every time, so compile
// summaries are byte-identical across runs and can be golden-tested.
//
// Thread-safety: stateless and safe for concurrent use.
type FixedLoadIDGenerator struct {
	id string
}

// NewFixedLoadIDGenerator creates a fixed generator. An empty id yields
// "test-load-default".
func NewFixedLoadIDGenerator(id string) *FixedLoadIDGenerator {
	if id == "" {
		id = "test-load-default"
	}
	return &FixedLoadIDGenerator{id: id}
}

// Generate returns the fixed load ID.
//
// Implements compiler.LoadIDGenerator.
func (g *FixedLoadIDGenerator) Generate() string {
	return g.id
}

// SequentialLoadIDGenerator returns "<prefix>-1", "<prefix>-2", ... and can
// be reset for reuse. Used where one test compiles several times, as the
// watch loop does.
//
// Thread-safety: all methods are safe for concurrent use.
type SequentialLoadIDGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequentialLoadIDGenerator starts a sequence at 1.
func NewSequentialLoadIDGenerator(prefix string) *SequentialLoadIDGenerator {
	return &SequentialLoadIDGenerator{prefix: prefix}
}

// Generate returns the next ID in the sequence.
func (g *SequentialLoadIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Count returns how many IDs were generated since the last reset.
func (g *SequentialLoadIDGenerator) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence at 1.
func (g *SequentialLoadIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
