package testfixtures

import (
	"fmt"
	"sync/atomic"
)

// IDGenerator hands out sequential identifiers with a fixed prefix so test
// output stays stable and readable.
type IDGenerator struct {
	prefix  string
	counter atomic.Uint64
}

// NewIDGenerator creates a generator producing prefix-1, prefix-2, and so on.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier.
func (g *IDGenerator) Next() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.counter.Add(1))
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (g *IDGenerator) NextFunc() func() string {
	return g.Next
}
