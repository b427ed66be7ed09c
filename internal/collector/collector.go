// Package collector gathers test results from workers for the reporting goroutine.
package collector

import (
	"errors"
	"sync"

	"github.com/AndreyAkinshin/partest/internal/model"
)

var (
	// ErrUnexpectedResult is returned by Publish when more results arrive than
	// packages were dispatched.
	ErrUnexpectedResult = errors.New("collector: more results published than expected")

	// ErrDrained is returned by DrainNext once every expected result was taken.
	ErrDrained = errors.New("collector: all expected results already drained")
)

// Collector is a multi-producer, single-consumer result sink.
//
// The expected count is fixed at construction from the number of discovered
// packages. Publish never blocks. DrainNext blocks until a result is available
// and refuses to wait once all expected results were taken.
type Collector struct {
	mu        sync.Mutex
	ready     *sync.Cond
	pending   []model.TestResult
	expected  int
	published int
	drained   int
}

// New creates a collector that accepts exactly expected results.
func New(expected int) *Collector {
	if expected < 0 {
		expected = 0
	}
	c := &Collector{expected: expected}
	c.ready = sync.NewCond(&c.mu)
	return c
}

// Publish hands a finished result to the collector.
func (c *Collector) Publish(result model.TestResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.published >= c.expected {
		return ErrUnexpectedResult
	}
	c.published++
	c.pending = append(c.pending, result)
	c.ready.Signal()
	return nil
}

// DrainNext returns the next result in arrival order, blocking until one is published.
func (c *Collector) DrainNext() (model.TestResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drained >= c.expected {
		return model.TestResult{}, ErrDrained
	}
	for len(c.pending) == 0 {
		c.ready.Wait()
	}
	result := c.pending[0]
	c.pending[0] = model.TestResult{}
	c.pending = c.pending[1:]
	c.drained++
	return result, nil
}

// Remaining returns how many expected results have not been drained yet.
func (c *Collector) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expected - c.drained
}
