// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"slices"
	"sync"
)

// Batch is the set of changes collected during one debounce window.
type Batch struct {
	// Sources are absolute paths of changed Elm files, sorted.
	Sources []string
	// ConfigChanged is set when elm.json or elmforge.cue changed.
	ConfigChanged bool
}

// Empty reports whether the batch carries no change.
func (b Batch) Empty() bool {
	return len(b.Sources) == 0 && !b.ConfigChanged
}

// collector accumulates changes between flushes.
type collector struct {
	mu      sync.Mutex
	sources map[string]struct{}
	config  bool
}

func newCollector() *collector {
	return &collector{sources: make(map[string]struct{})}
}

func (c *collector) addSource(path string) {
	c.mu.Lock()
	c.sources[path] = struct{}{}
	c.mu.Unlock()
}

func (c *collector) addConfig() {
	c.mu.Lock()
	c.config = true
	c.mu.Unlock()
}

// drain returns the pending batch and resets the collector.
func (c *collector) drain() Batch {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := Batch{ConfigChanged: c.config}
	for p := range c.sources {
		b.Sources = append(b.Sources, p)
	}
	slices.Sort(b.Sources)

	clear(c.sources)
	c.config = false
	return b
}
