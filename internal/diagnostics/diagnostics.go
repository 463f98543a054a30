// Package diagnostics computes and caches per-view diagnostic summaries
// (counts by severity) with a time-windowed memoization so repeated
// statusline queries do not hammer the source.
package diagnostics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/statuskit/lspstatus/internal/clock"
)

// Severity is one level of the fixed four-level scale, most severe first.
type Severity int

// Severities in display order.
const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

// SeverityCount is the number of levels on the scale.
const SeverityCount = 4

// Severities lists all levels most-severe first, in the order summaries are
// rendered.
var Severities = [SeverityCount]Severity{SeverityError, SeverityWarning, SeverityInfo, SeverityHint}

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Source supplies current diagnostic counts per view. Implementations must be
// safe for concurrent use.
type Source interface {
	Count(viewID string, sev Severity) int
}

// DefaultInterval bounds recomputation frequency when none is configured.
const DefaultInterval = 500 * time.Millisecond

// DefaultIcons are the per-severity prefixes used when none are configured.
var DefaultIcons = [SeverityCount]string{"E", "W", "I", "H"}

// Cache memoizes the formatted summary per view. Within the interval the
// cached string is returned unchanged even if the underlying counts moved;
// that staleness is intentional.
type Cache struct {
	clock    clock.Clock
	source   Source
	interval time.Duration
	icons    [SeverityCount]string
	sep      string

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	text string
	at   time.Time
}

// CacheConfig controls summary formatting and recomputation.
type CacheConfig struct {
	// Interval is the minimum spacing between recomputations per view.
	// Non-positive values fall back to DefaultInterval.
	Interval time.Duration
	// Icons prefix each nonzero count, most severe first. Empty entries fall
	// back to DefaultIcons.
	Icons [SeverityCount]string
	// Separator joins nonzero entries; defaults to a single space.
	Separator string
}

// NewCache creates a Cache over the given source.
func NewCache(c clock.Clock, source Source, cfg CacheConfig) *Cache {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	for i, icon := range cfg.Icons {
		if icon == "" {
			cfg.Icons[i] = DefaultIcons[i]
		}
	}
	if cfg.Separator == "" {
		cfg.Separator = " "
	}
	return &Cache{
		clock:    c,
		source:   source,
		interval: cfg.Interval,
		icons:    cfg.Icons,
		sep:      cfg.Separator,
		entries:  make(map[string]cacheEntry),
	}
}

// Get returns the summary string for the view, recomputing only when the
// cached value is at least one interval old. Zero-count severities are
// omitted; all-zero yields the empty string.
func (c *Cache) Get(viewID string) string {
	now := c.clock.Now()
	c.mu.Lock()
	entry, ok := c.entries[viewID]
	if ok && now.Sub(entry.at) < c.interval {
		c.mu.Unlock()
		return entry.text
	}
	c.mu.Unlock()

	text := c.compute(viewID)

	c.mu.Lock()
	c.entries[viewID] = cacheEntry{text: text, at: now}
	c.mu.Unlock()
	return text
}

func (c *Cache) compute(viewID string) string {
	parts := make([]string, 0, SeverityCount)
	for i, sev := range Severities {
		n := c.source.Count(viewID, sev)
		if n == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", c.icons[i], n))
	}
	return strings.Join(parts, c.sep)
}

// MemorySource is an in-memory Source fed by the ingest API.
type MemorySource struct {
	mu     sync.RWMutex
	counts map[string][SeverityCount]int
}

// NewMemorySource creates an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{counts: make(map[string][SeverityCount]int)}
}

// SetCounts replaces the counts for a view, most severe first.
func (m *MemorySource) SetCounts(viewID string, counts [SeverityCount]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[viewID] = counts
}

// Count returns the current count for one severity; unknown views are zero.
func (m *MemorySource) Count(viewID string, sev Severity) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sev < 0 || int(sev) >= SeverityCount {
		return 0
	}
	return m.counts[viewID][sev]
}
