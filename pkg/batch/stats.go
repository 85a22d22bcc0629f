package batch

import (
	"fmt"
	"sync"

	"github.com/go-pkgz/lgr"
)

// Stats aggregates the counters and log lines of one batch run
type Stats struct {
	NewRawNews     int      `json:"newRawNews"`
	NewArticles    int      `json:"newArticles"`
	NewCompanies   int      `json:"newCompanies"`
	TokenSnapshots int      `json:"tokenSnapshots"`
	Logs           []string `json:"logs"`
}

// Result is the outcome of one batch run
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Stats   Stats  `json:"stats"`
}

// EmptyStats returns stats of a run that never started
func EmptyStats() Stats {
	return Stats{Logs: []string{}}
}

// collector accumulates stats from concurrent workers
type collector struct {
	mu    sync.Mutex
	stats Stats
}

func newCollector() *collector {
	return &collector{stats: EmptyStats()}
}

func (c *collector) add(fn func(s *Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.stats)
}

// info records a progress line
func (c *collector) info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	lgr.Printf("[INFO] %s", msg)
	c.add(func(s *Stats) { s.Logs = append(s.Logs, msg) })
}

// failure records a failure line, the run goes on
func (c *collector) failure(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	lgr.Printf("[WARN] %s", msg)
	c.add(func(s *Stats) { s.Logs = append(s.Logs, msg) })
}

// snapshot returns a copy safe to hand out while workers may still write
func (c *collector) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := c.stats
	res.Logs = append([]string{}, c.stats.Logs...)
	return res
}
