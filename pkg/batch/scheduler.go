package batch

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
)

// BatchRunner runs one batch
type BatchRunner interface {
	Run(ctx context.Context) Result
}

// Scheduler re-runs the batch periodically
type Scheduler struct {
	runner   BatchRunner
	interval time.Duration
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

// NewScheduler creates a scheduler, interval <= 0 makes Start a no-op
func NewScheduler(runner BatchRunner, interval time.Duration) *Scheduler {
	return &Scheduler{runner: runner, interval: interval}
}

// Start begins periodic runs in background, the first run happens after one interval
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		lgr.Printf("[INFO] batch scheduler disabled")
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.worker(ctx)
	lgr.Printf("[INFO] batch scheduler started with interval %v", s.interval)
}

// Stop gracefully stops the scheduler and waits for the active run
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	lgr.Printf("[INFO] stopping batch scheduler...")
	s.cancel()
	s.wg.Wait()
	lgr.Printf("[INFO] batch scheduler stopped")
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := s.runner.Run(ctx)
			lgr.Printf("[INFO] scheduled batch: %s, raw news %d, articles %d, companies %d, tokens %d",
				res.Message, res.Stats.NewRawNews, res.Stats.NewArticles, res.Stats.NewCompanies, res.Stats.TokenSnapshots)
		}
	}
}
