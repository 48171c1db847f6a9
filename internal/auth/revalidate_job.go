package auth

import (
	"context"
	"sync"
	"time"
)

// RevalidateJob periodically re-checks session validity so an expired
// session is noticed even while the application sits idle. The job is idle
// until Start is called.
type RevalidateJob struct {
	manager *Manager

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRevalidateJob creates a RevalidateJob bound to manager.
func NewRevalidateJob(manager *Manager) *RevalidateJob {
	return &RevalidateJob{manager: manager}
}

// Start stops any previously running job, then launches a background
// goroutine that calls RestoreSession every interval. A non-positive
// interval defaults to 5 minutes. The goroutine exits when ctx is cancelled
// or Stop is called.
func (j *RevalidateJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.manager.RestoreSession(jobCtx)
			}
		}
	}()
}

// Stop cancels the background goroutine and blocks until it has exited.
// Safe to call when the job is not running.
func (j *RevalidateJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
