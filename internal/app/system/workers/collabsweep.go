// internal/app/system/workers/collabsweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// IdleEnder ends collab sessions with no activity since a cutoff.
type IdleEnder interface {
	EndIdle(ctx context.Context, before time.Time) (int64, error)
}

// CollabSweep is a background worker that ends idle collab sessions.
type CollabSweep struct {
	sessions  IdleEnder
	log       *zap.Logger
	interval  time.Duration
	idleAfter time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewCollabSweep creates a sweep worker.
//
// Parameters:
//   - sessions: the collab session store
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 10 minutes)
//   - idleAfter: how long a session may go without activity (e.g., 24 hours)
func NewCollabSweep(sessions IdleEnder, logger *zap.Logger, interval, idleAfter time.Duration) *CollabSweep {
	return &CollabSweep{
		sessions:  sessions,
		log:       logger,
		interval:  interval,
		idleAfter: idleAfter,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *CollabSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("collab sweep worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle_after", w.idleAfter))
}

// Stop signals the worker to stop and waits for it to finish. It is safe
// to call more than once.
func (w *CollabSweep) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("collab sweep worker stopped")
	})
}

func (w *CollabSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one pass and returns the number of sessions ended.
func (w *CollabSweep) Sweep() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	count, err := w.sessions.EndIdle(ctx, w.now().UTC().Add(-w.idleAfter))
	if err != nil {
		w.log.Error("failed to end idle collab sessions", zap.Error(err))
		return 0
	}

	if count > 0 {
		w.log.Info("ended idle collab sessions", zap.Int64("count", count))
	}
	return count
}
