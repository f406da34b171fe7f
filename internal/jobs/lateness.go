// Package jobs holds the background work run next to the HTTP server.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"delivery-ops/internal/metrics"
	"delivery-ops/internal/store"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StoreInterface is the read side of the store the watch samples.
type StoreInterface interface {
	Snapshot() store.State
	Now() time.Time
}

// Counts is one sample of the lateness watch.
type Counts struct {
	Late   int
	AtRisk int
}

// LatenessWatch samples the orders on a schedule and publishes how many are
// late or at risk. It only reads state.
type LatenessWatch struct {
	st     StoreInterface
	window time.Duration
	log    *zap.Logger

	mu       sync.Mutex
	lastLate int
}

func NewLatenessWatch(st StoreInterface, window time.Duration, log *zap.Logger) *LatenessWatch {
	return &LatenessWatch{st: st, window: window, log: log}
}

// Check takes one sample, updates the gauges and warns when more orders are
// late than at the previous sample.
func (w *LatenessWatch) Check() Counts {
	snap := w.st.Snapshot()
	now := w.st.Now()

	var c Counts
	for _, o := range snap.Orders {
		if o.IsLate(now) {
			c.Late++
		}
		if o.IsAtRisk(now, w.window) {
			c.AtRisk++
		}
	}
	metrics.LateOrders.Set(float64(c.Late))
	metrics.AtRiskOrders.Set(float64(c.AtRisk))
	metrics.ObserveStatuses(snap)

	w.mu.Lock()
	grew := c.Late > w.lastLate
	w.lastLate = c.Late
	w.mu.Unlock()

	if grew {
		w.log.Warn("late orders increased", zap.Int("late", c.Late), zap.Int("at_risk", c.AtRisk))
	} else {
		w.log.Debug("lateness sampled", zap.Int("late", c.Late), zap.Int("at_risk", c.AtRisk))
	}
	return c
}

// Run samples every interval until ctx is done.
func (w *LatenessWatch) Run(ctx context.Context, interval time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("jobs.Run: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { w.Check() }),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("jobs.Run: %w", err)
	}

	scheduler.Start()
	w.log.Info("lateness watch started", zap.Duration("interval", interval))

	<-ctx.Done()

	return scheduler.Shutdown()
}
