package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Driver fires Manager.Advance once per second for the lifetime of the
// process. Singleton mode guarantees a slow advance (for example one
// awaiting a payout call) is never overlapped by the next tick.
type Driver struct {
	manager *Manager
	logger  *slog.Logger

	mu    sync.Mutex
	sched gocron.Scheduler
}

func NewDriver(manager *Manager, logger *slog.Logger) *Driver {
	return &Driver{manager: manager, logger: logger}
}

// Start launches the 1-second tick. Calling it again on a running driver is
// a no-op.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sched != nil {
		return nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(time.Second),
		gocron.NewTask(func() {
			d.manager.Advance(context.Background())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduling tick: %w", err)
	}

	sched.Start()
	d.sched = sched
	d.logger.Info("game engine started", "tick", time.Second.String())
	return nil
}

// Stop cancels the tick and waits for an in-flight advance to settle.
// Stopping a driver that never started is a no-op.
func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sched == nil {
		return nil
	}
	err := d.sched.Shutdown()
	d.sched = nil
	if err != nil {
		return fmt.Errorf("stopping scheduler: %w", err)
	}
	d.logger.Info("game engine stopped")
	return nil
}
