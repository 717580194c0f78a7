package sim

import (
	"context"
	"time"

	"auroguard/internal/logging"
)

// periodicTask runs fn on a ticker until stopped or its parent context ends.
type periodicTask struct {
	name     string
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func startTask(parent context.Context, name string, interval time.Duration, fn func(context.Context)) *periodicTask {
	ctx, cancel := context.WithCancel(parent)
	t := &periodicTask{name: name, interval: interval, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		log := logging.FromContext(ctx)
		log.Debug("task started", "task", name, "interval", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn(ctx)
			case <-ctx.Done():
				log.Debug("task stopped", "task", name)
				return
			}
		}
	}()
	return t
}

// stop cancels the task and waits for its goroutine to exit. Safe on nil.
func (t *periodicTask) stop() {
	if t == nil {
		return
	}
	t.cancel()
	<-t.done
}
