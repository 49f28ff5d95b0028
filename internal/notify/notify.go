// Package notify delivers successful redemptions to external channels. The
// request path hands a redemption to the Dispatcher and never waits for it.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/huntclub/hunt-api/internal/domain"
	"github.com/huntclub/hunt-api/internal/guard"
)

// Sink is one outbound channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, r domain.Redemption) error
}

// Dispatcher fans a redemption out to every sink on a detached goroutine.
type Dispatcher struct {
	sinks   []Sink
	breaker *guard.CircuitBreaker
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Each send gets its own timeout.
func NewDispatcher(sinks []Sink, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sinks:   sinks,
		breaker: guard.NewCircuitBreaker(5, 30*time.Second),
		timeout: timeout,
		logger:  logger,
	}
}

// Notify schedules delivery and returns immediately. The context is only used
// for its values; cancelling it does not abort delivery.
func (d *Dispatcher) Notify(ctx context.Context, r domain.Redemption) {
	if len(d.sinks) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				d.logger.Error("notification panic recovered", "code", r.Code, "error", rec)
			}
		}()
		for _, sink := range d.sinks {
			d.send(detached, sink, r)
		}
	}()
}

func (d *Dispatcher) send(ctx context.Context, sink Sink, r domain.Redemption) {
	name := sink.Name()
	if result := d.breaker.Check(name); !result.Allowed {
		d.logger.Warn("notification skipped", "sink", name, "code", r.Code, "reason", result.Reason)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := sink.Send(ctx, r); err != nil {
		d.breaker.RecordFailure(name)
		d.logger.Warn("notification failed", "sink", name, "code", r.Code, "team", r.Team, "error", err)
		return
	}
	d.breaker.RecordSuccess(name)
	d.logger.Debug("notification sent", "sink", name, "code", r.Code)
}

// Close waits for in-flight deliveries or until ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
