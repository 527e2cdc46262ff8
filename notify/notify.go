// Package notify fans milestone and counter-change events out to
// registered sinks (chat announcer, SSE hub, log). Delivery to each sink
// is isolated: one sink failing never blocks or cancels the others, and
// never rolls back the mutation that produced the event.
package notify

import (
	"context"
	"log/slog"

	"github.com/onnwee/chat-tally/command"
	"github.com/onnwee/chat-tally/telemetry"
)

// Sink is one delivery channel for engine events.
type Sink interface {
	Name() string
	Milestone(ctx context.Context, ev command.MilestoneEvent) error
	CounterUpdate(ctx context.Context, ev command.CounterUpdateEvent) error
}

// Dispatcher implements command.NotificationDispatcher over a set of
// sinks.
type Dispatcher struct {
	sinks []Sink
}

// NewDispatcher builds a dispatcher over the given sinks.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

// MilestoneReached delivers a milestone event to every sink.
func (d *Dispatcher) MilestoneReached(ctx context.Context, ev command.MilestoneEvent) {
	for _, s := range d.sinks {
		if err := s.Milestone(ctx, ev); err != nil {
			telemetry.NotifyFailures.WithLabelValues(s.Name()).Inc()
			slog.Warn("milestone delivery failed",
				slog.String("sink", s.Name()),
				slog.String("broadcaster", ev.BroadcasterID),
				slog.String("metric", ev.Metric),
				slog.Any("err", err))
		}
	}
}

// CountersUpdated delivers a counter-change event to every sink.
func (d *Dispatcher) CountersUpdated(ctx context.Context, ev command.CounterUpdateEvent) {
	for _, s := range d.sinks {
		if err := s.CounterUpdate(ctx, ev); err != nil {
			telemetry.NotifyFailures.WithLabelValues(s.Name()).Inc()
			slog.Warn("counter update delivery failed",
				slog.String("sink", s.Name()),
				slog.String("broadcaster", ev.BroadcasterID),
				slog.Any("err", err))
		}
	}
}
