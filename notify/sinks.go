package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/onnwee/chat-tally/command"
)

// ChatAnnouncer announces crossed milestones in the broadcaster's chat.
// Counter updates are deliberately quiet; announcing every mutation would
// double the bot's chat volume.
type ChatAnnouncer struct {
	Sender command.Sender
	// Template may reference {{metric}}, {{threshold}}, {{count}}.
	Template string
}

// DefaultAnnounceTemplate is used when no template is configured.
const DefaultAnnounceTemplate = "milestone reached: {{metric}} hit {{threshold}}!"

func (a *ChatAnnouncer) Name() string { return "chat" }

func (a *ChatAnnouncer) Milestone(ctx context.Context, ev command.MilestoneEvent) error {
	if a.Sender == nil {
		return fmt.Errorf("no chat sender configured")
	}
	tmpl := a.Template
	if tmpl == "" {
		tmpl = DefaultAnnounceTemplate
	}
	text := command.Render(tmpl, map[string]string{
		"metric":    ev.Metric,
		"threshold": strconv.Itoa(ev.Threshold),
		"count":     strconv.Itoa(ev.Value),
	})
	a.Sender.Say(ev.BroadcasterID, text)
	return nil
}

func (a *ChatAnnouncer) CounterUpdate(ctx context.Context, ev command.CounterUpdateEvent) error {
	return nil
}

// LogSink writes every event to the structured log. It is the sink of
// last resort and never fails.
type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Milestone(ctx context.Context, ev command.MilestoneEvent) error {
	slog.Info("milestone crossed",
		slog.String("broadcaster", ev.BroadcasterID),
		slog.String("metric", ev.Metric),
		slog.Int("threshold", ev.Threshold),
		slog.Int("value", ev.Value))
	return nil
}

func (LogSink) CounterUpdate(ctx context.Context, ev command.CounterUpdateEvent) error {
	slog.Debug("counters updated", slog.String("broadcaster", ev.BroadcasterID))
	return nil
}
