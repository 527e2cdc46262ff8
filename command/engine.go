package command

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/onnwee/chat-tally/telemetry"
)

// Prefix marks a chat line as a command.
const Prefix = "!"

// DefaultMaxIncrement caps a single mutation when the broadcaster has no
// configured ceiling.
const DefaultMaxIncrement = 100

// CounterRepository loads and persists counter state.
type CounterRepository interface {
	Get(ctx context.Context, broadcasterID string) (*State, error)
	Save(ctx context.Context, state *State) error
}

// ConfigRepository provides per-broadcaster command and counter
// configuration.
type ConfigRepository interface {
	Settings(ctx context.Context, broadcasterID string) (Settings, error)
	CommandOverrides(ctx context.Context, broadcasterID string) (map[string]Definition, error)
	CustomCounters(ctx context.Context, broadcasterID string) (map[string]CustomCounter, error)
}

// LibraryRepository provides canonical catalog metadata for counters,
// including long-form/alias triggers.
type LibraryRepository interface {
	Triggers(ctx context.Context, counterID string) ([]string, error)
}

// NotificationDispatcher receives milestone and counter-change events.
// Implementations own fan-out and must isolate channel failures.
type NotificationDispatcher interface {
	MilestoneReached(ctx context.Context, ev MilestoneEvent)
	CountersUpdated(ctx context.Context, ev CounterUpdateEvent)
}

// Sender delivers an outbound chat line, best-effort.
type Sender interface {
	Say(broadcasterID, text string)
}

// Engine is the per-message pipeline: resolve, gate, rate-limit, mutate,
// detect milestones, dispatch.
type Engine struct {
	Counters  CounterRepository
	Config    ConfigRepository
	Library   LibraryRepository
	Notify    NotificationDispatcher
	Sender    Sender
	Cooldowns *CooldownTracker

	// Now is the clock; nil means time.Now. Tests pin it.
	Now func() time.Time

	defaults map[string]Definition
}

// NewEngine wires an engine over its collaborators with the built-in
// command table.
func NewEngine(counters CounterRepository, config ConfigRepository, library LibraryRepository, notify NotificationDispatcher, sender Sender, cooldowns *CooldownTracker) *Engine {
	return &Engine{
		Counters:  counters,
		Config:    config,
		Library:   library,
		Notify:    notify,
		Sender:    sender,
		Cooldowns: cooldowns,
		defaults:  Defaults(),
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Process runs one chat message through the pipeline. Rejections are
// silent; every failure is contained to this message.
func (e *Engine) Process(ctx context.Context, msg Message) {
	// One bad message must never take down the ingest loop.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic processing message",
				slog.String("broadcaster", msg.BroadcasterID), slog.Any("panic", r))
		}
	}()

	if len(msg.Text) == 0 || msg.Text[:1] != Prefix {
		return
	}
	log := slog.Default().With(slog.String("broadcaster", msg.BroadcasterID), slog.String("user", msg.Username))

	overrides, err := e.Config.CommandOverrides(ctx, msg.BroadcasterID)
	if err != nil {
		log.Error("load command overrides", slog.Any("err", err))
		return
	}
	custom, err := e.customCounters(ctx, msg.BroadcasterID)
	if err != nil {
		log.Error("load custom counters", slog.Any("err", err))
		return
	}

	res, ok := Resolve(msg.Text, e.defaults, overrides, custom)
	if !ok || !res.Def.Enabled {
		return
	}
	telemetry.CommandsResolved.Inc()

	allowed, err := Allowed(res.Def.Tier, msg)
	if err != nil {
		// Misconfigured tier: deny, loudly in the logs only.
		log.Warn("permission tier misconfigured", slog.String("key", res.CooldownKey), slog.Any("err", err))
		return
	}
	if !allowed {
		telemetry.PermissionRejections.Inc()
		return
	}

	if !e.Cooldowns.Allow(msg.BroadcasterID, res.CooldownKey, e.now(), time.Duration(res.Def.CooldownSeconds)*time.Second) {
		telemetry.CooldownRejections.Inc()
		return
	}

	settings, err := e.Config.Settings(ctx, msg.BroadcasterID)
	if err != nil {
		log.Error("load settings", slog.Any("err", err))
		return
	}

	if res.Def.Action != ActionNone {
		e.mutate(ctx, log, msg, res, settings, custom)
		return
	}
	e.reply(ctx, log, msg, res)
}

// customCounters merges broadcaster counter definitions with catalog
// triggers from the library.
func (e *Engine) customCounters(ctx context.Context, broadcasterID string) (map[string]CustomCounter, error) {
	custom, err := e.Config.CustomCounters(ctx, broadcasterID)
	if err != nil {
		return nil, err
	}
	if e.Library == nil {
		return custom, nil
	}
	for id, cc := range custom {
		triggers, err := e.Library.Triggers(ctx, id)
		if err != nil {
			// Catalog lookups are additive; a failure only loses aliases.
			slog.Debug("library triggers", slog.String("counter", id), slog.Any("err", err))
			continue
		}
		for _, t := range triggers {
			norm := NormalizeTrigger(t)
			if norm == "" || contains(cc.Triggers, norm) {
				continue
			}
			cc.Triggers = append(cc.Triggers, norm)
		}
		custom[id] = cc
	}
	return custom, nil
}

func (e *Engine) mutate(ctx context.Context, log *slog.Logger, msg Message, res Resolution, settings Settings, custom map[string]CustomCounter) {
	maxIncrement := settings.MaxIncrement
	if maxIncrement <= 0 {
		maxIncrement = DefaultMaxIncrement
	}
	amount := res.Amount
	if amount < 1 {
		amount = 1
	}
	if amount > maxIncrement {
		amount = maxIncrement
	}

	state, err := e.Counters.Get(ctx, msg.BroadcasterID)
	if err != nil {
		log.Error("load counters", slog.Any("err", err))
		return
	}
	before := snapshot(state)

	if !Apply(res.Def.Action, res.Def.Targets, amount, state, settings) {
		return
	}
	if err := e.Counters.Save(ctx, state); err != nil {
		// Mutation abandoned for this message; nothing is dispatched.
		log.Error("persist counters", slog.Any("err", err))
		return
	}
	telemetry.MutationsApplied.Inc()

	now := e.now()
	e.Notify.CountersUpdated(ctx, CounterUpdateEvent{
		ID:            uuid.NewString(),
		BroadcasterID: msg.BroadcasterID,
		State:         *state,
		OccurredAt:    now,
	})

	e.detectMilestones(ctx, msg.BroadcasterID, before, state, settings, custom, now)
}

// detectMilestones runs the detector independently for every metric whose
// value increased, emitting one event per crossed threshold.
func (e *Engine) detectMilestones(ctx context.Context, broadcasterID string, before *State, after *State, settings Settings, custom map[string]CustomCounter, now time.Time) {
	emit := func(metric string, thresholds []int, prev, next int) {
		for _, t := range Crossed(thresholds, prev, next) {
			telemetry.MilestonesCrossed.Inc()
			e.Notify.MilestoneReached(ctx, MilestoneEvent{
				ID:            uuid.NewString(),
				BroadcasterID: broadcasterID,
				Metric:        metric,
				Threshold:     t,
				Value:         next,
				OccurredAt:    now,
			})
		}
	}

	emit(MetricDeaths, settings.Milestones[MetricDeaths], before.Deaths, after.Deaths)
	emit(MetricSwears, settings.Milestones[MetricSwears], before.Swears, after.Swears)
	if settings.ScreamsEnabled {
		emit(MetricScreams, settings.Milestones[MetricScreams], before.Screams, after.Screams)
	}
	emit(MetricBits, settings.Milestones[MetricBits], before.Bits, after.Bits)

	for id, next := range after.Custom {
		cc, ok := custom[id]
		if !ok {
			continue
		}
		emit(id, cc.Milestones, before.Custom[id], next)
	}
}

func (e *Engine) reply(ctx context.Context, log *slog.Logger, msg Message, res Resolution) {
	if res.Def.Template == "" || e.Sender == nil {
		return
	}
	state, err := e.Counters.Get(ctx, msg.BroadcasterID)
	if err != nil {
		log.Error("load counters", slog.Any("err", err))
		return
	}
	text := Render(res.Def.Template, e.tokens(msg, res, state))
	telemetry.RepliesSent.Inc()
	e.Sender.Say(msg.BroadcasterID, text)
}

// tokens builds the substitution map for response templates.
func (e *Engine) tokens(msg Message, res Resolution, state *State) map[string]string {
	tokens := map[string]string{
		"user":     msg.Username,
		"streamer": msg.BroadcasterID,
		"deaths":   strconv.Itoa(state.Deaths),
		"swears":   strconv.Itoa(state.Swears),
		"screams":  strconv.Itoa(state.Screams),
		"bits":     strconv.Itoa(state.Bits),
	}
	for id, v := range state.Custom {
		tokens[id] = strconv.Itoa(v)
	}
	if cc := res.Custom; cc != nil {
		tokens["name"] = cc.DisplayName
		tokens["icon"] = cc.Icon
		tokens["count"] = strconv.Itoa(state.Value(cc.ID))
	}
	return tokens
}

func snapshot(s *State) *State {
	cp := *s
	cp.Custom = make(map[string]int, len(s.Custom))
	for k, v := range s.Custom {
		cp.Custom[k] = v
	}
	return &cp
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
