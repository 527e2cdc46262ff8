package command

import (
	"strings"
	"time"
)

// Action is what a resolved command does to counter state.
type Action int

const (
	ActionNone Action = iota
	ActionIncrement
	ActionDecrement
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionIncrement:
		return "increment"
	case ActionDecrement:
		return "decrement"
	case ActionReset:
		return "reset"
	default:
		return "none"
	}
}

// ParseAction maps a stored action name back to its Action. Unknown
// names map to ActionNone so a bad row degrades to a display command
// instead of mutating something unintended.
func ParseAction(s string) Action {
	switch strings.ToLower(s) {
	case "increment":
		return ActionIncrement
	case "decrement":
		return ActionDecrement
	case "reset":
		return ActionReset
	default:
		return ActionNone
	}
}

// Tier is the minimum chat role required to invoke a command.
type Tier string

const (
	TierEveryone    Tier = "everyone"
	TierSubscriber  Tier = "subscriber"
	TierModerator   Tier = "moderator"
	TierBroadcaster Tier = "broadcaster"
)

// Definition describes a single chat command once resolved for a message.
// Overrides from the broadcaster config table use the same shape as the
// built-in defaults.
type Definition struct {
	// Key is the canonical base form of the command ("!death+"). Aliases
	// carry the key of the command they alias so that every variant
	// rate-limits against the same cooldown entry. Empty means the
	// matched token itself is canonical.
	Key string
	// Template is the response text for display commands; `{{token}}`
	// placeholders are substituted against current counter values.
	Template        string
	Action          Action
	Targets         []string
	Tier            Tier
	CooldownSeconds int
	Enabled         bool
}

// Built-in counter metric names. Anything else in a target list is a
// custom counter id.
const (
	MetricDeaths  = "deaths"
	MetricSwears  = "swears"
	MetricScreams = "screams"
	MetricBits    = "bits"
)

// State holds all counter values for one broadcaster. Values never go
// below zero.
type State struct {
	BroadcasterID string
	Deaths        int
	Swears        int
	Screams       int
	Bits          int
	Custom        map[string]int
}

// NewState returns an empty state for a broadcaster.
func NewState(broadcasterID string) *State {
	return &State{BroadcasterID: broadcasterID, Custom: make(map[string]int)}
}

// Value returns the current value for a metric, built-in or custom.
func (s *State) Value(metric string) int {
	switch strings.ToLower(metric) {
	case MetricDeaths:
		return s.Deaths
	case MetricSwears:
		return s.Swears
	case MetricScreams:
		return s.Screams
	case MetricBits:
		return s.Bits
	default:
		return s.Custom[strings.ToLower(metric)]
	}
}

// CustomCounter is a broadcaster-defined counter with optional chat
// triggers (aliases and long forms) beyond its canonical `!<id>` form.
type CustomCounter struct {
	ID          string
	DisplayName string
	Icon        string
	IncrementBy int
	DecrementBy int
	// Milestones are ascending threshold values; not necessarily
	// contiguous or evenly spaced.
	Milestones []int
	// Triggers are normalized long-form/alias command strings
	// (leading '!', trailing '+'/'-' stripped, lowercase).
	Triggers []string
}

// Settings holds per-broadcaster engine knobs.
type Settings struct {
	BroadcasterID  string
	ScreamsEnabled bool
	// MaxIncrement caps the effective amount of a single mutating
	// command.
	MaxIncrement int
	// Milestones maps a built-in metric name to its ascending
	// thresholds.
	Milestones map[string][]int
}

// Message is an incoming chat line with the caller's roles already
// extracted from IRC badges.
type Message struct {
	BroadcasterID string
	UserID        string
	Username      string
	Text          string
	IsBroadcaster bool
	IsModerator   bool
	IsSubscriber  bool
}

// MilestoneEvent is emitted once per threshold crossed by a mutation.
type MilestoneEvent struct {
	ID            string    `json:"id"`
	BroadcasterID string    `json:"broadcaster_id"`
	Metric        string    `json:"metric"`
	Threshold     int       `json:"threshold"`
	Value         int       `json:"value"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// CounterUpdateEvent is emitted once per mutating command that changed
// state.
type CounterUpdateEvent struct {
	ID            string    `json:"id"`
	BroadcasterID string    `json:"broadcaster_id"`
	State         State     `json:"state"`
	OccurredAt    time.Time `json:"occurred_at"`
}
