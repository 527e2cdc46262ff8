package command

// Built-in command table. Keys are the full first-token form, lowercase.
// Broadcaster overrides with the same key shadow these.
//
// Mutating forms share a cooldown key with their amount-suffixed variants
// (!sw+5 rate-limits against !sw+), and short aliases share it with the
// long form they alias via Definition.Key.
var builtinDefaults = map[string]Definition{
	// Deaths
	"!death+": {Action: ActionIncrement, Targets: []string{MetricDeaths}, Tier: TierModerator, CooldownSeconds: 5, Enabled: true,
		Template: "{{streamer}} has died {{deaths}} times"},
	"!d+": {Key: "!death+", Action: ActionIncrement, Targets: []string{MetricDeaths}, Tier: TierModerator, CooldownSeconds: 5, Enabled: true,
		Template: "{{streamer}} has died {{deaths}} times"},
	"!death-": {Action: ActionDecrement, Targets: []string{MetricDeaths}, Tier: TierModerator, CooldownSeconds: 5, Enabled: true},
	"!d-":     {Key: "!death-", Action: ActionDecrement, Targets: []string{MetricDeaths}, Tier: TierModerator, CooldownSeconds: 5, Enabled: true},
	"!deaths": {Tier: TierEveryone, CooldownSeconds: 15, Enabled: true,
		Template: "{{streamer}} has died {{deaths}} times"},

	// Swears
	"!swear+": {Action: ActionIncrement, Targets: []string{MetricSwears}, Tier: TierModerator, CooldownSeconds: 5, Enabled: true,
		Template: "the swear jar is up to {{swears}}"},
	"!sw+": {Key: "!swear+", Action: ActionIncrement, Targets: []string{MetricSwears}, Tier: TierModerator, CooldownSeconds: 5, Enabled: true,
		Template: "the swear jar is up to {{swears}}"},
	"!swear-": {Action: ActionDecrement, Targets: []string{MetricSwears}, Tier: TierModerator, CooldownSeconds: 5, Enabled: true},
	"!sw-":    {Key: "!swear-", Action: ActionDecrement, Targets: []string{MetricSwears}, Tier: TierModerator, CooldownSeconds: 5, Enabled: true},
	"!swears": {Tier: TierEveryone, CooldownSeconds: 15, Enabled: true,
		Template: "the swear jar is up to {{swears}}"},

	// Screams (feature-flagged per broadcaster at mutation time)
	"!scream+": {Action: ActionIncrement, Targets: []string{MetricScreams}, Tier: TierModerator, CooldownSeconds: 5, Enabled: true,
		Template: "{{streamer}} has screamed {{screams}} times"},
	"!scream-": {Action: ActionDecrement, Targets: []string{MetricScreams}, Tier: TierModerator, CooldownSeconds: 5, Enabled: true},
	"!screams": {Tier: TierEveryone, CooldownSeconds: 15, Enabled: true,
		Template: "{{streamer}} has screamed {{screams}} times"},

	// Bits
	"!bits+": {Action: ActionIncrement, Targets: []string{MetricBits}, Tier: TierBroadcaster, CooldownSeconds: 0, Enabled: true},
	"!bits": {Tier: TierEveryone, CooldownSeconds: 15, Enabled: true,
		Template: "{{bits}} bits cheered so far"},

	// Counts summary and reset
	"!counts": {Tier: TierEveryone, CooldownSeconds: 15, Enabled: true,
		Template: "deaths: {{deaths}} | swears: {{swears}} | screams: {{screams}}"},
	"!resetcounts": {Action: ActionReset, Tier: TierBroadcaster, CooldownSeconds: 0, Enabled: true,
		Template: "counters reset"},
}

// Defaults returns a copy of the built-in command table.
func Defaults() map[string]Definition {
	out := make(map[string]Definition, len(builtinDefaults))
	for k, v := range builtinDefaults {
		out[k] = v
	}
	return out
}
