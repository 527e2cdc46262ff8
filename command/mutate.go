package command

import "strings"

// Apply mutates counter state in place and reports whether any target's
// value actually changed. Values are floored at zero. The screams metric
// is skipped (not an error) when the broadcaster has it disabled.
func Apply(action Action, targets []string, amount int, state *State, settings Settings) bool {
	switch action {
	case ActionReset:
		return applyReset(targets, state, settings)
	case ActionIncrement:
		return applyDelta(targets, amount, state, settings)
	case ActionDecrement:
		return applyDelta(targets, -amount, state, settings)
	default:
		return false
	}
}

// applyReset with no explicit targets zeroes the three built-in session
// counters and leaves bits and custom counters alone.
func applyReset(targets []string, state *State, settings Settings) bool {
	if len(targets) == 0 {
		targets = []string{MetricDeaths, MetricSwears, MetricScreams}
	}
	changed := false
	for _, target := range targets {
		name := strings.ToLower(target)
		switch name {
		case MetricDeaths:
			changed = setField(&state.Deaths, 0) || changed
		case MetricSwears:
			changed = setField(&state.Swears, 0) || changed
		case MetricScreams:
			if !settings.ScreamsEnabled {
				continue
			}
			changed = setField(&state.Screams, 0) || changed
		case MetricBits:
			changed = setField(&state.Bits, 0) || changed
		default:
			if state.Custom[name] != 0 {
				state.Custom[name] = 0
				changed = true
			}
		}
	}
	return changed
}

func applyDelta(targets []string, delta int, state *State, settings Settings) bool {
	changed := false
	for _, target := range targets {
		name := strings.ToLower(target)
		switch name {
		case MetricDeaths:
			changed = setField(&state.Deaths, floor(state.Deaths+delta)) || changed
		case MetricSwears:
			changed = setField(&state.Swears, floor(state.Swears+delta)) || changed
		case MetricScreams:
			if !settings.ScreamsEnabled {
				continue
			}
			changed = setField(&state.Screams, floor(state.Screams+delta)) || changed
		case MetricBits:
			changed = setField(&state.Bits, floor(state.Bits+delta)) || changed
		default:
			// Unknown names are custom counters, created at zero on
			// first touch.
			if state.Custom == nil {
				state.Custom = make(map[string]int)
			}
			next := floor(state.Custom[name] + delta)
			if next != state.Custom[name] {
				state.Custom[name] = next
				changed = true
			} else if _, ok := state.Custom[name]; !ok {
				state.Custom[name] = next
			}
		}
	}
	return changed
}

func setField(field *int, v int) bool {
	if *field == v {
		return false
	}
	*field = v
	return true
}

func floor(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
