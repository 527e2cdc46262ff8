package command

import "testing"

func enabledSettings() Settings {
	return Settings{ScreamsEnabled: true, MaxIncrement: DefaultMaxIncrement}
}

func TestApplyIncrement(t *testing.T) {
	state := NewState("b1")
	state.Deaths = 3

	if !Apply(ActionIncrement, []string{MetricDeaths}, 2, state, enabledSettings()) {
		t.Fatal("expected change")
	}
	if state.Deaths != 5 {
		t.Errorf("deaths = %d, want 5", state.Deaths)
	}
}

func TestApplyDecrementFloorsAtZero(t *testing.T) {
	state := NewState("b1")
	state.Swears = 2

	if !Apply(ActionDecrement, []string{MetricSwears}, 10, state, enabledSettings()) {
		t.Fatal("expected change")
	}
	if state.Swears != 0 {
		t.Errorf("swears = %d, want 0", state.Swears)
	}
	// Already at the floor: nothing changes.
	if Apply(ActionDecrement, []string{MetricSwears}, 1, state, enabledSettings()) {
		t.Error("decrement at zero should report no change")
	}
}

func TestApplyScreamsDisabled(t *testing.T) {
	s := enabledSettings()
	s.ScreamsEnabled = false
	state := NewState("b1")
	state.Screams = 7

	if Apply(ActionIncrement, []string{MetricScreams}, 1, state, s) {
		t.Error("disabled screams should report no change")
	}
	if state.Screams != 7 {
		t.Errorf("screams = %d, want untouched 7", state.Screams)
	}
}

func TestApplyResetDefaults(t *testing.T) {
	state := NewState("b1")
	state.Deaths = 4
	state.Swears = 9
	state.Screams = 2
	state.Bits = 1500
	state.Custom["enemy-kills"] = 42

	if !Apply(ActionReset, nil, 0, state, enabledSettings()) {
		t.Fatal("expected change")
	}
	if state.Deaths != 0 || state.Swears != 0 || state.Screams != 0 {
		t.Errorf("session counters not zeroed: %+v", state)
	}
	if state.Bits != 1500 {
		t.Errorf("bits = %d, reset without targets must not touch bits", state.Bits)
	}
	if state.Custom["enemy-kills"] != 42 {
		t.Errorf("custom = %d, reset without targets must not touch custom counters", state.Custom["enemy-kills"])
	}
}

func TestApplyResetExplicitTargets(t *testing.T) {
	state := NewState("b1")
	state.Bits = 300
	state.Custom["enemy-kills"] = 5

	if !Apply(ActionReset, []string{MetricBits, "enemy-kills"}, 0, state, enabledSettings()) {
		t.Fatal("expected change")
	}
	if state.Bits != 0 || state.Custom["enemy-kills"] != 0 {
		t.Errorf("explicit targets not zeroed: %+v", state)
	}
}

func TestApplyCustomCreatedOnFirstTouch(t *testing.T) {
	state := &State{BroadcasterID: "b1"}

	if !Apply(ActionIncrement, []string{"enemy-kills"}, 3, state, enabledSettings()) {
		t.Fatal("expected change")
	}
	if state.Custom["enemy-kills"] != 3 {
		t.Errorf("custom = %d, want 3", state.Custom["enemy-kills"])
	}

	// Decrementing a brand-new counter floors it at zero without change.
	if Apply(ActionDecrement, []string{"other"}, 5, state, enabledSettings()) {
		t.Error("decrement below zero should report no change")
	}
	if v, ok := state.Custom["other"]; !ok || v != 0 {
		t.Errorf("counter should exist at zero after first touch, got %d (present=%v)", v, ok)
	}
}

func TestApplyTargetNamesAreCaseInsensitive(t *testing.T) {
	state := NewState("b1")
	if !Apply(ActionIncrement, []string{"Deaths"}, 1, state, enabledSettings()) {
		t.Fatal("expected change")
	}
	if state.Deaths != 1 {
		t.Errorf("deaths = %d, want 1", state.Deaths)
	}
}

func TestApplyNoneAction(t *testing.T) {
	state := NewState("b1")
	if Apply(ActionNone, []string{MetricDeaths}, 5, state, enabledSettings()) {
		t.Error("display action must not mutate")
	}
}
