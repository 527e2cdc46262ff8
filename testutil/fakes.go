package testutil

import (
	"context"
	"sync"

	"github.com/onnwee/chat-tally/command"
)

// MemoryCounters is an in-memory command.CounterRepository.
type MemoryCounters struct {
	mu     sync.Mutex
	states map[string]*command.State
	// SaveErr, when set, makes Save fail to exercise persistence-failure
	// paths.
	SaveErr error
	Saves   int
}

func NewMemoryCounters() *MemoryCounters {
	return &MemoryCounters{states: make(map[string]*command.State)}
}

func (m *MemoryCounters) Get(ctx context.Context, broadcasterID string) (*command.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[broadcasterID]
	if !ok {
		return command.NewState(broadcasterID), nil
	}
	cp := *s
	cp.Custom = make(map[string]int, len(s.Custom))
	for k, v := range s.Custom {
		cp.Custom[k] = v
	}
	return &cp, nil
}

func (m *MemoryCounters) Save(ctx context.Context, state *command.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	cp := *state
	cp.Custom = make(map[string]int, len(state.Custom))
	for k, v := range state.Custom {
		cp.Custom[k] = v
	}
	m.states[state.BroadcasterID] = &cp
	m.Saves++
	return nil
}

// Seed installs a state directly.
func (m *MemoryCounters) Seed(state *command.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.BroadcasterID] = state
}

// StaticConfig is an in-memory command.ConfigRepository.
type StaticConfig struct {
	Set       command.Settings
	Overrides map[string]command.Definition
	Custom    map[string]command.CustomCounter
}

func (c *StaticConfig) Settings(ctx context.Context, broadcasterID string) (command.Settings, error) {
	s := c.Set
	if s.Milestones == nil {
		s.Milestones = map[string][]int{}
	}
	return s, nil
}

func (c *StaticConfig) CommandOverrides(ctx context.Context, broadcasterID string) (map[string]command.Definition, error) {
	if c.Overrides == nil {
		return map[string]command.Definition{}, nil
	}
	return c.Overrides, nil
}

func (c *StaticConfig) CustomCounters(ctx context.Context, broadcasterID string) (map[string]command.CustomCounter, error) {
	if c.Custom == nil {
		return map[string]command.CustomCounter{}, nil
	}
	return c.Custom, nil
}

// StaticLibrary is an in-memory command.LibraryRepository.
type StaticLibrary struct {
	ByCounter map[string][]string
}

func (l *StaticLibrary) Triggers(ctx context.Context, counterID string) ([]string, error) {
	if l == nil || l.ByCounter == nil {
		return nil, nil
	}
	return l.ByCounter[counterID], nil
}

// RecordingDispatcher captures dispatched events.
type RecordingDispatcher struct {
	mu         sync.Mutex
	Milestones []command.MilestoneEvent
	Updates    []command.CounterUpdateEvent
}

func (d *RecordingDispatcher) MilestoneReached(ctx context.Context, ev command.MilestoneEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Milestones = append(d.Milestones, ev)
}

func (d *RecordingDispatcher) CountersUpdated(ctx context.Context, ev command.CounterUpdateEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Updates = append(d.Updates, ev)
}

// RecordingSender captures outbound chat lines.
type RecordingSender struct {
	mu    sync.Mutex
	Lines []string
}

func (s *RecordingSender) Say(broadcasterID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lines = append(s.Lines, text)
}

// Sent returns a copy of the captured lines.
func (s *RecordingSender) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Lines...)
}
