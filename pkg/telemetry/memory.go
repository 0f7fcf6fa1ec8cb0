package telemetry

import (
	"slices"
	"sync"
)

// Memory keeps every event in process. Useful for tests and the console.
type Memory struct {
	mu     sync.Mutex
	runID  string
	events []Event
}

// NewMemory returns an empty in-memory recorder.
func NewMemory(runID string) *Memory {
	return &Memory{runID: runID}
}

func (m *Memory) EventStarted(eventID string) {
	m.add(eventStarted(m.runID, eventID))
}

func (m *Memory) EventResolved(eventID, choiceID, outcome string) {
	m.add(eventResolved(m.runID, eventID, choiceID, outcome))
}

func (m *Memory) DungeonCompleted(nodeID string, timeElapsed int) {
	m.add(dungeonCompleted(m.runID, nodeID, timeElapsed))
}

func (m *Memory) add(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Events returns a copy of everything recorded so far.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.events)
}

// Count returns how many events of type t were recorded.
func (m *Memory) Count(t EventType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Type == t {
			n++
		}
	}
	return n
}
