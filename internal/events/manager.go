package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType labels an application event
type EventType string

const (
	GoalCreated         EventType = "GOAL_CREATED"
	GoalUpdated         EventType = "GOAL_UPDATED"
	GoalDeleted         EventType = "GOAL_DELETED"
	TradeRecorded       EventType = "TRADE_RECORDED"
	PricesRefreshed     EventType = "PRICES_REFRESHED"
	SnapshotWritten     EventType = "SNAPSHOT_WRITTEN"
	SimulationRun       EventType = "SIMULATION_RUN"
	AssessmentCompleted EventType = "ASSESSMENT_COMPLETED"
	ErrorOccurred       EventType = "ERROR_OCCURRED"
)

// Event is one entry of the activity feed
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Module    string                 `json:"module"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Manager logs events and keeps a bounded in-memory feed of the most
// recent ones for the system endpoint. Oldest entries are dropped once
// the buffer is full.
type Manager struct {
	mu     sync.Mutex
	recent []Event
	limit  int
	log    zerolog.Logger
}

// NewManager creates a new event manager keeping up to limit entries
func NewManager(limit int, log zerolog.Logger) *Manager {
	if limit <= 0 {
		limit = 100
	}
	return &Manager{
		limit: limit,
		log:   log.With().Str("service", "events").Logger(),
	}
}

// Emit records an event
func (m *Manager) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Module:    module,
		Data:      data,
	}

	m.mu.Lock()
	m.recent = append(m.recent, event)
	if len(m.recent) > m.limit {
		m.recent = m.recent[len(m.recent)-m.limit:]
	}
	m.mu.Unlock()

	m.log.Info().
		Str("event_type", string(eventType)).
		Str("module", module).
		Fields(data).
		Msg("Event emitted")
}

// EmitError records an error event
func (m *Manager) EmitError(module string, err error, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["error"] = err.Error()
	m.Emit(ErrorOccurred, module, data)
}

// Recent returns the buffered events, newest first
func (m *Manager) Recent() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Event, len(m.recent))
	for i, e := range m.recent {
		out[len(m.recent)-1-i] = e
	}
	return out
}
