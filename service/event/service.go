// Package event publishes routing lifecycle notifications onto an in-memory
// queue so that embedding applications can observe turns and specialist
// outcomes without hooking into the engine itself. Publishing never blocks a
// route call: when the queue is full the event is dropped.
package event

import (
	"time"

	"github.com/jlord31/autonomous-agents/internal/clock"
	"github.com/jlord31/autonomous-agents/internal/idgen"
	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/service/messaging"
	"github.com/jlord31/autonomous-agents/service/messaging/memory"
)

// Kind discriminates event payloads.
type Kind string

const (
	// KindTurn is emitted for every turn appended to the main log.
	KindTurn Kind = "turn"
	// KindOutcome is emitted for every specialist outcome collected.
	KindOutcome Kind = "outcome"
	// KindResponse is emitted once per route call with the final answer.
	KindResponse Kind = "response"
)

// Event is one routing lifecycle notification.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	SessionID string    `json:"sessionId"`
	Agent     string    `json:"agent,omitempty"`
	Text      string    `json:"text,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

// Service fans routing events out to subscribers. A nil *Service is a valid
// no-op publisher.
type Service struct {
	queue *memory.Queue[Event]
}

// New creates an event service with the given queue buffer; zero or negative
// uses the queue default.
func New(buffer int) *Service {
	config := memory.DefaultConfig()
	if buffer > 0 {
		config.QueueBuffer = buffer
	}
	return &Service{queue: memory.NewQueue[Event](config)}
}

// Queue exposes the underlying queue for consumers.
func (s *Service) Queue() messaging.Queue[Event] {
	if s == nil {
		return nil
	}
	return s.queue
}

// PublishTurn emits a main-log turn notification.
func (s *Service) PublishTurn(sessionID string, turn *model.Turn) {
	if s == nil || turn == nil {
		return
	}
	s.publish(Event{Kind: KindTurn, SessionID: sessionID, Agent: string(turn.Role), Text: turn.Text})
}

// PublishOutcome emits a specialist outcome notification.
func (s *Service) PublishOutcome(sessionID string, outcome *model.Outcome) {
	if s == nil || outcome == nil {
		return
	}
	s.publish(Event{
		Kind:      KindOutcome,
		SessionID: sessionID,
		Agent:     outcome.Agent,
		Text:      outcome.Response,
		Error:     outcome.Error,
	})
}

// PublishResponse emits the final answer notification.
func (s *Service) PublishResponse(sessionID string, response *model.Response) {
	if s == nil || response == nil {
		return
	}
	s.publish(Event{
		Kind:      KindResponse,
		SessionID: sessionID,
		Agent:     response.Metadata.Source,
		Text:      response.Output,
	})
}

func (s *Service) publish(event Event) {
	event.ID = idgen.New()
	event.At = clock.Now()
	s.queue.TryPublish(&event)
}
