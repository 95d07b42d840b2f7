// Package memory provides a buffered in-process queue with bounded
// redelivery. Rejected messages are re-enqueued after a delay until their
// attempt budget runs out, then parked on a dead letter list for inspection.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jlord31/autonomous-agents/service/messaging"
)

// Config tunes redelivery and buffering.
type Config struct {
	MaxRetries  int
	RetryDelay  time.Duration
	DeadLetter  bool
	QueueBuffer int
}

// DefaultConfig returns the queue defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  100 * time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 100,
	}
}

// Queue is an in-memory messaging.Queue.
type Queue[T any] struct {
	config Config
	buffer chan *Message[T]

	deadMux sync.Mutex
	dead    []*Message[T]
}

var _ messaging.Queue[any] = (*Queue[any])(nil)

// NewQueue creates a queue with the given configuration; a non-positive
// buffer falls back to the default.
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		config: config,
		buffer: make(chan *Message[T], config.QueueBuffer),
	}
}

// Publish enqueues one payload, blocking while the buffer is full.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.buffer <- q.newMessage(t, 0):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPublish enqueues without blocking. It returns false when the buffer is
// full and the payload was dropped.
func (q *Queue[T]) TryPublish(t *T) bool {
	select {
	case q.buffer <- q.newMessage(t, 0):
		return true
	default:
		return false
	}
}

// Consume returns the next message, honouring context cancellation.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.buffer:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of buffered messages.
func (q *Queue[T]) Size() int {
	return len(q.buffer)
}

// DLQSize returns the number of dead-lettered messages.
func (q *Queue[T]) DLQSize() int {
	q.deadMux.Lock()
	defer q.deadMux.Unlock()
	return len(q.dead)
}

func (q *Queue[T]) newMessage(t *T, attempt int) *Message[T] {
	return &Message[T]{
		id:      uuid.New().String(),
		payload: *t,
		queue:   q,
		attempt: attempt,
	}
}

// redeliver re-enqueues a rejected message after the retry delay, parking it
// on the dead letter list once the attempt budget is exhausted.
func (q *Queue[T]) redeliver(m *Message[T]) {
	next := m.attempt + 1
	if next <= q.config.MaxRetries {
		go func() {
			time.Sleep(q.config.RetryDelay)
			q.buffer <- &Message[T]{id: m.id, payload: m.payload, queue: q, attempt: next}
		}()
		return
	}
	if !q.config.DeadLetter {
		return
	}
	q.deadMux.Lock()
	q.dead = append(q.dead, m)
	q.deadMux.Unlock()
}

// Message is one in-flight queue element.
type Message[T any] struct {
	id      string
	payload T
	queue   *Queue[T]
	attempt int

	mux  sync.Mutex
	done bool
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack marks the message as processed. A message can be settled only once.
func (m *Message[T]) Ack() error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.done {
		return fmt.Errorf("message already processed")
	}
	m.done = true
	return nil
}

// Nack rejects the message and schedules its redelivery.
func (m *Message[T]) Nack(err error) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.done {
		return fmt.Errorf("message already processed")
	}
	m.done = true
	m.queue.redeliver(m)
	return nil
}
