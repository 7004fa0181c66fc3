package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sprintertech/sprinter-bridge/transfer"
)

type Type string

const (
	Started           Type = "started"
	Stopped           Type = "stopped"
	TransferInitiated Type = "transferInitiated"
	TransferValidated Type = "transferValidated"
	TransferRelayed   Type = "transferRelayed"
	TransferFailed    Type = "transferFailed"
	TransferCompleted Type = "transferCompleted"
	HealthCheck       Type = "healthCheck"
	Warning           Type = "warning"
)

const DEFAULT_BUFFER_SIZE = 64

// HealthSnapshot describes the coordinator at the moment of a health check
type HealthSnapshot struct {
	Running         bool      `json:"running"`
	ActiveTransfers uint64    `json:"activeTransfers"`
	QueueDepth      int       `json:"queueDepth"`
	Validators      int       `json:"validators"`
	Relayers        int       `json:"relayers"`
	Timestamp       time.Time `json:"timestamp"`
}

type Event struct {
	Type      Type               `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
	Transfer  *transfer.Transfer `json:"transfer,omitempty"`
	Health    *HealthSnapshot    `json:"health,omitempty"`
	Message   string             `json:"message,omitempty"`
}

type Subscription struct {
	id uint64
	ch chan Event
}

// C returns the channel events are delivered on. It is closed on unsubscribe.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Emitter fans events out to subscribers. Publishing never blocks: when a
// subscriber buffer is full its oldest pending event is dropped.
type Emitter struct {
	lock        sync.Mutex
	nextID      uint64
	subscribers map[uint64]chan Event
	dropped     uint64
}

func NewEmitter() *Emitter {
	return &Emitter{
		subscribers: make(map[uint64]chan Event),
	}
}

func (e *Emitter) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = DEFAULT_BUFFER_SIZE
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	e.nextID++
	sub := &Subscription{
		id: e.nextID,
		ch: make(chan Event, buffer),
	}
	e.subscribers[sub.id] = sub.ch
	return sub
}

func (e *Emitter) Unsubscribe(sub *Subscription) {
	e.lock.Lock()
	defer e.lock.Unlock()

	ch, ok := e.subscribers[sub.id]
	if !ok {
		return
	}
	delete(e.subscribers, sub.id)
	close(ch)
}

func (e *Emitter) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Transfer != nil {
		event.Transfer = event.Transfer.Clone()
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	for _, ch := range e.subscribers {
		e.deliver(ch, event)
	}
}

// Dropped returns the number of events discarded because a subscriber was full
func (e *Emitter) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Emitter) deliver(ch chan Event, event Event) {
	for {
		select {
		case ch <- event:
			return
		default:
		}

		select {
		case <-ch:
			atomic.AddUint64(&e.dropped, 1)
		default:
		}
	}
}
