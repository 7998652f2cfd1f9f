package core

// Event represents a game event
type Event struct {
	Type    EventType
	Tick    uint64
	Payload any
}

type EventType uint16

const (
	EvtGameStart EventType = iota
	EvtEnemySpawned
	EvtEnemyArrived
	EvtEnemyKilled
	EvtEnemyExhausted
	EvtPlacement
	EvtPlacementRejected
	EvtShellLaunched
	EvtExplosion
	EvtWaveStarted
	EvtGameWon
	EvtGameLost
)

func (t EventType) String() string {
	switch t {
	case EvtGameStart:
		return "game-start"
	case EvtEnemySpawned:
		return "enemy-spawned"
	case EvtEnemyArrived:
		return "enemy-arrived"
	case EvtEnemyKilled:
		return "enemy-killed"
	case EvtEnemyExhausted:
		return "enemy-exhausted"
	case EvtPlacement:
		return "placement"
	case EvtPlacementRejected:
		return "placement-rejected"
	case EvtShellLaunched:
		return "shell-launched"
	case EvtExplosion:
		return "explosion"
	case EvtWaveStarted:
		return "wave-started"
	case EvtGameWon:
		return "game-won"
	case EvtGameLost:
		return "game-lost"
	}
	return "unknown"
}

// EventBus dispatches events to listeners
type EventBus struct {
	listeners map[EventType][]EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// Emit queues an event for dispatch
func (eb *EventBus) Emit(e Event) {
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int { return len(eb.queue) }

// Dispatch processes all queued events. Events emitted by handlers are
// delivered in the same call.
func (eb *EventBus) Dispatch() {
	for i := 0; i < len(eb.queue); i++ {
		e := eb.queue[i]
		for _, h := range eb.listeners[e.Type] {
			h(e)
		}
	}
	eb.queue = eb.queue[:0]
}
