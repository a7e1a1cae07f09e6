package ecs

// Event is a gameplay event payload.
type Event struct {
	Type EventType
	Data any
}

// EventType identifies gameplay events.
type EventType string

const (
	EventSound         EventType = "sound"
	EventKeyCollected  EventType = "key_collected"
	EventDoorOpened    EventType = "door_opened"
	EventDoorLocked    EventType = "door_locked"
	EventPlayerJoined  EventType = "player_joined"
	EventPlayerDied    EventType = "player_died"
	EventPlayerRevived EventType = "player_revived"
	EventEnemyKilled   EventType = "enemy_killed"
	EventOutcome       EventType = "outcome"
)

// SoundEvent asks the audio system to play a one-shot clip.
type SoundEvent struct {
	Name   string
	Volume float64
}

// EntityEvent names the entity an event is about.
type EntityEvent struct {
	Entity Entity
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// PlaySound queues a one-shot sound at the given volume.
func (q *EventQueue) PlaySound(name string, volume float64) {
	q.Push(Event{Type: EventSound, Data: SoundEvent{Name: name, Volume: volume}})
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
