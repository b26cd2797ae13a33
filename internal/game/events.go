package game

import "fmt"

// EventKind identifies what happened inside the engine.
type EventKind int

const (
	EventSpawn EventKind = iota
	EventMove
	EventRotate
	EventHold
	EventHoldSwap
	EventSoftDrop
	EventHardDrop
	EventLock
	EventClear
	EventGameOver
	EventPause
	EventResume
)

var eventNames = [...]string{
	EventSpawn:    "spawn",
	EventMove:     "move",
	EventRotate:   "rotate",
	EventHold:     "hold",
	EventHoldSwap: "holdSwap",
	EventSoftDrop: "softDrop",
	EventHardDrop: "hardDrop",
	EventLock:     "lock",
	EventClear:    "clear",
	EventGameOver: "gameOver",
	EventPause:    "pause",
	EventResume:   "resume",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

func (k EventKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(eventNames) {
		return nil, fmt.Errorf("unknown event kind %d", int(k))
	}
	return []byte(eventNames[k]), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	for i, name := range eventNames {
		if name == string(text) {
			*k = EventKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// Event is emitted synchronously at the state change that causes it.
// Distance is set for EventHardDrop; Lines and Combo for EventClear.
type Event struct {
	Kind     EventKind
	Distance int
	Lines    int
	Combo    int
}

func (e Event) String() string {
	switch e.Kind {
	case EventHardDrop:
		return fmt.Sprintf("hardDrop(%d)", e.Distance)
	case EventClear:
		return fmt.Sprintf("clear(lines=%d combo=%d)", e.Lines, e.Combo)
	}
	return e.Kind.String()
}

// EventSink receives engine events. It is called on the goroutine that drives
// the engine and must not call back into it.
type EventSink func(Event)
