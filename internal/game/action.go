package game

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned when parsing an action name fails.
var ErrUnknownAction = errors.New("unknown action")

// Rotation is a rotation direction.
type Rotation int

const (
	Clockwise Rotation = iota
	CounterClockwise
)

func (r Rotation) String() string {
	if r == CounterClockwise {
		return "ccw"
	}
	return "cw"
}

// Action is one of the fixed player inputs accepted by Engine.Apply.
type Action int

const (
	ActionLeft Action = iota
	ActionRight
	ActionDown
	ActionHardDrop
	ActionRotateCW
	ActionRotateCCW
	ActionHold
	ActionPause
)

var actionNames = [...]string{
	ActionLeft:      "left",
	ActionRight:     "right",
	ActionDown:      "down",
	ActionHardDrop:  "hardDrop",
	ActionRotateCW:  "rotCW",
	ActionRotateCCW: "rotCCW",
	ActionHold:      "hold",
	ActionPause:     "pause",
}

// Actions lists every action.
var Actions = [...]Action{
	ActionLeft, ActionRight, ActionDown, ActionHardDrop,
	ActionRotateCW, ActionRotateCCW, ActionHold, ActionPause,
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction maps an action name to its Action.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("action %q: %w", name, ErrUnknownAction)
}

func (a Action) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(actionNames) {
		return nil, fmt.Errorf("action %d: %w", int(a), ErrUnknownAction)
	}
	return []byte(actionNames[a]), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
