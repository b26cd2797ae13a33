package tui

import (
	"fmt"

	"github.com/hersh/blockfall/internal/game"
)

const maxCues = 4

var clearCues = map[int]string{
	1: "single",
	2: "double",
	3: "triple",
	4: "QUAD!",
}

// cueFor maps an engine event to a short label. Spawns and hold swaps have
// no cue of their own; a swap is always followed by a hold event.
func cueFor(ev game.Event) (string, bool) {
	switch ev.Kind {
	case game.EventMove:
		return "tick", true
	case game.EventRotate:
		return "whirr", true
	case game.EventHold:
		return "hold", true
	case game.EventSoftDrop:
		return "tap", true
	case game.EventHardDrop:
		return fmt.Sprintf("thud x%d", ev.Distance), true
	case game.EventLock:
		return "clack", true
	case game.EventClear:
		label, ok := clearCues[ev.Lines]
		if !ok {
			label = fmt.Sprintf("%d lines", ev.Lines)
		}
		if ev.Combo > 0 {
			label += fmt.Sprintf(" combo %d", ev.Combo)
		}
		return label, true
	case game.EventGameOver:
		return "game over", true
	case game.EventPause:
		return "pause", true
	case game.EventResume:
		return "resume", true
	}
	return "", false
}

// cueFeed keeps the latest cues. The model holds it by pointer so the engine
// sink and every model copy share one feed.
type cueFeed struct {
	recent []string
	muted  bool
}

func (f *cueFeed) push(ev game.Event) {
	if f.muted {
		return
	}
	label, ok := cueFor(ev)
	if !ok {
		return
	}
	f.recent = append(f.recent, label)
	if len(f.recent) > maxCues {
		f.recent = f.recent[len(f.recent)-maxCues:]
	}
}

func (f *cueFeed) toggleMute() {
	f.muted = !f.muted
	f.recent = nil
}
