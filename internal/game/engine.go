package game

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// QueueSize is the number of upcoming pieces kept in the preview queue.
const QueueSize = 5

type Status int

const (
	StatusRunning Status = iota
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "gameOver"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Config configures a new Engine. The zero value is usable.
type Config struct {
	// OnEvent receives every event in emission order. Nil discards them.
	OnEvent EventSink
	// Rand drives the default 7-bag. Nil means a non-deterministic source.
	Rand *rand.Rand
	// Source replaces the 7-bag entirely when set.
	Source PieceSource
}

// Engine owns one game session: board, active piece, hold slot, preview
// queue, counters and timers. It is not safe for concurrent use; callers
// serialize Tick and the action methods.
type Engine struct {
	emit   EventSink
	source PieceSource

	board     *Board
	active    Piece
	hasActive bool
	queue     []PieceType

	hold    PieceType
	hasHold bool
	canHold bool

	score int
	lines int
	level int
	combo int

	status Status

	dropTimer time.Duration
	lockTimer time.Duration
}

// New creates an engine and starts a game with the first piece spawned.
func New(cfg Config) *Engine {
	e := &Engine{
		emit:   cfg.OnEvent,
		source: cfg.Source,
	}
	if e.emit == nil {
		e.emit = func(Event) {}
	}
	if e.source == nil {
		e.source = NewBag(cfg.Rand)
	}
	e.Reset()
	return e
}

// NewSeeded creates an engine whose piece sequence is determined by seed.
func NewSeeded(seed uint64, sink EventSink) *Engine {
	return New(Config{OnEvent: sink, Source: NewSeededBag(seed)})
}

// Reset discards the current game and starts a new one. The piece source
// carries on from where it was.
func (e *Engine) Reset() {
	e.board = NewBoard()
	e.hasActive = false
	e.hasHold = false
	e.canHold = true
	e.score = 0
	e.lines = 0
	e.level = 1
	e.combo = -1
	e.status = StatusRunning
	e.dropTimer = 0
	e.lockTimer = 0

	e.queue = e.queue[:0]
	for len(e.queue) < QueueSize {
		e.queue = append(e.queue, e.source.Next())
	}
	e.spawnNext()
}

func (e *Engine) running() bool {
	return e.status == StatusRunning && e.hasActive
}

// place makes p the active piece. A piece that collides where it is placed
// ends the game.
func (e *Engine) place(p Piece) bool {
	e.active = p
	e.hasActive = true
	e.dropTimer = 0
	e.lockTimer = 0
	if e.board.Collides(p) {
		e.status = StatusGameOver
		e.emit(Event{Kind: EventGameOver})
		return false
	}
	return true
}

func (e *Engine) spawnNext() {
	t := e.queue[0]
	e.queue = append(e.queue[1:], e.source.Next())
	e.canHold = true
	if e.place(NewPiece(t)) {
		e.emit(Event{Kind: EventSpawn})
	}
}

// TryMove shifts the active piece by (dx, dy). Only horizontal motion emits
// a move event.
func (e *Engine) TryMove(dx, dy int) bool {
	if !e.running() {
		return false
	}
	target := e.active.moved(dx, dy)
	if e.board.Collides(target) {
		return false
	}
	e.active = target
	e.lockTimer = 0
	if dx != 0 {
		e.emit(Event{Kind: EventMove})
	}
	return true
}

// TryRotate rotates the active piece, committing the first kick candidate
// that fits. When none fits the piece is left untouched.
func (e *Engine) TryRotate(dir Rotation) bool {
	if !e.running() {
		return false
	}
	from := e.active.Rotation
	to := (from + 1) % 4
	if dir == CounterClockwise {
		to = (from + 3) % 4
	}
	for _, k := range Kicks(e.active.Type, from, to) {
		target := Piece{
			Type:     e.active.Type,
			Rotation: to,
			X:        e.active.X + k.X,
			Y:        e.active.Y + k.Y,
		}
		if e.board.Collides(target) {
			continue
		}
		e.active = target
		e.lockTimer = 0
		e.emit(Event{Kind: EventRotate})
		return true
	}
	return false
}

// Hold banks the active piece. With an empty slot the next queued piece
// spawns; otherwise the held piece swaps in at the spawn position. Allowed
// once per spawned piece.
func (e *Engine) Hold() bool {
	if !e.running() || !e.canHold {
		return false
	}
	current := e.active.Type
	if !e.hasHold {
		e.hold = current
		e.hasHold = true
		e.spawnNext()
	} else {
		held := e.hold
		e.hold = current
		if e.place(NewPiece(held)) {
			e.emit(Event{Kind: EventHoldSwap})
		}
	}
	e.canHold = false
	e.emit(Event{Kind: EventHold})
	return true
}

// SoftDropStep moves the active piece down one row for one point. A grounded
// piece is left to the lock delay.
func (e *Engine) SoftDropStep() bool {
	if !e.TryMove(0, 1) {
		return false
	}
	e.score += SoftDropPoints
	e.emit(Event{Kind: EventSoftDrop})
	return true
}

// HardDrop drops the active piece to its ghost row, awards two points per row
// and locks it. It returns the distance travelled.
func (e *Engine) HardDrop() int {
	if !e.running() {
		return 0
	}
	ghost := e.ghostY()
	distance := ghost - e.active.Y
	e.active.Y = ghost
	if distance > 0 {
		e.score += distance * HardDropPoints
		e.emit(Event{Kind: EventHardDrop, Distance: distance})
	}
	e.lock()
	return distance
}

func (e *Engine) ghostY() int {
	y := e.active.Y
	for !e.board.Collides(e.active.moved(0, y-e.active.Y+1)) {
		y++
	}
	return y
}

func (e *Engine) grounded() bool {
	return e.board.Collides(e.active.moved(0, 1))
}

func (e *Engine) lock() {
	e.board.Merge(e.active)
	e.emit(Event{Kind: EventLock})
	e.clearLines()
	e.spawnNext()
}

func (e *Engine) clearLines() {
	cleared := e.board.ClearFullLines()
	if cleared == 0 {
		e.combo = -1
		return
	}
	e.combo++
	e.score += ClearAward(cleared, e.level, e.combo)
	e.lines += cleared
	e.level = max(e.level, LevelForLines(e.lines))
	e.emit(Event{Kind: EventClear, Lines: cleared, Combo: e.combo})
}

// Tick advances gravity and the lock delay by delta.
func (e *Engine) Tick(delta time.Duration) {
	if !e.running() || delta < 0 {
		return
	}
	interval := e.FallInterval()
	e.dropTimer += delta
	for e.dropTimer >= interval {
		e.dropTimer -= interval
		if !e.TryMove(0, 1) {
			break
		}
	}

	if !e.grounded() {
		e.lockTimer = 0
		return
	}
	e.lockTimer += delta
	if e.lockTimer >= LockDelay {
		e.lock()
	}
}

// SetPaused pauses or resumes the game and reports whether the status
// changed. A finished game cannot be paused.
func (e *Engine) SetPaused(paused bool) bool {
	if e.status == StatusGameOver {
		return false
	}
	if paused == (e.status == StatusPaused) {
		return false
	}
	if paused {
		e.status = StatusPaused
		e.emit(Event{Kind: EventPause})
	} else {
		e.status = StatusRunning
		e.emit(Event{Kind: EventResume})
	}
	return true
}

func (e *Engine) TogglePaused() bool {
	return e.SetPaused(e.status != StatusPaused)
}

// Apply performs a player action and reports whether it changed anything.
func (e *Engine) Apply(a Action) bool {
	switch a {
	case ActionLeft:
		return e.TryMove(-1, 0)
	case ActionRight:
		return e.TryMove(1, 0)
	case ActionDown:
		return e.SoftDropStep()
	case ActionHardDrop:
		if !e.running() {
			return false
		}
		e.HardDrop()
		return true
	case ActionRotateCW:
		return e.TryRotate(Clockwise)
	case ActionRotateCCW:
		return e.TryRotate(CounterClockwise)
	case ActionHold:
		return e.Hold()
	case ActionPause:
		return e.TogglePaused()
	}
	return false
}

func (e *Engine) Status() Status { return e.status }
func (e *Engine) Score() int     { return e.score }
func (e *Engine) Level() int     { return e.level }
func (e *Engine) Lines() int     { return e.lines }
func (e *Engine) Combo() int     { return e.combo }

// FallInterval is the gravity period at the current level.
func (e *Engine) FallInterval() time.Duration {
	return FallInterval(e.level)
}

// Active returns the active piece, if any.
func (e *Engine) Active() (Piece, bool) {
	return e.active, e.hasActive
}

// Ghost returns where the active piece would land on a hard drop.
func (e *Engine) Ghost() (Piece, bool) {
	if !e.hasActive {
		return Piece{}, false
	}
	g := e.active
	g.Y = e.ghostY()
	return g, true
}
