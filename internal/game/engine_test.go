package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource cycles through a fixed list of piece types.
type scriptedSource struct {
	seq []PieceType
	i   int
}

func (s *scriptedSource) Next() PieceType {
	t := s.seq[s.i%len(s.seq)]
	s.i++
	return t
}

type recorder struct {
	events []Event
}

func (r *recorder) sink(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []EventKind {
	kinds := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func (r *recorder) reset() {
	r.events = nil
}

func newScripted(rec *recorder, seq ...PieceType) *Engine {
	cfg := Config{Source: &scriptedSource{seq: seq}}
	if rec != nil {
		cfg.OnEvent = rec.sink
	}
	return New(cfg)
}

// fillRow fills row y of b except the listed columns.
func fillRow(b *Board, y int, except ...int) {
	for x := 0; x < b.Width; x++ {
		b.Cells[y][x] = Cell{Filled: true, Type: PieceZ}
	}
	for _, x := range except {
		b.Cells[y][x] = Cell{}
	}
}

// lockAt places p as the active piece and locks it where it is.
func lockAt(e *Engine, p Piece) {
	e.active = p
	e.lock()
}

func TestNewGame(t *testing.T) {
	t.Run("first piece comes from the queue head", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceI, PieceO, PieceT, PieceS, PieceZ)

		active, ok := e.Active()
		require.True(t, ok)
		assert.Equal(t, PieceI, active.Type)
		assert.Equal(t, 0, active.Rotation)
		assert.Equal(t, SpawnX, active.X)
		assert.Equal(t, SpawnY, active.Y)

		snap := e.Snapshot()
		require.Len(t, snap.Queue, QueueSize)
		assert.Equal(t, PieceO, snap.Queue[0])
		assert.Equal(t, StatusRunning, snap.Status)
		assert.Equal(t, 1, snap.Level)
		assert.Equal(t, -1, snap.Combo)
		assert.Nil(t, snap.Hold)
		assert.True(t, snap.CanHold)
		assert.Equal(t, []EventKind{EventSpawn}, rec.kinds())
	})

	t.Run("seeded engines replay the same pieces", func(t *testing.T) {
		a := NewSeeded(7, nil)
		b := NewSeeded(7, nil)
		for i := 0; i < 30; i++ {
			pa, _ := a.Active()
			pb, _ := b.Active()
			require.Equal(t, pa.Type, pb.Type, "piece %d", i)
			a.HardDrop()
			b.HardDrop()
		}
	})

	t.Run("instances do not share state", func(t *testing.T) {
		a := newScripted(nil, PieceO)
		b := newScripted(nil, PieceO)
		a.HardDrop()
		assert.Equal(t, 40, a.Score())
		assert.Equal(t, 0, b.Score())
		assert.False(t, b.Snapshot().Board.Cells[TotalRows-1][4].Filled)
	})
}

func TestTryMove(t *testing.T) {
	rec := &recorder{}
	e := newScripted(rec, PieceT)
	rec.reset()

	assert.True(t, e.TryMove(-1, 0))
	assert.True(t, e.TryMove(0, 1))
	p, _ := e.Active()
	assert.Equal(t, SpawnX-1, p.X)
	assert.Equal(t, SpawnY+1, p.Y)
	assert.Equal(t, []EventKind{EventMove}, rec.kinds(), "vertical moves are silent")

	for e.TryMove(-1, 0) {
	}
	before, _ := e.Active()
	assert.False(t, e.TryMove(-1, 0))
	after, _ := e.Active()
	assert.Equal(t, before, after)
}

func TestTryRotate(t *testing.T) {
	t.Run("rotates in place on an open board", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceT)
		rec.reset()

		require.True(t, e.TryRotate(Clockwise))
		p, _ := e.Active()
		assert.Equal(t, Piece{Type: PieceT, Rotation: 1, X: SpawnX, Y: SpawnY}, p)
		assert.Equal(t, []EventKind{EventRotate}, rec.kinds())

		require.True(t, e.TryRotate(CounterClockwise))
		require.True(t, e.TryRotate(CounterClockwise))
		p, _ = e.Active()
		assert.Equal(t, 3, p.Rotation)
	})

	t.Run("kicks off the left wall", func(t *testing.T) {
		e := newScripted(nil, PieceT)
		require.True(t, e.TryRotate(Clockwise))
		moves := 0
		for e.TryMove(-1, 0) {
			moves++
		}
		require.Equal(t, 4, moves)

		require.True(t, e.TryRotate(Clockwise))
		p, _ := e.Active()
		assert.Equal(t, Piece{Type: PieceT, Rotation: 2, X: 0, Y: SpawnY}, p)
	})

	t.Run("rejected rotation leaves the piece untouched", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceI)
		e.active.Y = 10
		fillExcept(e.board, e.active)
		rec.reset()

		before, _ := e.Active()
		assert.False(t, e.TryRotate(Clockwise))
		assert.False(t, e.TryRotate(CounterClockwise))
		after, _ := e.Active()
		assert.Equal(t, before, after)
		assert.Empty(t, rec.events)
	})
}

func fillExcept(b *Board, p Piece) {
	keep := map[[2]int]bool{}
	p.Cells(func(x, y int) { keep[[2]int{x, y}] = true })
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if !keep[[2]int{x, y}] {
				b.Cells[y][x] = Cell{Filled: true, Type: PieceZ}
			}
		}
	}
}

func TestHardDrop(t *testing.T) {
	t.Run("drops to the ghost row and locks", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceI)
		ghost, ok := e.Ghost()
		require.True(t, ok)
		rec.reset()

		distance := e.HardDrop()
		assert.Equal(t, TotalRows-2, distance)
		assert.Equal(t, ghost.Y-SpawnY, distance)
		assert.Equal(t, distance*HardDropPoints, e.Score())
		for x := SpawnX; x < SpawnX+4; x++ {
			assert.True(t, e.board.Cells[TotalRows-1][x].Filled)
			assert.Equal(t, PieceI, e.board.Cells[TotalRows-1][x].Type)
		}
		assert.Equal(t, []EventKind{EventHardDrop, EventLock, EventSpawn}, rec.kinds())
		assert.Equal(t, distance, rec.events[0].Distance)
	})

	t.Run("grounded piece drops zero rows and still locks", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceI)
		for e.TryMove(0, 1) {
		}
		rec.reset()

		assert.Equal(t, 0, e.HardDrop())
		assert.Equal(t, 0, e.Score())
		assert.True(t, e.board.Cells[TotalRows-1][SpawnX].Filled)
		assert.Equal(t, []EventKind{EventLock, EventSpawn}, rec.kinds())
	})
}

func TestSoftDrop(t *testing.T) {
	rec := &recorder{}
	e := newScripted(rec, PieceT)
	boardBefore := e.Snapshot().Board
	start, _ := e.Active()
	rec.reset()

	for i := 0; i < 3; i++ {
		require.True(t, e.SoftDropStep())
	}
	assert.Equal(t, 3, e.Score())
	p, _ := e.Active()
	assert.Equal(t, start.Y+3, p.Y)
	assert.Equal(t, start.X, p.X)
	assert.Equal(t, boardBefore, e.Snapshot().Board)
	assert.Equal(t, []EventKind{EventSoftDrop, EventSoftDrop, EventSoftDrop}, rec.kinds())

	t.Run("grounded soft drop neither scores nor locks", func(t *testing.T) {
		for e.SoftDropStep() {
		}
		score := e.Score()
		rec.reset()
		assert.False(t, e.SoftDropStep())
		assert.Equal(t, score, e.Score())
		assert.Empty(t, rec.events)
	})
}

func TestTickGravity(t *testing.T) {
	e := newScripted(nil, PieceT)
	start, _ := e.Active()

	e.Tick(799 * time.Millisecond)
	p, _ := e.Active()
	assert.Equal(t, start.Y, p.Y)

	e.Tick(time.Millisecond)
	p, _ = e.Active()
	assert.Equal(t, start.Y+1, p.Y)

	e.Tick(3 * FallInterval(1))
	p, _ = e.Active()
	assert.Equal(t, start.Y+4, p.Y)

	e.Tick(-time.Second)
	p, _ = e.Active()
	assert.Equal(t, start.Y+4, p.Y)
}

func TestLockDelay(t *testing.T) {
	t.Run("lateral move resets the lock timer", func(t *testing.T) {
		e := newScripted(nil, PieceI)
		for e.TryMove(0, 1) {
		}
		bottom := TotalRows - 1

		e.Tick(400 * time.Millisecond)
		require.True(t, e.TryMove(-1, 0))
		e.Tick(400 * time.Millisecond)
		for x := 0; x < BoardWidth; x++ {
			assert.False(t, e.board.Cells[bottom][x].Filled, "locked early at column %d", x)
		}

		e.Tick(100 * time.Millisecond)
		for x := SpawnX - 1; x < SpawnX+3; x++ {
			assert.True(t, e.board.Cells[bottom][x].Filled)
		}
	})

	t.Run("rotation resets the lock timer", func(t *testing.T) {
		e := newScripted(nil, PieceT)
		for e.TryMove(0, 1) {
		}
		e.Tick(450 * time.Millisecond)
		require.True(t, e.TryRotate(Clockwise))
		for e.TryMove(0, 1) {
		}
		e.Tick(450 * time.Millisecond)
		p, _ := e.Active()
		assert.Equal(t, 1, p.Rotation, "piece should still be active")
		assert.Equal(t, 0, e.Lines())
		filled := 0
		for _, row := range e.board.Cells {
			for _, c := range row {
				if c.Filled {
					filled++
				}
			}
		}
		assert.Zero(t, filled)
	})

	t.Run("airborne piece never locks", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceI)
		rec.reset()
		e.Tick(600 * time.Millisecond)
		assert.NotContains(t, rec.kinds(), EventLock)
	})
}

func TestScoring(t *testing.T) {
	t.Run("tetris at level one scores 800", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceI)
		for y := TotalRows - 4; y < TotalRows; y++ {
			fillRow(e.board, y, 0)
		}
		require.True(t, e.TryRotate(Clockwise))
		for e.TryMove(-1, 0) {
		}
		p, _ := e.Active()
		require.Equal(t, -2, p.X)
		rec.reset()

		distance := e.HardDrop()
		assert.Equal(t, TotalRows-4, distance)
		assert.Equal(t, distance*HardDropPoints+800, e.Score())
		assert.Equal(t, 4, e.Lines())
		assert.Equal(t, 0, e.Combo())
		assert.Contains(t, rec.events, Event{Kind: EventClear, Lines: 4, Combo: 0})
		for y := 0; y < TotalRows; y++ {
			for x := 0; x < BoardWidth; x++ {
				assert.False(t, e.board.Cells[y][x].Filled)
			}
		}
	})

	t.Run("back to back singles add the combo bonus", func(t *testing.T) {
		e := newScripted(nil, PieceI)
		bottom := TotalRows - 1

		fillRow(e.board, bottom, 3, 4, 5, 6)
		lockAt(e, Piece{Type: PieceI, X: 3, Y: bottom - 1})
		assert.Equal(t, 100, e.Score())
		assert.Equal(t, 0, e.Combo())

		fillRow(e.board, bottom, 3, 4, 5, 6)
		lockAt(e, Piece{Type: PieceI, X: 3, Y: bottom - 1})
		assert.Equal(t, 100+150, e.Score())
		assert.Equal(t, 1, e.Combo())
	})

	t.Run("a lock without a clear resets the combo", func(t *testing.T) {
		e := newScripted(nil, PieceI)
		bottom := TotalRows - 1
		for i := 0; i < 3; i++ {
			fillRow(e.board, bottom, 3, 4, 5, 6)
			lockAt(e, Piece{Type: PieceI, X: 3, Y: bottom - 1})
		}
		require.Equal(t, 2, e.Combo())

		lockAt(e, Piece{Type: PieceI, X: 0, Y: bottom - 1})
		assert.Equal(t, -1, e.Combo())
	})

	t.Run("level follows lines and never drops", func(t *testing.T) {
		e := newScripted(nil, PieceI)
		bottom := TotalRows - 1
		prevLevel := e.Level()
		for i := 0; i < 25; i++ {
			fillRow(e.board, bottom, 3, 4, 5, 6)
			lockAt(e, Piece{Type: PieceI, X: 3, Y: bottom - 1})
			assert.Equal(t, e.Lines()/10+1, e.Level())
			assert.GreaterOrEqual(t, e.Level(), prevLevel)
			prevLevel = e.Level()
		}
		assert.Equal(t, 25, e.Lines())
		assert.Equal(t, 3, e.Level())
		assert.Equal(t, FallInterval(3), e.FallInterval())
	})
}

func TestHold(t *testing.T) {
	t.Run("empty slot banks the piece and spawns the next", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceT, PieceO, PieceS, PieceZ, PieceJ, PieceL)
		rec.reset()

		require.True(t, e.Hold())
		p, _ := e.Active()
		assert.Equal(t, PieceO, p.Type)
		snap := e.Snapshot()
		require.NotNil(t, snap.Hold)
		assert.Equal(t, PieceT, *snap.Hold)
		assert.False(t, snap.CanHold)
		assert.Equal(t, []EventKind{EventSpawn, EventHold}, rec.kinds())
	})

	t.Run("second hold before a lock is rejected", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceT, PieceO, PieceS)
		require.True(t, e.Hold())
		before := e.Snapshot()
		rec.reset()

		assert.False(t, e.Hold())
		assert.Equal(t, before, e.Snapshot())
		assert.Empty(t, rec.events)
	})

	t.Run("swap brings the held piece back at spawn", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceT, PieceO, PieceS, PieceZ)
		require.True(t, e.Hold())
		e.HardDrop()
		p, _ := e.Active()
		require.Equal(t, PieceS, p.Type)
		require.True(t, e.TryMove(1, 0))
		rec.reset()

		require.True(t, e.Hold())
		p, _ = e.Active()
		assert.Equal(t, NewPiece(PieceT), p)
		snap := e.Snapshot()
		require.NotNil(t, snap.Hold)
		assert.Equal(t, PieceS, *snap.Hold)
		assert.Equal(t, []EventKind{EventHoldSwap, EventHold}, rec.kinds())
		assert.False(t, e.Hold())
	})

	t.Run("swap into a blocked spawn ends the game", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceT, PieceO, PieceS, PieceZ)
		require.True(t, e.Hold())
		e.HardDrop()
		p, _ := e.Active()
		require.Equal(t, PieceS, p.Type)
		// Only the returning T covers (5, 1); the active S does not.
		e.board.Cells[1][5] = Cell{Filled: true, Type: PieceZ}
		rec.reset()

		assert.True(t, e.Hold())
		assert.Equal(t, []EventKind{EventGameOver, EventHold}, rec.kinds())
		assert.Equal(t, StatusGameOver, e.Status())
		assert.False(t, e.Hold())
	})

	t.Run("banking into a blocked spawn ends the game", func(t *testing.T) {
		rec := &recorder{}
		e := newScripted(rec, PieceT, PieceO, PieceS)
		// The next O needs (5, 0); the active T does not cover it.
		e.board.Cells[0][5] = Cell{Filled: true, Type: PieceZ}
		rec.reset()

		assert.True(t, e.Hold())
		assert.Equal(t, []EventKind{EventGameOver, EventHold}, rec.kinds())
		assert.Equal(t, StatusGameOver, e.Status())
	})
}

func TestGameOver(t *testing.T) {
	rec := &recorder{}
	e := newScripted(rec, PieceO)
	for i := 0; i < TotalRows/2; i++ {
		require.Equal(t, StatusRunning, e.Status())
		e.HardDrop()
	}
	require.Equal(t, StatusGameOver, e.Status())
	require.NotEmpty(t, rec.events)
	assert.Equal(t, EventGameOver, rec.events[len(rec.events)-1].Kind)
	assert.NotContains(t, rec.kinds()[:len(rec.events)-1], EventGameOver)

	before := e.Snapshot()
	assert.True(t, before.GameOver)
	rec.reset()

	assert.False(t, e.TryMove(-1, 0))
	assert.False(t, e.TryMove(0, 1))
	assert.False(t, e.TryRotate(Clockwise))
	assert.False(t, e.Hold())
	assert.False(t, e.SoftDropStep())
	assert.Equal(t, 0, e.HardDrop())
	assert.False(t, e.SetPaused(true))
	assert.False(t, e.TogglePaused())
	for _, a := range Actions {
		assert.False(t, e.Apply(a), a.String())
	}
	e.Tick(10 * time.Second)

	assert.Equal(t, before, e.Snapshot())
	assert.Empty(t, rec.events)

	e.Reset()
	assert.Equal(t, StatusRunning, e.Status())
	assert.Equal(t, 0, e.Score())
	assert.Equal(t, []EventKind{EventSpawn}, rec.kinds())
}

func TestTickLockThenBlockOut(t *testing.T) {
	rec := &recorder{}
	e := newScripted(rec, PieceO)
	// A floor right under the spawned O grounds it at the top.
	e.board.Cells[2][4] = Cell{Filled: true, Type: PieceZ}
	e.board.Cells[2][5] = Cell{Filled: true, Type: PieceZ}
	rec.reset()

	e.Tick(LockDelay)

	assert.Equal(t, []EventKind{EventLock, EventGameOver}, rec.kinds())
	assert.Equal(t, StatusGameOver, e.Status())
	assert.True(t, e.board.Cells[0][4].Filled)
	assert.True(t, e.board.Cells[1][5].Filled)
}

func TestPause(t *testing.T) {
	rec := &recorder{}
	e := newScripted(rec, PieceT)
	rec.reset()

	require.True(t, e.SetPaused(true))
	assert.False(t, e.SetPaused(true))
	assert.Equal(t, []EventKind{EventPause}, rec.kinds())

	before := e.Snapshot()
	assert.True(t, before.Paused)
	assert.False(t, e.TryMove(1, 0))
	assert.False(t, e.TryRotate(Clockwise))
	assert.False(t, e.Hold())
	assert.False(t, e.SoftDropStep())
	assert.Equal(t, 0, e.HardDrop())
	e.Tick(5 * time.Second)
	assert.Equal(t, before, e.Snapshot())

	require.True(t, e.TogglePaused())
	assert.Equal(t, []EventKind{EventPause, EventResume}, rec.kinds())
	assert.False(t, e.SetPaused(false))
	assert.Equal(t, StatusRunning, e.Status())
}

func TestApply(t *testing.T) {
	e := newScripted(nil, PieceT)

	assert.True(t, e.Apply(ActionLeft))
	assert.True(t, e.Apply(ActionRight))
	assert.True(t, e.Apply(ActionDown))
	assert.True(t, e.Apply(ActionRotateCW))
	assert.True(t, e.Apply(ActionRotateCCW))
	assert.True(t, e.Apply(ActionHold))
	assert.False(t, e.Apply(ActionHold))
	assert.True(t, e.Apply(ActionHardDrop))
	assert.True(t, e.Apply(ActionPause))
	assert.Equal(t, StatusPaused, e.Status())
	assert.True(t, e.Apply(ActionPause))
	assert.False(t, e.Apply(Action(99)))
}

func TestSnapshotIsolation(t *testing.T) {
	e := newScripted(nil, PieceT)
	snap := e.Snapshot()
	snap.Board.Cells[TotalRows-1][0] = Cell{Filled: true}
	snap.Queue[0] = PieceZ
	snap.Active.X = 0

	again := e.Snapshot()
	assert.False(t, again.Board.Cells[TotalRows-1][0].Filled)
	assert.Equal(t, PieceT, again.Queue[0])
	assert.Equal(t, SpawnX, again.Active.X)

	ghost, ok := again.Ghost()
	require.True(t, ok)
	assert.Equal(t, again.GhostY, ghost.Y)
	assert.True(t, e.board.Collides(ghost.moved(0, 1)))
}
