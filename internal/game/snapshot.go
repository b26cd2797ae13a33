package game

// Snapshot is a read-only copy of the engine state for renderers. Nothing in
// it aliases engine memory.
type Snapshot struct {
	Board   *Board
	Active  *Piece
	GhostY  int
	Hold    *PieceType
	CanHold bool
	Queue   []PieceType

	Status   Status
	GameOver bool
	Paused   bool

	Score int
	Level int
	Lines int
	Combo int
}

func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Board:    e.board.Clone(),
		CanHold:  e.canHold,
		Queue:    append([]PieceType(nil), e.queue...),
		Status:   e.status,
		GameOver: e.status == StatusGameOver,
		Paused:   e.status == StatusPaused,
		Score:    e.score,
		Level:    e.level,
		Lines:    e.lines,
		Combo:    e.combo,
	}
	if e.hasActive {
		active := e.active
		s.Active = &active
		s.GhostY = e.ghostY()
	}
	if e.hasHold {
		hold := e.hold
		s.Hold = &hold
	}
	return s
}

// Ghost returns the active piece moved to the ghost row.
func (s Snapshot) Ghost() (Piece, bool) {
	if s.Active == nil {
		return Piece{}, false
	}
	g := *s.Active
	g.Y = s.GhostY
	return g, true
}
