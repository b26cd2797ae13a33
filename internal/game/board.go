package game

const (
	BoardWidth  = 10
	BoardHeight = 20
	HiddenRows  = 2
	// TotalRows counts the hidden buffer above the visible playfield.
	TotalRows = BoardHeight + HiddenRows

	SpawnX = BoardWidth/2 - 2
	SpawnY = 0
)

type Cell struct {
	Filled bool
	Type   PieceType
}

// Board is the occupancy grid. Row 0 is the top of the hidden buffer; rows
// HiddenRows..TotalRows-1 are the visible playfield.
type Board struct {
	Cells  [][]Cell
	Width  int
	Height int
}

func NewBoard() *Board {
	cells := make([][]Cell, TotalRows)
	for i := range cells {
		cells[i] = make([]Cell, BoardWidth)
	}
	return &Board{
		Cells:  cells,
		Width:  BoardWidth,
		Height: TotalRows,
	}
}

// Occupied reports whether (x, y) is an obstruction. Anything outside the
// grid counts as one.
func (b *Board) Occupied(x, y int) bool {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return true
	}
	return b.Cells[y][x].Filled
}

// Collides reports whether p overlaps a wall, the floor or a filled cell.
// Cells above row 0 only collide with the side walls.
func (b *Board) Collides(p Piece) bool {
	hit := false
	p.Cells(func(x, y int) {
		if hit {
			return
		}
		if y < 0 {
			hit = x < 0 || x >= b.Width
			return
		}
		hit = b.Occupied(x, y)
	})
	return hit
}

// Merge writes p's type into every occupied cell that lies on the board.
func (b *Board) Merge(p Piece) {
	p.Cells(func(x, y int) {
		if y >= 0 && y < b.Height && x >= 0 && x < b.Width {
			b.Cells[y][x] = Cell{Filled: true, Type: p.Type}
		}
	})
}

// ClearFullLines removes every full row of the playfield, shifting the rows
// between it and the top of the playfield down by one, and returns how many
// rows were removed. The empty row is inserted at HiddenRows, so cells in the
// hidden rows stay where they are and do not fall.
func (b *Board) ClearFullLines() int {
	top := HiddenRows
	if top >= b.Height {
		top = 0
	}
	cleared := 0
	for y := b.Height - 1; y >= top; {
		if !b.rowFull(y) {
			y--
			continue
		}
		copy(b.Cells[top+1:y+1], b.Cells[top:y])
		b.Cells[top] = make([]Cell, b.Width)
		cleared++
	}
	return cleared
}

func (b *Board) rowFull(y int) bool {
	for x := 0; x < b.Width; x++ {
		if !b.Cells[y][x].Filled {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([][]Cell, len(b.Cells))
	for y := range b.Cells {
		cells[y] = make([]Cell, len(b.Cells[y]))
		copy(cells[y], b.Cells[y])
	}
	return &Board{Cells: cells, Width: b.Width, Height: b.Height}
}

// ToFlat returns the board as a flat row-major array: 0 for empty, piece
// type + 1 otherwise.
func (b *Board) ToFlat() []int {
	flat := make([]int, b.Height*b.Width)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Cells[y][x].Filled {
				flat[y*b.Width+x] = int(b.Cells[y][x].Type) + 1
			}
		}
	}
	return flat
}

// BoardFromFlat reconstructs a Board from a ToFlat array. Out-of-range values
// are treated as empty.
func BoardFromFlat(flat []int, width, height int) *Board {
	b := &Board{
		Width:  width,
		Height: height,
		Cells:  make([][]Cell, height),
	}
	for y := 0; y < height; y++ {
		b.Cells[y] = make([]Cell, width)
		for x := 0; x < width; x++ {
			idx := y*width + x
			if idx >= len(flat) {
				continue
			}
			if t := PieceType(flat[idx] - 1); flat[idx] != 0 && t.Valid() {
				b.Cells[y][x] = Cell{Filled: true, Type: t}
			}
		}
	}
	return b
}
