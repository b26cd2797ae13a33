package game

import "fmt"

type PieceType int

const (
	PieceI PieceType = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
)

// PieceTypes lists every piece type in catalog order.
var PieceTypes = [...]PieceType{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}

const numPieceTypes = len(PieceTypes)

func (t PieceType) Valid() bool {
	return t >= PieceI && t <= PieceL
}

func (t PieceType) String() string {
	switch t {
	case PieceI:
		return "I"
	case PieceO:
		return "O"
	case PieceT:
		return "T"
	case PieceS:
		return "S"
	case PieceZ:
		return "Z"
	case PieceJ:
		return "J"
	case PieceL:
		return "L"
	}
	return fmt.Sprintf("PieceType(%d)", int(t))
}

// ShapeSize is the side of the occupancy window every rotation state uses.
const ShapeSize = 4

// Shape is the occupancy of one piece type in one rotation state.
type Shape [ShapeSize][ShapeSize]bool

// Spawn orientations. JLSTZ rotate inside a 3x3 box, I inside 4x4, O never moves.
var baseShapes = map[PieceType][][]bool{
	PieceI: {
		{false, false, false, false},
		{true, true, true, true},
		{false, false, false, false},
		{false, false, false, false},
	},
	PieceO: {
		{false, true, true, false},
		{false, true, true, false},
		{false, false, false, false},
		{false, false, false, false},
	},
	PieceT: {
		{false, true, false},
		{true, true, true},
		{false, false, false},
	},
	PieceS: {
		{false, true, true},
		{true, true, false},
		{false, false, false},
	},
	PieceZ: {
		{true, true, false},
		{false, true, true},
		{false, false, false},
	},
	PieceJ: {
		{true, false, false},
		{true, true, true},
		{false, false, false},
	},
	PieceL: {
		{false, false, true},
		{true, true, true},
		{false, false, false},
	},
}

// Offset is a board-space displacement. Positive Y points down.
type Offset struct {
	X, Y int
}

// SRS wall kick data as published, with Y pointing up. Indexed by
// [from][to] rotation state; only adjacent transitions are populated.
var (
	kicksJLSTZ = map[[2]int][]Offset{
		{0, 1}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		{1, 0}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{1, 2}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{2, 1}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		{2, 3}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		{3, 2}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		{3, 0}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		{0, 3}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	}
	kicksI = map[[2]int][]Offset{
		{0, 1}: {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
		{1, 0}: {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
		{1, 2}: {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
		{2, 1}: {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
		{2, 3}: {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
		{3, 2}: {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
		{3, 0}: {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
		{0, 3}: {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	}
)

var (
	shapes [numPieceTypes][4]Shape
	kicks  [numPieceTypes][4][4][]Offset
)

func init() {
	for _, t := range PieceTypes {
		cur := baseShapes[t]
		for r := 0; r < 4; r++ {
			shapes[t][r] = toShape(cur)
			if t != PieceO {
				cur = rotateMatrix(cur)
			}
		}

		table := kicksJLSTZ
		if t == PieceI {
			table = kicksI
		}
		for from := 0; from < 4; from++ {
			for to := 0; to < 4; to++ {
				if from == to {
					continue
				}
				src, ok := table[[2]int{from, to}]
				if t == PieceO || !ok {
					kicks[t][from][to] = []Offset{{0, 0}}
					continue
				}
				offs := make([]Offset, len(src))
				for i, o := range src {
					offs[i] = Offset{X: o.X, Y: -o.Y}
				}
				kicks[t][from][to] = offs
			}
		}
	}
}

// rotateMatrix turns a square matrix a quarter turn clockwise.
func rotateMatrix(m [][]bool) [][]bool {
	n := len(m)
	rotated := make([][]bool, n)
	for i := range rotated {
		rotated[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rotated[j][n-1-i] = m[i][j]
		}
	}
	return rotated
}

func toShape(m [][]bool) Shape {
	var s Shape
	for y, row := range m {
		for x, cell := range row {
			s[y][x] = cell
		}
	}
	return s
}

// ShapeOf returns the occupancy of t in rotation state r (taken modulo 4).
func ShapeOf(t PieceType, r int) Shape {
	return shapes[t][normalizeRotation(r)]
}

// Kicks returns the ordered kick candidates for rotating t from one state to
// another. The first candidate is always the in-place attempt. The returned
// slice is shared and must not be modified.
func Kicks(t PieceType, from, to int) []Offset {
	from, to = normalizeRotation(from), normalizeRotation(to)
	if from == to {
		return []Offset{{0, 0}}
	}
	return kicks[t][from][to]
}

func normalizeRotation(r int) int {
	return ((r % 4) + 4) % 4
}

// Piece is the active piece: a type in a rotation state whose occupancy
// window has its top-left corner at (X, Y).
type Piece struct {
	Type     PieceType
	Rotation int
	X, Y     int
}

// NewPiece places a piece of type t at the spawn origin.
func NewPiece(t PieceType) Piece {
	return Piece{
		Type: t,
		X:    SpawnX,
		Y:    SpawnY,
	}
}

func (p Piece) Shape() Shape {
	return ShapeOf(p.Type, p.Rotation)
}

// Cells calls fn with the board coordinates of every occupied cell.
func (p Piece) Cells(fn func(x, y int)) {
	s := p.Shape()
	for y := 0; y < ShapeSize; y++ {
		for x := 0; x < ShapeSize; x++ {
			if s[y][x] {
				fn(p.X+x, p.Y+y)
			}
		}
	}
}

func (p Piece) moved(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}
