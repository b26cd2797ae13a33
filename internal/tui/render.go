package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hersh/blockfall/internal/game"
)

var (
	// colors is indexed by piece type + 1; 0 is an empty cell.
	colors = []string{
		"0",
		"51",  // I
		"226", // O
		"201", // T
		"46",  // S
		"196", // Z
		"21",  // J
		"208", // L
	}

	ghostColor = "244"

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("15"))

	infoStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("15"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	cueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	pausedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))
)

func pieceColor(t game.PieceType) string {
	if !t.Valid() {
		return colors[0]
	}
	return colors[int(t)+1]
}

type cellView struct {
	char  string
	color string
}

// RenderBoard draws the visible rows of the board with the ghost and the
// active piece on top. Hidden rows are never drawn.
func RenderBoard(s game.Snapshot) string {
	if s.Board == nil {
		return boardStyle.Render("")
	}

	grid := make([][]cellView, s.Board.Height)
	for y := range grid {
		grid[y] = make([]cellView, s.Board.Width)
		for x := range grid[y] {
			cell := s.Board.Cells[y][x]
			if cell.Filled {
				grid[y][x] = cellView{"██", pieceColor(cell.Type)}
			} else {
				grid[y][x] = cellView{"  ", colors[0]}
			}
		}
	}

	put := func(x, y int, v cellView, overFilled bool) {
		if y < 0 || y >= len(grid) || x < 0 || x >= s.Board.Width {
			return
		}
		if !overFilled && s.Board.Cells[y][x].Filled {
			return
		}
		grid[y][x] = v
	}
	if ghost, ok := s.Ghost(); ok && !s.GameOver {
		ghost.Cells(func(x, y int) { put(x, y, cellView{"[]", ghostColor}, false) })
	}
	if s.Active != nil {
		active := cellView{"██", pieceColor(s.Active.Type)}
		s.Active.Cells(func(x, y int) { put(x, y, active, true) })
	}

	var sb strings.Builder
	for y := game.HiddenRows; y < len(grid); y++ {
		for _, v := range grid[y] {
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(v.color)).
				Render(v.char))
		}
		if y < len(grid)-1 {
			sb.WriteString("\n")
		}
	}
	return boardStyle.Render(sb.String())
}

// RenderPiece draws a piece type in spawn orientation, skipping empty rows.
func RenderPiece(t game.PieceType) string {
	shape := game.ShapeOf(t, 0)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(pieceColor(t)))

	var rows []string
	for _, row := range shape {
		empty := true
		var sb strings.Builder
		for _, filled := range row {
			if filled {
				empty = false
				sb.WriteString(style.Render("██"))
			} else {
				sb.WriteString("  ")
			}
		}
		if !empty {
			rows = append(rows, sb.String())
		}
	}
	return strings.Join(rows, "\n")
}

func RenderHold(s game.Snapshot) string {
	if s.Hold == nil {
		return dimStyle.Render("Empty")
	}
	piece := RenderPiece(*s.Hold)
	if !s.CanHold {
		return dimStyle.Render(piece)
	}
	return piece
}

func RenderQueue(queue []game.PieceType) string {
	parts := make([]string, 0, len(queue))
	for _, t := range queue {
		parts = append(parts, RenderPiece(t))
	}
	return strings.Join(parts, "\n\n")
}

func RenderInfo(name string, s game.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("BLOCKFALL") + "\n\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Player: %s", name)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Score: %d", s.Score)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Level: %d", s.Level)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Lines: %d", s.Lines)) + "\n")
	if s.Combo > 0 {
		sb.WriteString(infoStyle.Render(fmt.Sprintf("Combo: %d", s.Combo)) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(titleStyle.Render("HOLD") + "\n")
	sb.WriteString(RenderHold(s) + "\n")

	return sb.String()
}

// RenderCues lists the most recent cue labels, newest last.
func RenderCues(cues []string, muted bool) string {
	if muted {
		return dimStyle.Render("cues muted")
	}
	lines := make([]string, len(cues))
	for i, c := range cues {
		lines[i] = cueStyle.Render(c)
	}
	return strings.Join(lines, "\n")
}

func RenderWelcome() string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("51")).
		Align(lipgloss.Center).
		Render(`
╔══════════════════════════════╗
║      B L O C K F A L L       ║
╚══════════════════════════════╝

   Press ENTER to start
   Press Q to quit
`)
}

func RenderPaused() string {
	return pausedStyle.Render("PAUSED") + "\n" + dimStyle.Render("P to resume")
}

func RenderGameOver(score, lines int) string {
	return gameOverStyle.
		Align(lipgloss.Center).
		Render(fmt.Sprintf("\n     GAME OVER     \n     Score: %d     \n     Lines: %d     \n", score, lines))
}

func RenderControls() string {
	return dimStyle.Render(`←/→ h/l  move
↓ j      soft drop
Space    hard drop
↑ x / z  rotate
C        hold
P        pause
R        restart
M        mute
Q        quit`)
}
