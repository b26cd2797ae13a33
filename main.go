package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hersh/blockfall/internal/tui"
)

// This is the standalone single-player entry point.
// To play against a server-side session, use:
//   Server: go run ./cmd/server
//   Client: go run ./cmd/client --server ws://localhost:8080/ws --name YourName

func main() {
	seed := flag.Uint64("seed", 0, "Piece sequence seed (0 = random)")
	flag.Parse()

	name := "Player"
	if flag.NArg() > 0 {
		name = flag.Arg(0)
	}

	model := tui.NewLocalModel(name, *seed)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
