package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hersh/blockfall/internal/game"
	"github.com/hersh/blockfall/internal/netclient"
)

const (
	frameInterval = 16 * time.Millisecond
	maxFrameDelta = 50 * time.Millisecond
)

// FrameMsg drives the local engine clock.
type FrameMsg time.Time

type Screen int

const (
	ScreenConnecting Screen = iota
	ScreenWelcome
	ScreenPlaying
	ScreenGameOver
)

// Remote is the server connection used by a remote model.
// *netclient.Client implements it.
type Remote interface {
	SendAction(a game.Action)
	Reset()
	Close()
}

// Model is the bubbletea model. It either owns a local engine or mirrors a
// remote session; never both.
type Model struct {
	screen     Screen
	playerName string
	width      int
	height     int

	engine    *game.Engine
	remote    Remote
	snap      game.Snapshot
	cues      *cueFeed
	lastFrame time.Time

	serverErr    string
	err          error
	disconnected bool
}

// NewLocalModel runs the engine in-process. A zero seed picks a random one.
func NewLocalModel(playerName string, seed uint64) Model {
	cues := &cueFeed{}
	var engine *game.Engine
	if seed != 0 {
		engine = game.NewSeeded(seed, cues.push)
	} else {
		engine = game.New(game.Config{OnEvent: cues.push})
	}
	return Model{
		screen:     ScreenWelcome,
		playerName: playerName,
		engine:     engine,
		snap:       engine.Snapshot(),
		cues:       cues,
	}
}

// NewRemoteModel renders the state pushed by a server session.
func NewRemoteModel(playerName string, remote Remote) Model {
	return Model{
		screen:     ScreenConnecting,
		playerName: playerName,
		remote:     remote,
		cues:       &cueFeed{},
	}
}

func (m Model) Init() tea.Cmd {
	if m.engine != nil {
		return frameCmd()
	}
	return nil
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// clampDelta bounds the time fed to one Tick.
func clampDelta(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return min(d, maxFrameDelta)
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case FrameMsg:
		return m.handleFrame(time.Time(msg))

	case netclient.WelcomeMsg:
		m.screen = ScreenPlaying
		return m, nil
	case netclient.SnapshotMsg:
		m.snap = msg.Snapshot
		m.syncScreen()
		return m, nil
	case netclient.EventMsg:
		m.cues.push(msg.Event)
		return m, nil
	case netclient.ErrorMsg:
		m.serverErr = msg.Message
		return m, nil
	case netclient.DisconnectedMsg:
		m.disconnected = true
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.engine == nil {
		return m, nil
	}
	if m.screen == ScreenPlaying {
		var delta time.Duration
		if !m.lastFrame.IsZero() {
			delta = clampDelta(now.Sub(m.lastFrame))
		}
		m.engine.Tick(delta)
		m.refresh()
	}
	m.lastFrame = now
	return m, frameCmd()
}

// refresh copies the local engine state and follows game over.
func (m *Model) refresh() {
	if m.engine == nil {
		return
	}
	m.snap = m.engine.Snapshot()
	m.syncScreen()
}

func (m *Model) syncScreen() {
	switch {
	case m.snap.GameOver:
		m.screen = ScreenGameOver
	case m.screen == ScreenGameOver:
		m.screen = ScreenPlaying
	}
}

// --- Key handlers ---

// keyAction maps a key to an engine action.
func keyAction(key string) (game.Action, bool) {
	switch key {
	case "left", "h":
		return game.ActionLeft, true
	case "right", "l":
		return game.ActionRight, true
	case "down", "j":
		return game.ActionDown, true
	case "up", "x":
		return game.ActionRotateCW, true
	case "z":
		return game.ActionRotateCCW, true
	case "c":
		return game.ActionHold, true
	case " ", "space":
		return game.ActionHardDrop, true
	case "p":
		return game.ActionPause, true
	}
	return 0, false
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.remote != nil {
			m.remote.Close()
		}
		return m, tea.Quit
	case "m":
		m.cues.toggleMute()
		return m, nil
	}

	switch m.screen {
	case ScreenWelcome:
		if msg.String() == "enter" {
			m.screen = ScreenPlaying
			m.lastFrame = time.Time{}
		}
		return m, nil
	case ScreenPlaying, ScreenGameOver:
		return m.handleGameKeys(msg)
	}
	return m, nil
}

func (m Model) handleGameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "r" || (key == "enter" && m.screen == ScreenGameOver) {
		m.reset()
		return m, nil
	}

	a, ok := keyAction(key)
	if !ok {
		return m, nil
	}
	if m.remote != nil {
		m.remote.SendAction(a)
		return m, nil
	}
	m.engine.Apply(a)
	m.refresh()
	return m, nil
}

func (m *Model) reset() {
	m.serverErr = ""
	if m.remote != nil {
		m.remote.Reset()
		return
	}
	m.engine.Reset()
	m.lastFrame = time.Time{}
	m.screen = ScreenPlaying
	m.refresh()
}

// --- View ---

func (m Model) View() string {
	if m.disconnected {
		return m.renderCentered("Disconnected from server.\nPress Ctrl+C to exit.")
	}

	switch m.screen {
	case ScreenConnecting:
		return m.renderCentered("Connecting to server...")
	case ScreenWelcome:
		return m.renderCentered(RenderWelcome())
	case ScreenPlaying, ScreenGameOver:
		return m.renderPlaying()
	}
	return ""
}

func (m Model) renderCentered(content string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (m Model) renderPlaying() string {
	if m.snap.Board == nil {
		return m.renderCentered("Loading...")
	}

	leftPanel := lipgloss.NewStyle().
		Width(24).
		Render(RenderInfo(m.playerName, m.snap) + "\n" + RenderCues(m.cues.recent, m.cues.muted))

	center := RenderBoard(m.snap)
	switch {
	case m.snap.GameOver:
		center = lipgloss.JoinVertical(lipgloss.Center, center,
			RenderGameOver(m.snap.Score, m.snap.Lines), dimStyle.Render("R or ENTER to play again"))
	case m.snap.Paused:
		center = lipgloss.JoinVertical(lipgloss.Center, center, RenderPaused())
	}
	if m.serverErr != "" {
		center = lipgloss.JoinVertical(lipgloss.Center, center, gameOverStyle.Render(m.serverErr))
	}
	centerPanel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(center)

	rightPanel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(titleStyle.Render("NEXT") + "\n" + RenderQueue(m.snap.Queue) + "\n\n" + RenderControls())

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanel,
		centerPanel,
		rightPanel,
	)

	return m.renderCentered(mainContent)
}
