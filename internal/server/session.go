package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/hersh/blockfall/internal/game"
	"github.com/hersh/blockfall/internal/player"
	"github.com/hersh/blockfall/internal/protocol"
)

const (
	defaultFrame         = 16 * time.Millisecond
	defaultSnapshotEvery = 50 * time.Millisecond
	// maxFrameDelta caps one Tick so a stalled loop does not dump pieces.
	maxFrameDelta = 50 * time.Millisecond
	commandBuffer = 64
)

// Publish delivers a message to the session's client. It must not block.
type Publish func(env protocol.Envelope)

type command struct {
	action game.Action
	reset  bool
}

// Session runs one engine on its own goroutine. All engine calls happen
// inside Run; other goroutines talk to it through Submit and Reset.
type Session struct {
	ID   string
	Seed uint64

	engine  *game.Engine
	publish Publish
	roster  *player.Roster
	log     *slog.Logger

	frame         time.Duration
	snapshotEvery time.Duration

	cmds chan command
	done chan struct{}
}

// NewSession sends the welcome message and starts the game. Events from the
// first spawn are published before NewSession returns.
func NewSession(id string, seed uint64, cfg HubConfig, publish Publish, roster *player.Roster) *Session {
	s := &Session{
		ID:            id,
		Seed:          seed,
		publish:       publish,
		roster:        roster,
		log:           cfg.logger().With("session", id),
		frame:         cfg.Frame,
		snapshotEvery: cfg.SnapshotEvery,
		cmds:          make(chan command, commandBuffer),
		done:          make(chan struct{}),
	}
	if s.frame <= 0 {
		s.frame = defaultFrame
	}
	if s.snapshotEvery <= 0 {
		s.snapshotEvery = defaultSnapshotEvery
	}

	s.publish(protocol.Envelope{
		Type:    protocol.MsgWelcome,
		Payload: protocol.WelcomePayload{SessionID: id, Seed: seed},
	})
	s.engine = game.NewSeeded(seed, s.onEvent)
	return s
}

func (s *Session) onEvent(ev game.Event) {
	s.publish(protocol.Envelope{
		Type:    protocol.MsgEvent,
		Payload: protocol.NewEventPayload(ev),
	})
	if ev.Kind == game.EventGameOver {
		s.log.Info("game over", "score", s.engine.Score(), "lines", s.engine.Lines(), "level", s.engine.Level())
	}
}

// Submit queues an action. It reports false when the session has stopped or
// its queue is full.
func (s *Session) Submit(a game.Action) bool {
	return s.enqueue(command{action: a})
}

// Reset queues a restart of the game.
func (s *Session) Reset() bool {
	return s.enqueue(command{reset: true})
}

func (s *Session) enqueue(cmd command) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.cmds <- cmd:
		return true
	default:
		return false
	}
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Run drives the engine until ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)

	frames := time.NewTicker(s.frame)
	defer frames.Stop()
	snapshots := time.NewTicker(s.snapshotEvery)
	defer snapshots.Stop()

	s.publishSnapshot()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-frames.C:
			delta := min(now.Sub(last), maxFrameDelta)
			last = now
			s.engine.Tick(delta)
		case <-snapshots.C:
			s.publishSnapshot()
		case cmd := <-s.cmds:
			s.handle(cmd)
			s.publishSnapshot()
		}
	}
}

func (s *Session) handle(cmd command) {
	if cmd.reset {
		s.log.Info("reset", "score", s.engine.Score())
		s.engine.Reset()
		return
	}
	s.engine.Apply(cmd.action)
}

func (s *Session) publishSnapshot() {
	snap := s.engine.Snapshot()
	if s.roster != nil {
		s.roster.Report(s.ID, snap.Score, snap.Level, snap.Lines, !snap.GameOver)
	}
	s.publish(protocol.Envelope{
		Type:    protocol.MsgSnapshot,
		Payload: protocol.NewSnapshotPayload(snap),
	})
}
