package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hersh/blockfall/internal/server"
)

const defaultPort = "8080"

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	addr := flag.String("addr", ":"+port, "Listen address")
	frame := flag.Duration("frame", 16*time.Millisecond, "Engine tick period")
	snapshot := flag.Duration("snapshot", 50*time.Millisecond, "Snapshot push period")
	seed := flag.Uint64("seed", 0, "Fixed piece seed for every session (0 = random)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := server.NewHub(server.HubConfig{
		Frame:         *frame,
		SnapshotEvery: *snapshot,
		Seed:          *seed,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:    *addr,
		Handler: hub.Handler(),
	}

	log.Printf("Blockfall server starting on %s", *addr)
	log.Printf("WebSocket endpoint: ws://localhost%s/ws", *addr)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
