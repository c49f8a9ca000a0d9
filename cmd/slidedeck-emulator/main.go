package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phinze/slidedeck/internal/config"
	"github.com/phinze/slidedeck/internal/device/emulator"
	"github.com/phinze/slidedeck/internal/session"
	"github.com/zoobzio/capitan"
)

func main() {
	log.Println("=== Stream Deck Emulator ===")
	log.Println("Close window or press Ctrl+C to exit")

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\nReceived shutdown signal")
		cancel()
	}()

	session.LogSignals()
	defer capitan.Shutdown()

	emu := emulator.New()
	if err := emu.Open(); err != nil {
		log.Fatalf("Failed to open emulator: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: config load: %v", err)
		cfg = config.Default()
	}

	sess := session.New(cfg)
	if err := sess.WatchConfig(ctx, config.DefaultConfigPath()); err != nil {
		log.Printf("Config hot reload disabled: %v", err)
	}

	// Run the session in the background; it ends when the window closes
	go func() {
		if err := sess.RunWithDevice(ctx, emu); err != nil {
			log.Printf("Session error: %v", err)
		}
		cancel()
	}()

	// Closing the emulator from a signal also closes the window
	go func() {
		<-ctx.Done()
		if emu.IsOpen() {
			emu.Close()
		}
	}()

	// Run GUI on main thread (required for macOS)
	if err := emu.RunGUI(); err != nil {
		log.Printf("Emulator GUI error: %v", err)
	}
}
