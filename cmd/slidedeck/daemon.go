package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phinze/slidedeck/internal/config"
	"github.com/phinze/slidedeck/internal/device"
	"github.com/phinze/slidedeck/internal/session"
	"github.com/phinze/slidedeck/internal/usbwatch"
	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"
)

const deviceTimeout = 5 * time.Second

func runDaemon(cmd *cobra.Command, args []string) error {
	log.Println("=== slidedeck ===")
	log.Println("Press Ctrl+C to exit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Setup signal handling
	ctx, cancel := context.WithCancel(cmd.Context())
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

	sess := session.New(cfg)
	if err := sess.WatchConfig(ctx, config.DefaultConfigPath()); err != nil {
		log.Printf("Config hot reload disabled: %v", err)
	}

	wakeCh := watchWake()
	plugCh := usbwatch.Watch(ctx, usbwatch.ElgatoVendorID)

	// Main device loop - wait for device, run, repeat on disconnect
	for {
		dev := waitForHardwareDevice(ctx, wakeCh, plugCh)
		if dev == nil {
			// Context cancelled
			break
		}

		// Check context before starting - avoid race where device connects after shutdown requested
		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			dev.Close()
			return nil
		default:
		}

		// Drain stale wake signals that accumulated while waiting for the
		// device, or runWithDevice would tear down immediately.
	drainWake:
		for {
			select {
			case <-wakeCh:
				log.Println("Draining stale wake signal")
			default:
				break drainWake
			}
		}

		// USB enumeration may not be complete even after the device opens.
		time.Sleep(500 * time.Millisecond)

		runWithDevice(ctx, sess, dev, wakeCh)

		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			return nil
		default:
			log.Println("Waiting for device reconnect...")
		}
	}
	return nil
}

// openDevice probes for a Stream Deck, logging anything other than a plain
// absence.
func openDevice() device.Device {
	dev, err := device.OpenHardware(deviceTimeout)
	switch {
	case err == nil:
		return dev
	case errors.Is(err, device.ErrTimeout):
		log.Println("Device detection timed out")
	case errors.Is(err, device.ErrNotFound):
		log.Printf("Ignoring device: %v", err)
	}
	return nil
}

// probe retries openDevice while a freshly attached or woken device
// enumerates.
func probe(ctx context.Context, attempts int) device.Device {
	for i := 0; i < attempts; i++ {
		if dev := openDevice(); dev != nil {
			return dev
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(500 * time.Millisecond):
		}
	}
	return nil
}

// waitForHardwareDevice blocks until a Stream Deck can be opened. USB
// arrivals and wake signals trigger an immediate probe; otherwise it polls.
func waitForHardwareDevice(ctx context.Context, wakeCh, plugCh <-chan struct{}) device.Device {
	// First, try to get an already-connected device
	if dev := openDevice(); dev != nil {
		return dev
	}

	log.Println("Waiting for device...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-plugCh:
			log.Println("USB arrival, probing for device...")
			if dev := probe(ctx, 4); dev != nil {
				log.Println("Device connected!")
				return dev
			}
			continue
		case <-wakeCh:
			// After wake, USB devices may take several seconds to enumerate.
			log.Println("Wake signal received, probing for device...")
			if dev := probe(ctx, 10); dev != nil {
				log.Println("Device connected!")
				return dev
			}
			log.Println("Device not found after wake, resuming polling...")
			continue
		case <-time.After(2 * time.Second):
		}

		if dev := openDevice(); dev != nil {
			log.Println("Device connected!")
			return dev
		}
	}
}

// runWithDevice runs the session on dev until disconnect, wake, or context
// cancel, then closes the device.
func runWithDevice(ctx context.Context, sess *session.Session, dev device.Device, wakeCh <-chan struct{}) {
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- sess.RunWithDevice(runCtx, dev)
	}()

	select {
	case <-ctx.Done():
	case <-errChan:
		errChan = nil
	case <-wakeCh:
		log.Println("Reconnecting device after wake...")
	}

	runCancel()
	if errChan != nil {
		<-errChan
	}

	// Let pending USB I/O callbacks complete. The HID library does not
	// cancel ongoing I/O on close.
	time.Sleep(200 * time.Millisecond)

	closeDone := make(chan struct{})
	go func() {
		dev.Close()
		close(closeDone)
	}()

	// device.Close() may block indefinitely, so a shutdown forces exit
	select {
	case <-ctx.Done():
		log.Println("Exiting...")
		capitan.Shutdown()
		os.Exit(0)
	case <-closeDone:
	case <-time.After(3 * time.Second):
		log.Println("Device close timed out")
	}
}
