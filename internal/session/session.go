// Package session runs the slideshow on a connected device and keeps it in
// step with the config file. A Session outlives device connections, so a
// reconnect picks up the latest configuration.
package session

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"github.com/phinze/slidedeck/internal/config"
	"github.com/phinze/slidedeck/internal/coordinator"
	"github.com/phinze/slidedeck/internal/device"
	"github.com/phinze/slidedeck/internal/module"
	"github.com/phinze/slidedeck/internal/modules/slideshow"
)

// StopTimeout bounds how long RunWithDevice waits for modules to stop.
const StopTimeout = 2 * time.Second

// Resources are the keys, dials and strip region given to the slideshow:
// the top row of keys, the first dial and the whole strip.
func Resources(strip image.Rectangle) module.Resources {
	return module.Resources{
		Keys:      []module.KeyID{module.Key1, module.Key2, module.Key3, module.Key4},
		StripRect: strip,
		Dials:     []module.DialID{module.Dial1},
	}
}

// Session holds the current configuration and the module of the active
// connection, if any.
type Session struct {
	opts []slideshow.Option

	mu      sync.Mutex
	cfg     *config.Config
	current *slideshow.Module
}

// New creates a Session starting from cfg. opts are passed to every
// slideshow module it creates.
func New(cfg *config.Config, opts ...slideshow.Option) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Session{cfg: cfg, opts: opts}
}

// Config returns the configuration in effect.
func (s *Session) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Module returns the slideshow of the active connection, or nil.
func (s *Session) Module() *slideshow.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Reload is a config.Watcher callback. A config that fails to load is
// logged and the previous one stays in effect.
func (s *Session) Reload(cfg *config.Config, err error) {
	if err != nil {
		log.Printf("Config reload failed, keeping previous config: %v", err)
		return
	}

	s.mu.Lock()
	s.cfg = cfg
	m := s.current
	s.mu.Unlock()

	log.Printf("Config reloaded (%d slides)", len(cfg.Slides))
	if m == nil {
		return
	}
	if err := m.Reload(cfg); err != nil {
		log.Printf("Failed to apply config: %v", err)
	}
}

// WatchConfig reloads the session whenever the file at path changes, until
// ctx is cancelled.
func (s *Session) WatchConfig(ctx context.Context, path string) error {
	return config.NewWatcher(path).Watch(ctx, s.Reload)
}

// attach creates the connection's module and makes it current in one step,
// so a concurrent Reload either lands in the config it is built from or is
// forwarded to it.
func (s *Session) attach() (*slideshow.Module, *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := slideshow.New(s.cfg, s.opts...)
	s.current = m
	return m, s.cfg
}

func (s *Session) detach(m *slideshow.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == m {
		s.current = nil
	}
}

// RunWithDevice runs the slideshow on dev until ctx is cancelled or the
// device stops listening. The device is left open.
func (s *Session) RunWithDevice(ctx context.Context, dev device.Device) error {
	log.Printf("Connected to: %s", dev.GetModelName())

	// Coordinator and module are created fresh for each connection
	m, cfg := s.attach()
	defer s.detach(m)

	if err := dev.SetBrightness(device.ClampBrightness(cfg.Device.Brightness)); err != nil {
		log.Printf("Failed to set brightness: %v", err)
	}
	dev.ForEachKey(func(key device.KeyID) error {
		return dev.ClearKey(key)
	})

	strip, err := dev.GetTouchStripImageRectangle()
	if err != nil {
		return err
	}

	coord := coordinator.New(dev)
	if err := coord.RegisterModule(m, Resources(strip)); err != nil {
		return err
	}

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- coord.Start(runCtx)
	}()

	log.Printf("Ready! %d slides on the strip", len(cfg.Slides))

	var runErr error
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case runErr = <-errChan:
		if runErr != nil {
			log.Printf("Device disconnected: %v", runErr)
		}
	}

	// Stop coordinator with timeout
	runCancel()

	done := make(chan struct{})
	go func() {
		coord.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(StopTimeout):
		log.Println("Cleanup timed out")
		if runErr == nil {
			runErr = errors.New("session: cleanup timed out")
		}
	}
	return runErr
}
