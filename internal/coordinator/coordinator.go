// Package coordinator manages module lifecycle and routes events to modules.
package coordinator

import (
	"context"
	"image"
	"image/draw"
	"log"
	"sync"
	"time"

	"github.com/phinze/slidedeck/internal/device"
	"github.com/phinze/slidedeck/internal/module"
)

// DefaultRenderInterval is how often modules are rendered when nothing asks
// for an earlier render.
const DefaultRenderInterval = 500 * time.Millisecond

// Coordinator manages the lifecycle of modules and routes events to them.
type Coordinator struct {
	device  device.Device
	modules []module.Module

	moduleResources map[module.Module]module.Resources
	keyOwners       map[module.KeyID]module.Module
	dialOwners      map[module.DialID]module.Module
	failedModules   map[module.Module]bool

	stripRect      image.Rectangle
	renderInterval time.Duration
	invalidate     chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu sync.RWMutex
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRenderInterval sets the periodic render interval.
func WithRenderInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		c.renderInterval = d
	}
}

// New creates a new Coordinator for the given device.
func New(dev device.Device, opts ...Option) *Coordinator {
	c := &Coordinator{
		device:          dev,
		modules:         make([]module.Module, 0),
		moduleResources: make(map[module.Module]module.Resources),
		keyOwners:       make(map[module.KeyID]module.Module),
		dialOwners:      make(map[module.DialID]module.Module),
		failedModules:   make(map[module.Module]bool),
		renderInterval:  DefaultRenderInterval,
		invalidate:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterModule registers a module with its allocated resources.
// Must be called before Start.
func (c *Coordinator) RegisterModule(m module.Module, res module.Resources) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.moduleResources[m] = res
	for _, key := range res.Keys {
		c.keyOwners[key] = m
	}
	for _, dial := range res.Dials {
		c.dialOwners[dial] = m
	}
	c.modules = append(c.modules, m)

	if inv, ok := m.(module.Invalidator); ok {
		inv.SetInvalidate(c.Invalidate)
	}
	return nil
}

// Invalidate schedules a render as soon as the render loop is free.
// Requests made while one is pending are merged.
func (c *Coordinator) Invalidate() {
	select {
	case c.invalidate <- struct{}{}:
	default:
	}
}

// Start initializes all modules and runs until ctx is cancelled or the
// device stops listening.
func (c *Coordinator) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	if c.device.GetTouchStripSupported() {
		rect, err := c.device.GetTouchStripImageRectangle()
		if err == nil {
			c.stripRect = rect
		}
	}

	// A module that fails to start is skipped, the rest keep running.
	for _, m := range c.modules {
		if err := m.Init(c.ctx, c.resourcesForModule(m)); err != nil {
			log.Printf("Module %s failed to initialize: %v (skipping)", m.ID(), err)
			c.markFailed(m)
		}
	}

	c.setupEventHandlers()

	listenErr := make(chan error, 1)
	go func() {
		if err := c.device.Listen(nil); err != nil {
			listenErr <- err
		}
		close(listenErr)
	}()

	c.wg.Add(1)
	go c.renderLoop()

	select {
	case <-c.ctx.Done():
		return nil
	case err := <-listenErr:
		return err
	}
}

// Stop shuts down all modules and waits for the render loop to exit.
func (c *Coordinator) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	for _, m := range c.modules {
		if err := m.Stop(); err != nil {
			log.Printf("Module %s failed to stop: %v", m.ID(), err)
		}
	}
	return nil
}

// Device returns the underlying device.
func (c *Coordinator) Device() device.Device {
	return c.device
}

func (c *Coordinator) resourcesForModule(m module.Module) module.Resources {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.moduleResources[m]
}

func (c *Coordinator) markFailed(m module.Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failedModules[m] = true
}

// active reports whether m is registered and running.
func (c *Coordinator) active(m module.Module) bool {
	if m == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.failedModules[m]
}

// running returns the modules that initialized successfully.
func (c *Coordinator) running() []module.Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]module.Module, 0, len(c.modules))
	for _, m := range c.modules {
		if !c.failedModules[m] {
			out = append(out, m)
		}
	}
	return out
}

// setupEventHandlers registers device handlers that route to the owning
// module.
func (c *Coordinator) setupEventHandlers() {
	for _, key := range module.AllKeys {
		owner := c.keyOwners[key]
		if owner == nil {
			continue
		}
		if err := c.device.AddKeyHandler(key.Device(), func(d device.Device, k device.Key) error {
			return c.handleKey(owner, key, k.WaitForRelease)
		}); err != nil {
			log.Printf("Registering handler for %s: %v", key.Device(), err)
		}
	}

	for _, dial := range module.AllDials {
		owner := c.dialOwners[dial]
		if owner == nil {
			continue
		}
		if err := c.device.AddDialRotateHandler(dial.Device(), func(d device.Device, di device.Dial, delta int8) error {
			if !c.active(owner) {
				return nil
			}
			return owner.HandleDial(dial, module.DialEvent{Type: module.DialRotate, Delta: delta})
		}); err != nil {
			log.Printf("Registering rotate handler for %s: %v", dial.Device(), err)
		}
		if err := c.device.AddDialSwitchHandler(dial.Device(), func(d device.Device, di device.Dial) error {
			return c.handleDialPress(owner, dial, di.WaitForRelease)
		}); err != nil {
			log.Printf("Registering switch handler for %s: %v", dial.Device(), err)
		}
	}

	if c.device.GetTouchStripSupported() {
		if err := c.device.AddTouchStripTouchHandler(func(d device.Device, touchType device.TouchStripTouchType, point image.Point) error {
			return c.routeStripEvent(module.TouchStripEventFromDevice(touchType, point))
		}); err != nil {
			log.Printf("Registering touch strip handler: %v", err)
		}
	}
}

// handleKey delivers a press, waits for the release and delivers it too.
func (c *Coordinator) handleKey(owner module.Module, key module.KeyID, wait func() time.Duration) error {
	if !c.active(owner) {
		return nil
	}
	if err := owner.HandleKey(key, module.KeyEvent{Pressed: true}); err != nil {
		return err
	}
	held := wait()
	err := owner.HandleKey(key, module.KeyEvent{Pressed: false, Duration: held})
	c.Invalidate()
	return err
}

func (c *Coordinator) handleDialPress(owner module.Module, dial module.DialID, wait func() time.Duration) error {
	if !c.active(owner) {
		return nil
	}
	if err := owner.HandleDial(dial, module.DialEvent{Type: module.DialPress}); err != nil {
		return err
	}
	held := wait()
	err := owner.HandleDial(dial, module.DialEvent{Type: module.DialRelease, Duration: held})
	c.Invalidate()
	return err
}

// routeStripEvent dispatches a touch to the module whose strip region
// contains it, in that module's coordinates.
func (c *Coordinator) routeStripEvent(event module.TouchStripEvent) error {
	for _, m := range c.running() {
		res := c.resourcesForModule(m)
		if res.OwnsStripPoint(event.Point) {
			return m.HandleStripTouch(event.Translate(res.StripRect.Min))
		}
	}
	return nil
}

// renderLoop renders on every tick and whenever a module invalidates.
func (c *Coordinator) renderLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.renderInterval)
	defer ticker.Stop()

	c.render()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.render()
		case <-c.invalidate:
			c.render()
		}
	}
}

func (c *Coordinator) render() {
	c.renderKeys()
	c.renderStrip()
}

// renderKeys pushes each module's key images to the device.
func (c *Coordinator) renderKeys() {
	for _, m := range c.running() {
		for keyID, img := range m.RenderKeys() {
			if img == nil {
				continue
			}
			if err := c.device.SetKeyImage(keyID.Device(), img); err != nil {
				log.Printf("Setting %s image: %v", keyID.Device(), err)
			}
		}
	}
}

// renderStrip composites each module's strip image into its region and
// pushes the result to the device.
func (c *Coordinator) renderStrip() {
	if c.stripRect.Empty() {
		return
	}

	composite := image.NewRGBA(c.stripRect)
	drawn := false
	for _, m := range c.running() {
		res := c.resourcesForModule(m)
		if !res.HasStrip() {
			continue
		}
		img := m.RenderStrip()
		if img == nil {
			continue
		}
		draw.Draw(composite, res.StripRect, img, img.Bounds().Min, draw.Over)
		drawn = true
	}

	if !drawn {
		return
	}
	if err := c.device.SetTouchStripImage(composite); err != nil {
		log.Printf("Setting strip image: %v", err)
	}
}
