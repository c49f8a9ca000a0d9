package module

import (
	"context"
	"image"
	"sync"
)

// BaseModule provides no-op implementations of Module. Embed it and override
// what the module needs.
type BaseModule struct {
	id        string
	resources Resources
	ctx       context.Context
	cancel    context.CancelFunc

	invalidateMu sync.RWMutex
	invalidate   func()
}

// NewBaseModule creates a BaseModule with the given ID.
func NewBaseModule(id string) BaseModule {
	return BaseModule{id: id}
}

// ID returns the module's identifier.
func (b *BaseModule) ID() string {
	return b.id
}

// Init stores the context and resources. Modules overriding Init must call it.
func (b *BaseModule) Init(ctx context.Context, resources Resources) error {
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.resources = resources
	return nil
}

// Stop cancels the module's context.
func (b *BaseModule) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	return nil
}

// SetInvalidate implements Invalidator.
func (b *BaseModule) SetInvalidate(fn func()) {
	b.invalidateMu.Lock()
	defer b.invalidateMu.Unlock()
	b.invalidate = fn
}

// Invalidate asks the coordinator for a render. It is a no-op until
// SetInvalidate has been called.
func (b *BaseModule) Invalidate() {
	b.invalidateMu.RLock()
	fn := b.invalidate
	b.invalidateMu.RUnlock()
	if fn != nil {
		fn()
	}
}

// RenderKeys returns nil.
func (b *BaseModule) RenderKeys() map[KeyID]image.Image {
	return nil
}

// RenderStrip returns nil.
func (b *BaseModule) RenderStrip() image.Image {
	return nil
}

// HandleKey is a no-op.
func (b *BaseModule) HandleKey(id KeyID, event KeyEvent) error {
	return nil
}

// HandleDial is a no-op.
func (b *BaseModule) HandleDial(id DialID, event DialEvent) error {
	return nil
}

// HandleStripTouch is a no-op.
func (b *BaseModule) HandleStripTouch(event TouchStripEvent) error {
	return nil
}

// Resources returns the resources allocated at Init.
func (b *BaseModule) Resources() Resources {
	return b.resources
}

// Context returns the module's context.
func (b *BaseModule) Context() context.Context {
	return b.ctx
}
