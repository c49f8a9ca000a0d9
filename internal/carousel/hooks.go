package carousel

// Hook names fired by the Carousel.
const (
	HookMove           = "move"
	HookNext           = "next"
	HookPrevious       = "previous"
	HookPlay           = "play"
	HookStop           = "stop"
	HookUpdate         = "update"
	HookSyncNavigation = "syncNavigation"
)

// Hook is a lifecycle callback. It receives the Carousel that fired it and
// may call back into it.
type Hook func(c *Carousel)

// Hooks maps hook names to callbacks. One callback per name.
type Hooks map[string]Hook

// hookBus dispatches named hooks. It holds its own copy of the caller's map.
type hookBus struct {
	hooks map[string]Hook
}

// newHookBus copies hooks and installs the default navigation sync unless the
// caller registered one. A syncNavigation key with a nil Hook disables it.
func newHookBus(hooks Hooks) *hookBus {
	b := &hookBus{hooks: make(map[string]Hook, len(hooks)+1)}
	for name, fn := range hooks {
		b.hooks[name] = fn
	}
	if _, ok := b.hooks[HookSyncNavigation]; !ok {
		b.hooks[HookSyncNavigation] = SyncNavigation
	}
	return b
}

// fire calls the hook registered under name, if any.
func (b *hookBus) fire(name string, c *Carousel) {
	if fn := b.hooks[name]; fn != nil {
		fn(c)
	}
}
