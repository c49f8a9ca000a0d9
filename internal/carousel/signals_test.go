package carousel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/capitan"
)

func TestSignals_Moved(t *testing.T) {
	const id = "signals-moved"

	var mu sync.Mutex
	var moves []string
	capitan.Hook(CarouselMoved, func(_ context.Context, e *capitan.Event) {
		if got, _ := KeyCarousel.From(e); got != id {
			return
		}
		dir, _ := KeyDirection.From(e)
		mu.Lock()
		moves = append(moves, dir)
		mu.Unlock()
	})

	c, _, _ := newTestCarousel(t, 3, WithID(id))
	require.NoError(t, c.Next())
	require.NoError(t, c.Previous())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(moves) == 3
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"setup", "next", "previous"}, moves)
}
