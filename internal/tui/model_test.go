package tui

import (
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phinze/slidedeck/internal/carousel"
	"github.com/phinze/slidedeck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
)

func newTestModel(t *testing.T, titles ...string) (Model, *carousel.Carousel, *Renderer) {
	t.Helper()
	cfgs := make([]config.SlideConfig, len(titles))
	for i, title := range titles {
		cfgs[i] = config.SlideConfig{Title: title, Subtitle: "sub " + title}
	}
	slides, err := SlidesFromConfig(cfgs)
	require.NoError(t, err)

	r := NewRenderer()
	c, err := carousel.New(len(slides), r,
		carousel.WithDuration(0),
		carousel.WithClock(clockz.NewFakeClock()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return NewModel(c, r, slides), c, r
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_Navigation(t *testing.T) {
	m, c, _ := newTestModel(t, "alpha", "beta", "gamma")
	assert.Contains(t, m.View(), "alpha")
	assert.Contains(t, m.View(), "1/3")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, c.State().Index)
	assert.Contains(t, m.View(), "beta")
	assert.NotContains(t, m.View(), "alpha")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 2, c.State().Index)

	m = update(t, m, keyRunes("2"))
	assert.Equal(t, 1, c.State().Index)
	assert.Equal(t, carousel.DirectionRandom, c.State().Direction)
	assert.Contains(t, m.View(), "2/3")
}

func TestModel_JumpOutOfRange(t *testing.T) {
	m, c, _ := newTestModel(t, "alpha", "beta")

	m = update(t, m, keyRunes("9"))
	assert.Equal(t, 0, c.State().Index)
	assert.Nil(t, m.err)
}

func TestModel_PlayPause(t *testing.T) {
	m, c, _ := newTestModel(t, "alpha", "beta")

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, c.State().Autoplay)
	assert.Contains(t, m.View(), "playing every")

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.False(t, c.State().Autoplay)
	assert.NotContains(t, m.View(), "playing every")
}

func TestModel_Refresh(t *testing.T) {
	m, c, r := newTestModel(t, "alpha", "beta")
	frames := r.Frames()

	update(t, m, keyRunes("u"))
	assert.Equal(t, 0, c.State().Index)
	assert.Greater(t, r.Frames(), frames)
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newTestModel(t, "alpha")

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ShowsErrors(t *testing.T) {
	m, c, _ := newTestModel(t, "alpha", "beta")
	require.NoError(t, c.Close())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.ErrorIs(t, m.err, carousel.ErrClosed)
	assert.Contains(t, m.View(), "closed")
}

func TestModel_Dots(t *testing.T) {
	m, _, _ := newTestModel(t, "alpha", "beta", "gamma")
	assert.Equal(t, 1, strings.Count(m.View(), "●"))
	assert.Equal(t, 2, strings.Count(m.View(), "○"))

	single, _, _ := newTestModel(t, "alpha")
	assert.NotContains(t, single.View(), "●")
	assert.NotContains(t, single.View(), "○")
}

func TestModel_Resize(t *testing.T) {
	m, _, _ := newTestModel(t, "alpha")
	m = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 20})
	assert.Equal(t, 40, m.width)

	m = update(t, m, tea.WindowSizeMsg{Width: 500, Height: 20})
	assert.Equal(t, maxWidth, m.width)
}

func TestRenderCard_SlideLayers(t *testing.T) {
	m, _, _ := newTestModel(t, "left", "right")
	m.width = 40

	card := m.renderCard([]carousel.Layer{
		{Index: 0, Offset: -0.5, Opacity: 1},
		{Index: 1, Offset: 0.5, Opacity: 1},
	})
	lines := strings.Split(card, "\n")
	require.Len(t, lines, cardHeight)

	// Each slide shows the half that is still in the viewport
	title := lines[1]
	assert.Less(t, strings.Index(title, "ft"), strings.Index(title, "ri"))
}

func TestRenderCard_FadePicksMostOpaque(t *testing.T) {
	m, _, _ := newTestModel(t, "alpha", "beta")

	card := m.renderCard([]carousel.Layer{
		{Index: 0, Opacity: 0.8},
		{Index: 1, Opacity: 0.2},
	})
	assert.Contains(t, card, "alpha")
	assert.NotContains(t, card, "beta")
}

func TestCenter(t *testing.T) {
	assert.Equal(t, "  ab  ", center("ab", 6))
	assert.Equal(t, "abc...", center("abcdefghij", 6))
	assert.Equal(t, "ab", center("abcdef", 2))
}

func TestBlend(t *testing.T) {
	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}
	assert.Equal(t, black, blend(black, white, 0))
	assert.Equal(t, white, blend(black, white, 1))
	assert.Equal(t, color.RGBA{128, 128, 128, 255}, blend(black, white, 0.5))
}

func TestSlidesFromConfig(t *testing.T) {
	slides, err := SlidesFromConfig([]config.SlideConfig{
		{Title: "t", Color: "red", Background: "#000080"},
		{Image: "photo.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, slides[0].Color)
	assert.Equal(t, color.RGBA{0, 0, 128, 255}, slides[0].Background)
	assert.Equal(t, "[image] photo.png", slides[1].Title)

	_, err = SlidesFromConfig([]config.SlideConfig{{Title: "t", Color: "nope"}})
	assert.Error(t, err)
}
