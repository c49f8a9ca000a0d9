// Package tui previews a slideshow in the terminal.
package tui

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phinze/slidedeck/internal/carousel"
)

const (
	defaultWidth = 60
	maxWidth     = 100
	cardHeight   = 5
)

// FrameInterval is how often the view polls the renderer.
var FrameInterval = time.Second / 30

var (
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dotStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dotActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	frameStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
)

type frameMsg struct{}

// Model is the bubbletea model driving a carousel from the keyboard.
type Model struct {
	carousel *carousel.Carousel
	view     *Renderer
	slides   []Slide
	width    int
	err      error
}

// NewModel creates a model for a carousel drawing into view.
func NewModel(c *carousel.Carousel, view *Renderer, slides []Slide) Model {
	return Model{
		carousel: c,
		view:     view,
		slides:   slides,
		width:    defaultWidth,
	}
}

func tick() tea.Cmd {
	return tea.Tick(FrameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// Init starts the frame ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles key presses, resizes and frame ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(10, min(maxWidth, msg.Width-2))
		return m, nil

	case frameMsg:
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch key := msg.String(); key {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "right", "l", "n":
		err = m.carousel.Next()
	case "left", "h", "p":
		err = m.carousel.Previous()
	case " ":
		if m.carousel.State().Autoplay {
			err = m.carousel.Stop()
		} else {
			err = m.carousel.Play()
		}
	case "u":
		err = m.carousel.Update()
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			_, err = m.carousel.GoTo(int(key[0]-'1'), carousel.DirectionRandom)
		}
	}
	m.err = err
	return m, nil
}

// View renders the current frame, the indicators and a status line.
func (m Model) View() string {
	layers, active := m.view.Snapshot()
	st := m.carousel.State()

	var b strings.Builder
	b.WriteString(frameStyle.Render(m.renderCard(layers)))
	b.WriteString("\n")
	if dots := m.renderDots(active); dots != "" {
		b.WriteString(lipgloss.PlaceHorizontal(m.width+2, lipgloss.Center, dots))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("%s  engine %s", position(st), m.carousel.Engine())
	if st.Autoplay {
		status += fmt.Sprintf("  playing every %s", st.Timeout)
	}
	if st.Locked {
		status += "  moving"
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("←/→ move · 1-9 jump · space play/pause · u refresh · q quit"))
	return b.String()
}

func position(st carousel.State) string {
	if !st.Placed() {
		return "-"
	}
	return fmt.Sprintf("%d/%d", st.Index+1, st.Bound)
}

// renderDots marks the active indicator. Nothing is shown for a single slide.
func (m Model) renderDots(active int) string {
	if len(m.slides) <= 1 {
		return ""
	}
	dots := make([]string, len(m.slides))
	for i := range m.slides {
		if i == active {
			dots[i] = dotActiveStyle.Render("●")
		} else {
			dots[i] = dotStyle.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

// renderCard composes the frame's layers column by column. Each layer is
// shifted by its offset; where layers overlap the most opaque one wins, and
// its colors are faded towards the terminal background by its opacity.
func (m Model) renderCard(layers []carousel.Layer) string {
	width := m.width
	owner := make([]int, width)
	for i := range owner {
		owner[i] = -1
	}

	// Paint the most opaque layer last
	order := slices.Clone(layers)
	slices.SortStableFunc(order, func(a, b carousel.Layer) int {
		switch {
		case a.Opacity < b.Opacity:
			return -1
		case a.Opacity > b.Opacity:
			return 1
		}
		return 0
	})

	shift := make(map[int]int, len(order))
	for li, l := range order {
		if l.Index < 0 || l.Index >= len(m.slides) || l.Opacity <= 0 {
			continue
		}
		dx := int(math.Round(l.Offset * float64(width)))
		shift[li] = dx
		for x := max(0, dx); x < min(width, width+dx); x++ {
			owner[x] = li
		}
	}

	cards := make(map[int][]string, len(order))
	for li, l := range order {
		if _, ok := shift[li]; ok {
			cards[li] = m.cardLines(m.slides[l.Index], width)
		}
	}

	lines := make([]string, cardHeight)
	for y := range cardHeight {
		var line strings.Builder
		for x := 0; x < width; {
			li := owner[x]
			end := x
			for end < width && owner[end] == li {
				end++
			}
			if li < 0 {
				line.WriteString(strings.Repeat(" ", end-x))
			} else {
				row := []rune(cards[li][y])
				seg := string(row[x-shift[li] : end-shift[li]])
				line.WriteString(m.layerStyle(order[li]).Render(seg))
			}
			x = end
		}
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

func (m Model) layerStyle(l carousel.Layer) lipgloss.Style {
	s := m.slides[l.Index]
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex(blend(defaultBackground, s.Color, l.Opacity)))).
		Background(lipgloss.Color(hex(blend(defaultBackground, s.Background, l.Opacity))))
}

// cardLines lays out a slide as cardHeight rows of exactly width runes.
func (m Model) cardLines(s Slide, width int) []string {
	rows := make([]string, cardHeight)
	for i := range rows {
		rows[i] = strings.Repeat(" ", width)
	}
	rows[1] = center(s.Title, width)
	if s.Subtitle != "" {
		rows[3] = center(s.Subtitle, width)
	}
	return rows
}

// center pads or truncates text to exactly width runes.
func center(text string, width int) string {
	r := []rune(text)
	if len(r) > width {
		if width <= 3 {
			return string(r[:width])
		}
		return string(r[:width-3]) + "..."
	}
	left := (width - len(r)) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-len(r)-left)
}
