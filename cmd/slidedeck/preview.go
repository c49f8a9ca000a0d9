package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phinze/slidedeck/internal/carousel"
	"github.com/phinze/slidedeck/internal/tui"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview the slideshow in the terminal",
	RunE:  runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	slides, err := tui.SlidesFromConfig(cfg.Slides)
	if err != nil {
		return err
	}

	opts, err := cfg.Carousel.Options()
	if err != nil {
		return err
	}
	opts = append(opts, carousel.WithContext(cmd.Context()), carousel.WithID("preview"))

	view := tui.NewRenderer()
	c, err := carousel.New(len(slides), view, opts...)
	if err != nil {
		return fmt.Errorf("creating carousel: %w", err)
	}
	defer c.Close()

	p := tea.NewProgram(tui.NewModel(c, view, slides), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
