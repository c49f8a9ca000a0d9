package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/phinze/slidedeck/internal/carousel"
	"github.com/phinze/slidedeck/internal/config"
	"github.com/phinze/slidedeck/internal/modules/slideshow"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: write config and store secrets in Keychain",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Slidedeck Setup ===")
	fmt.Println()

	// Load existing config as defaults
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Existing config ignored: %v\n\n", err)
		cfg = config.Default()
	}

	fmt.Println("-- Carousel --")
	cfg.Carousel.Engine = prompt(reader, fmt.Sprintf("Transition engine (%s)", strings.Join(carousel.DefaultRegistry.Names(), ", ")), cfg.Carousel.Engine)
	cfg.Carousel.Easing = prompt(reader, "Easing (swing, linear)", cfg.Carousel.Easing)
	cfg.Carousel.DurationMS = promptInt(reader, "Transition duration (ms)", cfg.Carousel.DurationMS)
	cfg.Carousel.TimeoutMS = promptInt(reader, "Autoplay interval (ms)", cfg.Carousel.TimeoutMS)
	cfg.Carousel.Autoplay = prompt(reader, "Autoplay on start (y/n)", yesNo(cfg.Carousel.Autoplay)) == "y"
	fmt.Println()

	fmt.Println("-- Device --")
	cfg.Device.Brightness = promptInt(reader, "Brightness (0-100)", cfg.Device.Brightness)
	fmt.Println()

	fmt.Println("-- Slides --")
	if len(cfg.Slides) == 0 {
		fmt.Printf("  No slides yet. Icons available: %s\n", strings.Join(slideshow.IconNames(), ", "))
		for {
			title := prompt(reader, "Slide title (blank to finish)", "")
			if title == "" {
				break
			}
			cfg.Slides = append(cfg.Slides, config.SlideConfig{
				Title:    title,
				Subtitle: prompt(reader, "  Subtitle", ""),
				Icon:     prompt(reader, "  Icon", ""),
			})
		}
	} else {
		fmt.Printf("  Keeping %d slides (edit %s to change them)\n", len(cfg.Slides), config.DefaultConfigPath())
	}
	fmt.Println()

	fmt.Println("-- Remote images --")
	token := promptSecret(reader, "Bearer token for image URLs", cfg.ImageToken != "")
	if token != "" {
		if err := config.SetKeychainSecret(config.KeyImageToken, token); err != nil {
			return fmt.Errorf("storing image token in Keychain: %w", err)
		}
		fmt.Println("  -> Stored in Keychain")
	} else {
		fmt.Println("  -> Kept existing")
	}
	fmt.Println()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := config.WriteConfigFile(cfg); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("Config written to %s\n", config.DefaultConfigPath())
	fmt.Println("Setup complete!")
	return nil
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

// promptInt asks for a number, keeping the default on empty or bad input.
func promptInt(reader *bufio.Reader, label string, defaultVal int) int {
	v, err := strconv.Atoi(prompt(reader, label, strconv.Itoa(defaultVal)))
	if err != nil {
		fmt.Println("  -> Not a number, kept default")
		return defaultVal
	}
	return v
}

// promptSecret asks for a secret value. If one already exists, allows keeping it.
func promptSecret(reader *bufio.Reader, label string, hasExisting bool) string {
	if hasExisting {
		fmt.Printf("  %s [press Enter to keep existing]: ", label)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
