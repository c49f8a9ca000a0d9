package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/phinze/slidedeck/internal/carousel"
	"github.com/phinze/slidedeck/internal/config"
	"github.com/phinze/slidedeck/internal/device"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check config, secrets, and device health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Slidedeck Status ===")
	fmt.Println()

	allOK := true

	// Config file
	cfg, err := loadConfig()
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n", configPath)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("  Status: found")
	} else {
		fmt.Println("  Status: NOT FOUND")
		allOK = false
	}
	if err != nil {
		fmt.Printf("  Load error: %v\n", err)
		allOK = false
	}
	fmt.Println()

	// Carousel
	fmt.Println("Carousel:")
	if cfg != nil {
		c := cfg.Carousel
		fmt.Printf("  Engine: %s (%s, %dms)\n", c.Engine, c.Easing, c.DurationMS)
		fmt.Printf("  Available engines: %s\n", strings.Join(carousel.DefaultRegistry.Names(), ", "))
		fmt.Printf("  Autoplay: %t every %dms\n", c.Autoplay, c.TimeoutMS)
		switch n := len(cfg.Slides); n {
		case 0:
			fmt.Println("  Slides: NONE")
			allOK = false
		case 1:
			fmt.Println("  Slides: 1 (navigation hidden)")
		default:
			fmt.Printf("  Slides: %d\n", n)
		}
	}

	if _, err := config.GetKeychainSecret(config.KeyImageToken); err == nil {
		fmt.Println("  Image token (Keychain): set")
	} else if cfg != nil && cfg.ImageToken != "" {
		fmt.Println("  Image token (env): set")
	} else {
		fmt.Println("  Image token: not set (only needed for private image URLs)")
	}
	fmt.Println()

	// Device check (quick USB probe)
	fmt.Println("Stream Deck:")
	dev, err := device.OpenHardware(2 * time.Second)
	if err == nil {
		fmt.Printf("  Device: CONNECTED (%s)\n", dev.GetModelName())
		dev.Close()
	} else {
		fmt.Printf("  Device: not detected (%v)\n", err)
	}
	fmt.Println()

	if allOK {
		fmt.Println("All checks passed.")
	} else {
		fmt.Println("Some checks failed. Run 'slidedeck setup' to configure.")
	}

	return nil
}
