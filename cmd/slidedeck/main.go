package main

import (
	"os"

	"github.com/phinze/slidedeck/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "slidedeck",
	Short:        "Rotate slides across a Stream Deck Plus touch strip",
	SilenceUsage: true,
	RunE:         runDaemon,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $SLIDEDECK_CONFIG or ~/.config/slidedeck/config.yaml)")
	rootCmd.AddCommand(setupCmd, statusCmd, previewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration, honouring --config.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		os.Setenv("SLIDEDECK_CONFIG", configPath)
	}
	return config.Load()
}
