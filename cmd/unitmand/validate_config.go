package main

import (
	"fmt"
	"os"

	"github.com/gwutama/unitman/internal/config"
	"github.com/spf13/cobra"
)

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Validate the configuration file and exit",
	Run:   runValidateConfig,
}

func runValidateConfig(cmd *cobra.Command, args []string) {
	path := configPath()

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(exitConfigErr)
	}

	order, err := cfg.ConstructionOrder()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(exitConfigErr)
	}

	fmt.Printf("configuration is valid: %s\n", path)
	fmt.Printf("  units: %d\n", len(cfg.Units))
	fmt.Printf("  construction order: %v\n", order)
	os.Exit(exitOK)
}
