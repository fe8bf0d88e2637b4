// Command unitmand is the unitman supervisor daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "unitmand",
	Short: "unitman process supervisor daemon",
	Long: `unitmand brings up a declarative inventory of long-running units in
dependency order, monitors them with process and liveness probes,
restarts failed units per policy, and exposes a local control plane
that unitmanctl talks to.`,
	Run: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to the TOML configuration file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if env := os.Getenv("UNITMAN_CONFIG"); env != "" {
		return env
	}
	return "/etc/unitman/unitman.toml"
}
