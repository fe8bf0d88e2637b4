// Command unitmanctl is the control-plane client for unitmand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	socketAddr string

	pingFlag  bool
	listFlag  bool
	startName string
	stopName  string
)

var rootCmd = &cobra.Command{
	Use:   "unitmanctl",
	Short: "control-plane client for unitmand",
	Long: `unitmanctl talks to a running unitmand over its local control plane.

Examples:
  unitmanctl --ping
  unitmanctl --list
  unitmanctl --start web
  unitmanctl --stop web
  unitmanctl tui`,
	Run: runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&socketAddr, "socket", "s", defaultSocketAddr(), "control-plane socket address")

	rootCmd.Flags().BoolVar(&pingFlag, "ping", false, "ping the daemon")
	rootCmd.Flags().BoolVar(&listFlag, "list", false, "list all units")
	rootCmd.Flags().StringVar(&startName, "start", "", "start the named unit")
	rootCmd.Flags().StringVar(&stopName, "stop", "", "stop the named unit")
	rootCmd.MarkFlagsMutuallyExclusive("ping", "list", "start", "stop")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultSocketAddr() string {
	if env := os.Getenv("UNITMAN_SOCKET"); env != "" {
		return env
	}
	return "ipc:///tmp/tsm-unitman.sock"
}

func runRoot(cmd *cobra.Command, args []string) {
	switch {
	case pingFlag:
		runPing()
	case listFlag:
		runList()
	case startName != "":
		runStart(startName)
	case stopName != "":
		runStop(stopName)
	default:
		_ = cmd.Help()
	}
}
