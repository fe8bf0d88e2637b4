package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gwutama/unitman/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive dashboard of supervised units",
	Run: func(cmd *cobra.Command, args []string) {
		if err := tui.Run(socketAddr); err != nil {
			fmt.Fprintf(os.Stderr, "tui: %v\n", err)
			os.Exit(1)
		}
	},
}
