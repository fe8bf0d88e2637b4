package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gwutama/unitman/internal/rpc"
)

func runPing() {
	client := rpc.NewClient(socketAddr)
	reply, err := client.Ping("ping")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ping failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(reply)
}

func runList() {
	client := rpc.NewClient(socketAddr)
	units, err := client.ListUnits()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list failed: %v\n", err)
		os.Exit(1)
	}
	printUnitTable(os.Stdout, units)
}

func runStart(name string) {
	client := rpc.NewClient(socketAddr)
	if err := client.StartUnit(name); err != nil {
		fmt.Fprintf(os.Stderr, "start %s failed: %v\n", name, err)
		os.Exit(1)
	}
	fmt.Printf("unit %s started\n", name)
}

func runStop(name string) {
	client := rpc.NewClient(socketAddr)
	if err := client.StopUnit(name); err != nil {
		fmt.Fprintf(os.Stderr, "stop %s failed: %v\n", name, err)
		os.Exit(1)
	}
	fmt.Printf("unit %s stopped\n", name)
}

func printUnitTable(w *os.File, units []rpc.UnitInfo) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tIS ENABLED\tRESTART POLICY\tSTATE\tLIVENESS\tUPTIME\tCOMMAND")
	for _, u := range units {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			u.Name,
			strconv.FormatBool(u.Enabled),
			u.RestartPolicy,
			u.State,
			u.LivenessProbeState,
			formatUptime(u.UptimeSeconds),
			formatCommand(u.Executable, u.Arguments),
		)
	}
	tw.Flush()
}

func formatUptime(seconds int64) string {
	if seconds <= 0 {
		return "-"
	}
	d := seconds
	h := d / 3600
	m := (d % 3600) / 60
	s := d % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func formatCommand(executable string, args []string) string {
	if len(args) == 0 {
		return executable
	}
	return executable + " " + strings.Join(args, " ")
}
