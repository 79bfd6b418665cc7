package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winvelocity/internal/ipc"
	"github.com/1broseidon/winvelocity/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running simulation's state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := ipc.NewClient().GetStatus()
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), status)
		}
		printStatus(cmd.OutOrStdout(), status)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the window between static and bouncing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := ipc.NewClient().Toggle()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "toggle requested (was %s)\n", status.Snapshot.Mode)
		return nil
	},
}

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List monitors as seen by the running instance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := ipc.NewClient().GetMonitors()
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), data)
		}
		printMonitors(cmd.OutOrStdout(), data)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of the simulation state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		interval, _ := cmd.Flags().GetDuration("interval")
		return tui.Run(ipc.NewClient(), res.Config.Colors, interval)
	},
}

func init() {
	statusCmd.Flags().Bool("json", false, "Print JSON")
	monitorsCmd.Flags().Bool("json", false, "Print JSON")
	watchCmd.Flags().Duration("interval", 250*time.Millisecond, "Polling interval")
	rootCmd.AddCommand(statusCmd, toggleCmd, monitorsCmd, watchCmd)
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	snap := status.Snapshot
	fmt.Fprintf(w, "mode:            %s\n", snap.Mode)
	fmt.Fprintf(w, "dynamic:         %v\n", snap.Dynamic)
	fmt.Fprintf(w, "position_m:      %.3f, %.3f\n", snap.Position.X, snap.Position.Y)
	fmt.Fprintf(w, "velocity_mps:    %.3f, %.3f\n", snap.Velocity.X, snap.Velocity.Y)
	fmt.Fprintf(w, "window_px:       %.0f, %.0f\n", snap.WindowPosition.X, snap.WindowPosition.Y)
	if snap.Origin != nil {
		fmt.Fprintf(w, "drag_origin_px:  %.0f, %.0f\n", snap.Origin.X, snap.Origin.Y)
	}
	fmt.Fprintf(w, "decorations:     %d\n", snap.Decorations)
	fmt.Fprintf(w, "ticks:           %d\n", snap.Ticks)
	fmt.Fprintf(w, "uptime_seconds:  %d\n", status.UptimeSeconds)
}

func printMonitors(w io.Writer, data *ipc.MonitorsData) {
	for _, m := range data.Monitors {
		primary := ""
		if m.Primary {
			primary = " (primary)"
		}
		fmt.Fprintf(w, "%d: %s %dx%d+%d+%d%s\n", m.ID, m.Name, m.Width, m.Height, m.X, m.Y, primary)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
