package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winvelocity/internal/daemon"
	"github.com/1broseidon/winvelocity/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the window and start the simulation (default)",
	Args:  cobra.NoArgs,
	RunE:  runApp,
}

func init() {
	rootCmd.AddCommand(runCmd)
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().String("display", "", "X display to connect to (overrides config)")
		c.Flags().String("log-level", "", "Log level: debug, info, warning, error (overrides config)")
		c.Flags().Uint64("seed", 0, "Decoration seed (overrides config; 0 = random)")
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q", args[0])
	}

	res, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg := res.Config

	if v, _ := cmd.Flags().GetString("display"); v != "" {
		cfg.Display = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetUint64("seed"); v != 0 {
		cfg.Seed = v
	}

	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	for _, f := range res.Files {
		logger.Debug("config loaded", "file", f)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return daemon.Run(ctx, daemon.Options{
		Config: cfg,
		Logger: logger,
	})
}
