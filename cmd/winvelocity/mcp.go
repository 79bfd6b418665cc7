package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winvelocity/internal/ipc"
	"github.com/1broseidon/winvelocity/internal/logging"
	"github.com/1broseidon/winvelocity/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: "Start the MCP server on stdio. Tools forward to a running winvelocity over its\n" +
		"control socket.\n\n" +
		"Example:\n  claude mcp add winvelocity -- winvelocity mcp serve",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// stdout carries the protocol; logs go to stderr or the log file.
		logger, closer, err := logging.New(res.Config.LogLevel, res.Config.LogFile)
		if err != nil {
			return err
		}
		defer closer.Close()

		server, err := mcp.NewServer(ipc.NewClient(), logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx)
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
