package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wsmirror/wsmirror/internal/komorebi"
	"github.com/wsmirror/wsmirror/internal/logger"
)

var focusCmd = &cobra.Command{
	Use:   "focus <index>",
	Short: "Focus the workspace at the given index (0-based)",
	Args:  cobra.ExactArgs(1),
	RunE:  runFocus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
}

func runFocus(cmd *cobra.Command, args []string) error {
	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 0 {
		return fmt.Errorf("invalid workspace index %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, true)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	client := komorebi.NewClient(cfg.Daemon.ControlSocket, 5*time.Second)
	return client.FocusWorkspace(ctx, idx)
}
