package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wsmirror/wsmirror/internal/komorebi"
	"github.com/wsmirror/wsmirror/internal/logger"
	"github.com/wsmirror/wsmirror/internal/mirror"
	"github.com/wsmirror/wsmirror/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the mirrored workspaces in the terminal",
	Long: `Watch runs its own subscription session and renders the mirrored
workspace slots live in the terminal. Number keys focus the matching
workspace.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The TUI owns the terminal; keep log output out of it
	logger.Init(cfg.LogLevel, false)
	logger.Logger = logger.Logger.Output(io.Discard)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := komorebi.NewClient(cfg.Daemon.ControlSocket, 5*time.Second)
	initial, err := mirror.ReadWorkspaces(ctx, client)
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}

	consumer := mirror.NewConsumer()
	consumer.Bootstrap(initial)

	session := mirror.NewSession(client, mirror.NewFilter(), sessionConfig(cfg))
	go session.Run(ctx)
	go consumer.Run(ctx, session.Updates())

	updates := consumer.Subscribe()
	defer consumer.Unsubscribe(updates)

	program := tea.NewProgram(tui.New(consumer.Workspaces(), updates, client))
	_, err = program.Run()
	return err
}
