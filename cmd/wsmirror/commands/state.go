package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wsmirror/wsmirror/internal/komorebi"
	"github.com/wsmirror/wsmirror/internal/logger"
	"github.com/wsmirror/wsmirror/internal/mirror"
)

var stateJSON bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Query and print the current workspace state once",
	RunE:  runState,
}

func init() {
	stateCmd.Flags().BoolVar(&stateJSON, "json", false, "print the projected workspaces as JSON")
	rootCmd.AddCommand(stateCmd)
}

func runState(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, true)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	client := komorebi.NewClient(cfg.Daemon.ControlSocket, 5*time.Second)
	workspaces, err := mirror.ReadWorkspaces(ctx, client)
	if err != nil {
		return err
	}

	if stateJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(workspaces)
	}

	for i, ws := range workspaces {
		marker := " "
		if ws.Classification == mirror.WorkspaceFocused {
			marker = "*"
		}
		fmt.Printf("%s %d  %-12s %s\n", marker, i, ws.Name, ws.Classification)
	}
	return nil
}
