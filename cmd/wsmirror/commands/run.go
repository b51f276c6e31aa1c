package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wsmirror/wsmirror/internal/api"
	"github.com/wsmirror/wsmirror/internal/config"
	"github.com/wsmirror/wsmirror/internal/komorebi"
	"github.com/wsmirror/wsmirror/internal/logger"
	"github.com/wsmirror/wsmirror/internal/mirror"
)

// Attempts at the very first startup query before giving up. The daemon
// may come up later, but an operator should see the service fail rather
// than idle forever with nothing to serve.
const startupQueryAttempts = 30

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the workspace mirror service",
	Long: `Run the mirror: query the daemon's initial state, subscribe to its
notification stream and serve the mirrored workspaces over the HTTP API.`,
	Example: `  # Run with defaults
  wsmirror run

  # Run on a custom port with debug logging
  wsmirror run --port 9090 --log-level debug`,
	RunE: runService,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// loadConfig builds the effective configuration from file plus flag
// overrides, shared by all commands.
func loadConfig() (config.Config, error) {
	manager, err := config.NewManager(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to initialize config manager: %w", err)
	}

	if viper.IsSet("server_port") {
		if port := viper.GetInt("server_port"); port > 0 {
			manager.SetPort(port)
		}
	}
	if viper.IsSet("log_level") {
		if level := viper.GetString("log_level"); level != "" {
			manager.SetLogLevel(level)
		}
	}

	return manager.Get(), nil
}

func sessionConfig(cfg config.Config) mirror.SessionConfig {
	dir := cfg.Daemon.SubscriberDir
	if dir == "" {
		dir = filepath.Dir(cfg.Daemon.ControlSocket)
	}
	return mirror.SessionConfig{
		SocketDir:    dir,
		SocketName:   cfg.Daemon.SubscriberName,
		ConnectRetry: cfg.Daemon.ConnectRetry(),
		Resubscribe:  cfg.Daemon.Resubscribe(),
		ReadTimeout:  cfg.Daemon.ReadTimeout(),
		Options: komorebi.SubscribeOptions{
			FilterStateChanges: cfg.Daemon.SubscribeStateOnly,
		},
	}
}

func runService(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, false)
	log := logger.WithComponent("run")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := komorebi.NewClient(cfg.Daemon.ControlSocket, 5*time.Second)

	// Initial fetch, retried while the daemon comes up
	var initial mirror.Snapshot
	for attempt := 1; ; attempt++ {
		initial, err = mirror.ReadWorkspaces(ctx, client)
		if err == nil {
			break
		}
		if attempt >= startupQueryAttempts {
			return fmt.Errorf("initial state query failed after %d attempts: %w", attempt, err)
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("initial state query failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.Daemon.ConnectRetry()):
		}
	}
	log.Info().Int("workspaces", len(initial)).Msg("initial workspace state loaded")

	consumer := mirror.NewConsumer()
	consumer.Bootstrap(initial)

	session := mirror.NewSession(client, mirror.NewFilter(), sessionConfig(cfg))

	sessionDone := make(chan error, 1)
	go func() {
		sessionDone <- session.Run(ctx)
	}()
	go consumer.Run(ctx, session.Updates())

	server := api.NewServer(consumer, client)
	go func() {
		if err := server.Start(cfg.ServerPort); err != nil {
			log.Error().Err(err).Msg("API server stopped")
			stop()
		}
	}()
	log.Info().Int("port", cfg.ServerPort).Msg("wsmirror is running")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if err := <-sessionDone; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("session failed: %w", err)
	}
	return nil
}
