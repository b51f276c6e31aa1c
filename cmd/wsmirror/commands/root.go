package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "wsmirror",
		Short: "wsmirror - live workspace mirror for a tiling window-manager daemon",
		Long: `wsmirror maintains a low-latency mirror of the window-manager daemon's
workspace state and republishes it to status bars and switcher widgets.

It subscribes to the daemon's notification stream, reconnects automatically
when the daemon restarts, and recomputes the workspace summary only for
events that can actually change it.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wsmirror/config.yaml)")
	rootCmd.PersistentFlags().Int("port", 0, "API server port (default is 8552)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	viper.BindPFlag("server_port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
