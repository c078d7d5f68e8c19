package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-mimelite/config"
	"github.com/zostay/go-mimelite/message"
)

var (
	rootCmd = &cobra.Command{
		Use:           "mimelite",
		Short:         "Build MIME messages and hand them off for delivery",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	configPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the command named on the command line.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the --config file, if one was given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return &config.Config{}, nil
	}
	return config.Load(configPath)
}

// messageOptions are the options from the configuration file with the command
// line options applied last.
func messageOptions(cfg *config.Config, extra ...message.Option) []message.Option {
	return append(cfg.Options(), extra...)
}
