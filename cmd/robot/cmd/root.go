package cmd

import (
	"fmt"
	"os"
	"proptax-robot/lib/agent"
	"proptax-robot/lib/configuration"
	"proptax-robot/lib/getorganized"
	"proptax-robot/lib/graphmail"
	"proptax-robot/lib/telemetry"
	"proptax-robot/services/inquiry"

	"github.com/spf13/cobra"
)

type Config struct {
	Database     configuration.Database `json:"database"`
	Agent        agent.Config           `json:"agent"`
	Graph        graphmail.Config       `json:"graph"`
	GetOrganized getorganized.Config    `json:"getorganized"`
	Smtp         inquiry.SmtpConfig     `json:"smtp"`
	Inquiry      inquiry.Config         `json:"inquiry"`

	HarvestWindowDays int `json:"harvest_window_days"`
	// how many times a full pass is attempted before the run is given
	// up, the desktop applications fail transiently all the time
	MaxRetryCount int `json:"max_retry_count"`
}

var configFile string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "robot",
	Short: "robot answers property tax inquiries for the municipality's tax office.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.json5", "path to the robot's config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func readConfig() (Config, error) {
	config, err := configuration.ReadConfig[Config](configFile)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return config, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
