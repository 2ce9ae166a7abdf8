package cmd

import (
	"context"

	"proptax-robot/lib/agent"
	"proptax-robot/lib/serviceutil"
	"proptax-robot/lib/telemetry"
	"proptax-robot/services/harvester"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(harvestCmd)
}

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Ingests new adjustment reports from the archive without touching the inbox.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		config, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		err = telemetry.SetupFromEnv(ctx, "robot")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer telemetry.Shutdown(context.Background())

		store, err := openStore(ctx, config)
		if err != nil {
			serviceutil.Fatal("failed to open the report store", err)
		}

		desktop := agent.NewClient(config.Agent)
		harvest := harvester.NewService(store, archiveBridge{desktop}, config.HarvestWindowDays)

		err = harvest.Run(ctx)
		if err != nil {
			serviceutil.Fatal("harvest failed", err)
		}
	},
}
