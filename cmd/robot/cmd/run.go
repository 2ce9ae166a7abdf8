package cmd

import (
	"context"
	"log/slog"

	"proptax-robot/lib/agent"
	"proptax-robot/lib/getorganized"
	"proptax-robot/lib/graphmail"
	"proptax-robot/lib/reportstore"
	"proptax-robot/lib/serviceutil"
	"proptax-robot/lib/telemetry"
	"proptax-robot/services/harvester"
	"proptax-robot/services/inquiry"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs a full pass: harvest new adjustment reports, then answer every waiting inquiry.",
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
		telemetry.InstrumentPerfStats(ctx)

		store, err := openStore(ctx, config)
		if err != nil {
			serviceutil.Fatal("failed to open the report store", err)
		}

		desktop := agent.NewClient(config.Agent)
		harvest := harvester.NewService(store, archiveBridge{desktop}, config.HarvestWindowDays)

		graph := graphmail.NewClient(config.Graph)
		err = graph.Login(ctx)
		if err != nil {
			serviceutil.Fatal("failed to log in to the graph api", err)
		}

		inbox := inquiry.NewService(
			store,
			registerBridge{desktop},
			ledgerBridge{desktop},
			graph,
			getorganized.NewClient(config.GetOrganized),
			inquiry.NewSmtpMailer(config.Smtp),
			config.Inquiry,
		)

		retries := config.MaxRetryCount
		if retries <= 0 {
			retries = 3
		}

		for attempt := 1; attempt <= retries; attempt++ {
			err = runPass(ctx, harvest, inbox)
			if err == nil {
				return
			}
			slog.Error("pass failed", "attempt", attempt, "err", err)
		}
		serviceutil.Fatal("giving up after repeated failures", err)
	},
}

func runPass(ctx context.Context, harvest harvester.Service, inbox inquiry.Service) error {
	err := harvest.Run(ctx)
	if err != nil {
		return err
	}
	return inbox.Run(ctx)
}

func openStore(ctx context.Context, config Config) (reportstore.Store, error) {
	db, err := config.Database.OpenDB()
	if err != nil {
		return reportstore.Store{}, err
	}
	store := reportstore.NewStore(db)
	err = store.Init(ctx)
	if err != nil {
		return reportstore.Store{}, err
	}
	return store, nil
}
