package cmd

import (
	"os"

	"proptax-robot/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <property number>",
	Short: "Prints the adjustment reports that mention a property.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		config, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		store, err := openStore(ctx, config)
		if err != nil {
			serviceutil.Fatal("failed to open the report store", err)
		}

		mentions, err := store.Lookup(ctx, args[0])
		if err != nil {
			serviceutil.Fatal("lookup failed", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Report Date", "Tax Year"})

		for _, m := range mentions {
			t.AppendRow(table.Row{m.ReportDate, m.TaxYear})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
