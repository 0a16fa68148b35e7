package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"mail-calendar-automation/internal/ledger"
	"mail-calendar-automation/pkg/log"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Summarize the decision ledger.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the raw counters"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			store := ledger.NewFileStore(cfg.Ledger.Dir, log.NewNop())
			st, err := store.Stats(c.Context)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(c.App.Writer, st)
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Ledger\t%s\n", store.Dir())
			fmt.Fprintf(tw, "Total\t%d\n", st.Total)
			fmt.Fprintf(tw, "Created\t%d\n", st.Created)
			fmt.Fprintf(tw, "Skipped\t%d\n", st.Skipped)
			fmt.Fprintf(tw, "Failed\t%d\n", st.Failed)
			fmt.Fprintf(tw, "Deleted\t%d\n", st.Deleted)
			fmt.Fprintf(tw, "Cancellation not found\t%d\n", st.CancellationNotFound)
			fmt.Fprintf(tw, "Deletion failed\t%d\n", st.DeletionFailed)
			fmt.Fprintf(tw, "Cancellation errors\t%d\n", st.CancellationError)

			dates := make([]string, 0, len(st.ByDate))
			for d := range st.ByDate {
				dates = append(dates, d)
			}
			sort.Strings(dates)
			for _, d := range dates {
				fmt.Fprintf(tw, "  %s\t%d\n", d, st.ByDate[d])
			}
			return tw.Flush()
		},
	}
}
