package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"mail-calendar-automation/internal/app"
	"mail-calendar-automation/internal/automation"
	"mail-calendar-automation/internal/scheduler"
)

const stopTimeout = 30 * time.Second

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Process the inbox once or keep polling it.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "once", Usage: "process the inbox once and exit"},
			&cli.IntFlag{Name: "watch", Usage: "poll every N minutes (default: scheduler.check_interval_minutes)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "report decisions without touching the calendar, the mailbox or the ledger"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("once") && c.IsSet("watch") {
				return cli.Exit("--once and --watch are mutually exclusive", 2)
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			ctx := c.Context

			a, err := app.New(ctx, cfg, logger, app.Options{DryRun: c.Bool("dry-run"), RequireMailbox: true})
			if err != nil {
				return err
			}

			if c.Bool("once") {
				out, err := a.Pipeline.ProcessInbox(ctx)
				printSummary(c.App.Writer, out)
				return err
			}

			interval := cfg.Scheduler.CheckIntervalMinutes
			if c.IsSet("watch") {
				interval = c.Int("watch")
			}
			s, err := scheduler.New(func(ctx context.Context) error {
				out, err := a.Pipeline.ProcessInbox(ctx)
				logger.Infof(ctx, "Poll finished: processed=%d already_seen=%d", out.Processed(), out.AlreadySeen)
				return err
			}, scheduler.Config{IntervalMinutes: interval, RunOnStart: true}, logger)
			if err != nil {
				return err
			}
			if err := s.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
			defer cancel()
			return s.Stop(stopCtx)
		},
	}
}

func printSummary(w io.Writer, out automation.InboxOutput) {
	for _, o := range append(out.Confirmations, out.Cancellations...) {
		line := fmt.Sprintf("%-12s %-24s %-22s %s", o.Kind, o.MessageID, actionLabel(o), o.Subject)
		if o.Error != "" {
			line += "  (" + o.Error + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "Processed %d message(s), %d already seen.\n", out.Processed(), out.AlreadySeen)
}

func actionLabel(o automation.Outcome) string {
	switch {
	case o.Action == "":
		return "retry"
	case o.DryRun:
		return string(o.Action) + " (dry run)"
	default:
		return string(o.Action)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
