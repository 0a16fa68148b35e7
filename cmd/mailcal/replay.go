package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"mail-calendar-automation/internal/app"
	"mail-calendar-automation/internal/automation"
	"mail-calendar-automation/internal/model"
)

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "Run one saved message through the pipeline.",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "message JSON file, or - for stdin"},
			&cli.StringFlag{Name: "kind", Value: string(model.KindConfirmation), Usage: "confirmation or cancellation"},
			&cli.BoolFlag{Name: "dry-run", Usage: "report the decision without touching the calendar or the ledger"},
		},
		Action: func(c *cli.Context) error {
			kind := model.MessageKind(c.String("kind"))
			if kind != model.KindConfirmation && kind != model.KindCancellation {
				return cli.Exit(fmt.Sprintf("unknown kind %q", kind), 2)
			}
			msg, err := readMessage(c.String("file"), c.App.Reader)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			a, err := app.New(c.Context, cfg, newLogger(cfg), app.Options{DryRun: c.Bool("dry-run")})
			if err != nil {
				return err
			}

			var out automation.Outcome
			if kind == model.KindCancellation {
				out, err = a.Pipeline.ProcessCancellation(c.Context, msg)
			} else {
				out, err = a.Pipeline.ProcessConfirmation(c.Context, msg)
			}
			if perr := printJSON(c.App.Writer, out); perr != nil {
				return perr
			}
			return err
		},
	}
}

func readMessage(path string, stdin io.Reader) (model.Message, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return model.Message{}, err
		}
		defer f.Close()
		r = f
	}

	var msg model.Message
	if err := json.NewDecoder(r).Decode(&msg); err != nil {
		return model.Message{}, fmt.Errorf("failed to decode message: %w", err)
	}
	if msg.ID == "" {
		msg.ID = "replay"
	}
	return msg, nil
}
