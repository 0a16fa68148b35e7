package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"mail-calendar-automation/config"
	"mail-calendar-automation/internal/app"
	"mail-calendar-automation/pkg/googleauth"
)

const defaultAccount = "default"

func accountsCommand() *cli.Command {
	return &cli.Command{
		Name:  "accounts",
		Usage: "Manage stored Google tokens.",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored tokens and their expiry.",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					accounts, err := googleauth.DiscoverAccounts(tokenDir(cfg))
					if err != nil {
						return err
					}
					if len(accounts) == 0 {
						fmt.Fprintln(c.App.Writer, "No stored tokens, run `mailcal auth` first.")
						return nil
					}

					tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "NAME\tEXPIRY\tREFRESHABLE\tFILE")
					for _, acc := range accounts {
						expiry := "-"
						if acc.Err != nil {
							expiry = "unreadable: " + acc.Err.Error()
						} else if !acc.Expiry.IsZero() {
							expiry = acc.Expiry.Format("2006-01-02 15:04")
						}
						fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", acc.Name, expiry, acc.Refreshable, acc.TokenPath)
					}
					return tw.Flush()
				},
			},
			{
				Name:  "remove",
				Usage: "Delete a stored token.",
				Flags: []cli.Flag{nameFlag()},
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					path := accountTokenPath(cfg, c.String("name"))
					if err := os.Remove(path); err != nil {
						if errors.Is(err, os.ErrNotExist) {
							return cli.Exit(fmt.Sprintf("no token stored for %q", c.String("name")), 1)
						}
						return err
					}
					fmt.Fprintf(c.App.Writer, "Removed %s\n", path)
					return nil
				},
			},
			{
				Name:  "refresh",
				Usage: "Refresh a stored token now.",
				Flags: []cli.Flag{nameFlag()},
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					creds := app.Credentials(cfg)
					creds.TokenPath = accountTokenPath(cfg, c.String("name"))

					session, err := googleauth.NewSession(c.Context, creds)
					if err != nil {
						return err
					}
					if err := session.Refresh(c.Context); err != nil {
						return err
					}
					tok, err := session.Token()
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Refreshed %s, expires %s\n", creds.TokenPath, tok.Expiry.Format("2006-01-02 15:04"))
					return nil
				},
			},
		},
	}
}

func nameFlag() cli.Flag {
	return &cli.StringFlag{Name: "name", Required: true, Usage: "account name (default for the plain token file)"}
}

func tokenDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Google.TokenPath)
}

func accountTokenPath(cfg *config.Config, name string) string {
	if name == "" || name == defaultAccount {
		return cfg.Google.TokenPath
	}
	return googleauth.AccountTokenPath(tokenDir(cfg), name)
}
