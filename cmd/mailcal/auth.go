package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"mail-calendar-automation/internal/app"
	"mail-calendar-automation/pkg/googleauth"
)

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize Gmail and Calendar access and store the token.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "account", Usage: "store the token as token-<account>.json instead of the configured token file"},
			&cli.DurationFlag{Name: "timeout", Value: googleauth.DefaultCallbackWait, Usage: "how long to wait for the browser callback"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if account := c.String("account"); account != "" {
				cfg.Google.Account = account
			}

			creds := app.Credentials(cfg)
			oauthCfg, err := googleauth.OAuthConfig(creds, googleauth.Scopes...)
			if err != nil {
				return err
			}

			tok, err := googleauth.LocalCallbackFlow(c.Context, oauthCfg, creds.TokenPath, c.App.Writer, c.Duration("timeout"))
			if err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}

			path, _ := filepath.Abs(creds.TokenPath)
			fmt.Fprintf(c.App.Writer, "Token saved to %s (expires %s)\n", path, tok.Expiry.Format("2006-01-02 15:04"))
			return nil
		},
	}
}
