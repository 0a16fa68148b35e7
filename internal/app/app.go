package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"mail-calendar-automation/config"
	"mail-calendar-automation/internal/automation"
	"mail-calendar-automation/internal/calendar"
	caldavRepo "mail-calendar-automation/internal/calendar/repository/caldav"
	googleRepo "mail-calendar-automation/internal/calendar/repository/google"
	"mail-calendar-automation/internal/correlation"
	"mail-calendar-automation/internal/extraction"
	"mail-calendar-automation/internal/ledger"
	pkgCaldav "mail-calendar-automation/pkg/caldav"
	"mail-calendar-automation/pkg/gcalendar"
	"mail-calendar-automation/pkg/gmail"
	"mail-calendar-automation/pkg/googleauth"
	"mail-calendar-automation/pkg/llmprovider"
	"mail-calendar-automation/pkg/log"
)

// Options tunes what New wires.
type Options struct {
	// DryRun overrides automation.dry_run when true.
	DryRun bool
	// RequireMailbox fails when Gmail cannot be reached instead of running without a mailbox.
	RequireMailbox bool
}

// App holds the wired pipeline components.
type App struct {
	Config     *config.Config
	Location   *time.Location
	Session    *googleauth.Session
	Calendar   calendar.Repository
	Correlator correlation.UseCase
	Extractor  extraction.Extractor
	Ledger     *ledger.FileStore
	Pipeline   automation.UseCase
}

// TokenPath returns the token file of the configured account.
func TokenPath(cfg *config.Config) string {
	if cfg.Google.Account == "" {
		return cfg.Google.TokenPath
	}
	return googleauth.AccountTokenPath(filepath.Dir(cfg.Google.TokenPath), cfg.Google.Account)
}

// Credentials returns the OAuth credentials of the configured account.
func Credentials(cfg *config.Config) googleauth.Credentials {
	return googleauth.Credentials{
		CredentialsPath: cfg.Google.CredentialsPath,
		ClientID:        cfg.Google.ClientID,
		ClientSecret:    cfg.Google.ClientSecret,
		TokenPath:       TokenPath(cfg),
	}
}

// New wires every component from cfg.
func New(ctx context.Context, cfg *config.Config, l log.Logger, opt Options) (*App, error) {
	loc, err := time.LoadLocation(cfg.Calendar.DefaultTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid default timezone: %w", err)
	}
	a := &App{Config: cfg, Location: loc}

	// 1. Google session (Gmail always, Calendar for the google provider)
	session, err := googleauth.NewSession(ctx, Credentials(cfg))
	if err != nil {
		if opt.RequireMailbox || cfg.Calendar.Provider == config.ProviderGoogle {
			return nil, fmt.Errorf("google credentials unavailable, run `mailcal auth` first: %w", err)
		}
		l.Warnf(ctx, "Google credentials unavailable, running without a mailbox: %v", err)
	} else {
		a.Session = session
	}

	// 2. Calendar repository
	repo, err := a.newCalendar(ctx, l)
	if err != nil {
		return nil, err
	}
	a.Calendar = calendar.WithRateLimit(repo, calendar.NewLimiter(cfg.Calendar.RateLimitPerSec))

	// 3. Correlation
	a.Correlator = correlation.New(a.Calendar, l)

	// 4. Extraction
	var gen extraction.Generator
	providers, err := llmprovider.InitializeProviders(cfg)
	switch {
	case len(providers) > 0:
		if err != nil {
			l.Warnf(ctx, "Some LLM providers were skipped: %v", err)
		}
		gen = llmprovider.NewManager(providers, llmprovider.Config{
			FallbackEnabled: cfg.LLM.FallbackEnabled,
			RetryAttempts:   cfg.LLM.RetryAttempts,
			RetryDelay:      cfg.LLM.RetryDelay,
			MaxTotalTimeout: cfg.LLM.MaxTotalTimeout,
		}, l)
		l.Infof(ctx, "LLM chain ready: %d provider(s), primary model %s", len(providers), providers[0].Model())
	case errors.Is(err, llmprovider.ErrNoProvidersConfigured):
		l.Warn(ctx, "No LLM configured (GEMINI_API_KEY or llm.providers), only calendar invites will be understood")
	default:
		return nil, fmt.Errorf("failed to initialize LLM providers: %w", err)
	}
	a.Extractor, err = extraction.New(gen, extraction.Options{DefaultTimeZone: cfg.Calendar.DefaultTimeZone}, l)
	if err != nil {
		return nil, err
	}

	// 5. Ledger
	a.Ledger = ledger.NewFileStore(cfg.Ledger.Dir, l)

	// 6. Mailbox
	var mailbox automation.Mailbox
	if a.Session != nil {
		client, err := gmail.NewClientFromTokenSource(ctx, a.Session, cfg.Gmail.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to create gmail client: %w", err)
		}
		mailbox = automation.NewGmailMailbox(client)
	}

	// 7. Pipeline
	a.Pipeline = automation.New(mailbox, a.Extractor, a.Correlator, a.Calendar, a.Ledger, automation.Options{
		ConfirmationQuery:  cfg.Gmail.ConfirmationQuery,
		CancellationQuery:  cfg.Gmail.CancellationQuery,
		MaxResults:         cfg.Gmail.MaxResults,
		DryRun:             cfg.Automation.DryRun || opt.DryRun,
		ProcessedCacheSize: cfg.Automation.ProcessedCacheSize,
		ProcessedCacheTTL:  cfg.Automation.ProcessedCacheTTL,
	}, l)

	l.Infof(ctx, "Pipeline ready: calendar=%s zone=%s dry_run=%t", cfg.Calendar.Provider, loc, cfg.Automation.DryRun || opt.DryRun)
	return a, nil
}

func (a *App) newCalendar(ctx context.Context, l log.Logger) (calendar.Repository, error) {
	cfg := a.Config
	switch cfg.Calendar.Provider {
	case config.ProviderCalDAV:
		client, err := pkgCaldav.New(ctx, pkgCaldav.Config{
			Endpoint:     cfg.Calendar.CalDAVEndpoint,
			Username:     cfg.Calendar.CalDAVUsername,
			Password:     cfg.Calendar.CalDAVPassword,
			CalendarName: cfg.Calendar.CalDAVCalendar,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to caldav: %w", err)
		}
		return caldavRepo.New(client, cfg.Calendar.DefaultTimeZone)

	default:
		client, err := gcalendar.NewClientFromTokenSource(ctx, a.Session)
		if err != nil {
			return nil, fmt.Errorf("failed to create calendar client: %w", err)
		}
		repo, err := googleRepo.New(client, googleRepo.Options{
			CalendarID:      cfg.Calendar.CalendarID,
			DefaultTimeZone: cfg.Calendar.DefaultTimeZone,
		})
		if err != nil {
			return nil, err
		}
		return calendar.WithReauth(repo, a.Session, l), nil
	}
}
