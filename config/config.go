package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Mail to calendar
	Google     GoogleConfig
	Calendar   CalendarConfig
	Gmail      GmailConfig
	Gemini     GeminiConfig
	LLM        LLMConfig
	Ledger     LedgerConfig
	Scheduler  SchedulerConfig
	Automation AutomationConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port            int
	Mode            string
	InternalKey     string
	RateLimitPerMin int
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// GoogleConfig locates the OAuth client and its tokens.
// ClientID and ClientSecret take precedence over CredentialsPath.
type GoogleConfig struct {
	CredentialsPath string
	ClientID        string
	ClientSecret    string
	TokenPath       string
	// Account selects token-<account>.json next to TokenPath. Empty uses TokenPath itself.
	Account string
}

const (
	ProviderGoogle = "google"
	ProviderCalDAV = "caldav"
)

type CalendarConfig struct {
	Provider        string
	CalendarID      string
	DefaultTimeZone string
	RateLimitPerSec float64
	CalDAVEndpoint  string
	CalDAVUsername  string
	CalDAVPassword  string
	CalDAVCalendar  string
}

type GmailConfig struct {
	UserID            string
	ConfirmationQuery string
	CancellationQuery string
	MaxResults        int64
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	APIURL  string
	Timeout time.Duration
}

// LLMConfig chains extraction models. Gemini, when configured, is always tried first.
type LLMConfig struct {
	Providers       []ProviderConfig
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      time.Duration
	MaxTotalTimeout time.Duration
}

// ProviderConfig is one fallback model. APIKey may reference the environment as ${VAR}.
type ProviderConfig struct {
	Name     string        `mapstructure:"name"`
	Enabled  bool          `mapstructure:"enabled"`
	Priority int           `mapstructure:"priority"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LedgerConfig struct {
	Dir string
}

type SchedulerConfig struct {
	CheckIntervalMinutes int
	RunOnStart           bool
}

type AutomationConfig struct {
	DryRun             bool
	ProcessedCacheSize int
	ProcessedCacheTTL  time.Duration
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, . and /etc/mailcal/.
// A .env file in the working directory is loaded into the environment first.
func Load() (*Config, error) {
	return load("")
}

// LoadFile loads configuration from an explicit file instead of the search path.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/mailcal/")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.HTTPServer.InternalKey = v.GetString("http_server.internal_key")
	cfg.HTTPServer.RateLimitPerMin = v.GetInt("http_server.rate_limit_per_min")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Google OAuth
	cfg.Google.CredentialsPath = v.GetString("google.credentials_path")
	cfg.Google.ClientID = v.GetString("google.client_id")
	cfg.Google.ClientSecret = v.GetString("google.client_secret")
	cfg.Google.TokenPath = v.GetString("google.token_path")
	cfg.Google.Account = v.GetString("google.account")
	if id := v.GetString("google_client_id"); id != "" {
		cfg.Google.ClientID = id
	}
	if secret := v.GetString("google_client_secret"); secret != "" {
		cfg.Google.ClientSecret = secret
	}

	// Calendar
	cfg.Calendar.Provider = strings.ToLower(v.GetString("calendar.provider"))
	cfg.Calendar.CalendarID = v.GetString("calendar.calendar_id")
	cfg.Calendar.DefaultTimeZone = v.GetString("calendar.default_timezone")
	cfg.Calendar.RateLimitPerSec = v.GetFloat64("calendar.rate_limit_per_sec")
	cfg.Calendar.CalDAVEndpoint = v.GetString("calendar.caldav.endpoint")
	cfg.Calendar.CalDAVUsername = v.GetString("calendar.caldav.username")
	cfg.Calendar.CalDAVPassword = v.GetString("calendar.caldav.password")
	cfg.Calendar.CalDAVCalendar = v.GetString("calendar.caldav.calendar_name")
	if id := v.GetString("calendar_id"); id != "" {
		cfg.Calendar.CalendarID = id
	}

	// Gmail
	cfg.Gmail.UserID = v.GetString("gmail.user_id")
	cfg.Gmail.ConfirmationQuery = v.GetString("gmail.confirmation_query")
	cfg.Gmail.CancellationQuery = v.GetString("gmail.cancellation_query")
	cfg.Gmail.MaxResults = v.GetInt64("gmail.max_results")
	if q := v.GetString("gmail_query"); q != "" {
		cfg.Gmail.ConfirmationQuery = q
	}
	if q := v.GetString("gmail_cancellation_query"); q != "" {
		cfg.Gmail.CancellationQuery = q
	}

	// Gemini
	cfg.Gemini.APIKey = v.GetString("gemini.api_key")
	cfg.Gemini.Model = v.GetString("gemini.model")
	cfg.Gemini.APIURL = v.GetString("gemini.api_url")
	cfg.Gemini.Timeout = v.GetDuration("gemini.timeout")
	if key := v.GetString("gemini_api_key"); key != "" {
		cfg.Gemini.APIKey = key
	}

	// LLM fallback chain
	cfg.LLM.FallbackEnabled = v.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = v.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = v.GetDuration("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = v.GetDuration("llm.max_total_timeout")
	if err := v.UnmarshalKey("llm.providers", &cfg.LLM.Providers); err != nil {
		return nil, fmt.Errorf("invalid llm.providers: %w", err)
	}
	for i := range cfg.LLM.Providers {
		cfg.LLM.Providers[i].Name = strings.ToLower(cfg.LLM.Providers[i].Name)
		cfg.LLM.Providers[i].APIKey = os.ExpandEnv(cfg.LLM.Providers[i].APIKey)
	}

	cfg.Ledger.Dir = v.GetString("ledger.dir")

	cfg.Scheduler.CheckIntervalMinutes = v.GetInt("scheduler.check_interval_minutes")
	cfg.Scheduler.RunOnStart = v.GetBool("scheduler.run_on_start")
	if v.IsSet("check_interval_minutes") {
		cfg.Scheduler.CheckIntervalMinutes = v.GetInt("check_interval_minutes")
	}

	cfg.Automation.DryRun = v.GetBool("automation.dry_run")
	cfg.Automation.ProcessedCacheSize = v.GetInt("automation.processed_cache_size")
	cfg.Automation.ProcessedCacheTTL = v.GetDuration("automation.processed_cache_ttl")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Calendar.Provider {
	case ProviderGoogle:
	case ProviderCalDAV:
		if cfg.Calendar.CalDAVEndpoint == "" {
			return errors.New("calendar.caldav.endpoint is required for the caldav provider")
		}
	default:
		return fmt.Errorf("unknown calendar.provider %q (want %s or %s)", cfg.Calendar.Provider, ProviderGoogle, ProviderCalDAV)
	}

	if _, err := time.LoadLocation(cfg.Calendar.DefaultTimeZone); err != nil {
		return fmt.Errorf("invalid calendar.default_timezone %q: %w", cfg.Calendar.DefaultTimeZone, err)
	}
	if cfg.Scheduler.CheckIntervalMinutes <= 0 {
		return fmt.Errorf("scheduler.check_interval_minutes must be positive, got %d", cfg.Scheduler.CheckIntervalMinutes)
	}
	if cfg.Calendar.RateLimitPerSec < 0 {
		return errors.New("calendar.rate_limit_per_sec must not be negative")
	}
	for i, p := range cfg.LLM.Providers {
		if p.Name == "" {
			return fmt.Errorf("llm.providers[%d]: name is required", i)
		}
		if p.Enabled && p.APIKey == "" {
			return fmt.Errorf("llm provider %s: api_key is required when enabled", p.Name)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("http_server.rate_limit_per_min", 60)
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("google.credentials_path", "credentials.json")
	v.SetDefault("google.token_path", "token.json")

	v.SetDefault("calendar.provider", ProviderGoogle)
	v.SetDefault("calendar.calendar_id", "primary")
	v.SetDefault("calendar.default_timezone", "Europe/Madrid")
	v.SetDefault("calendar.rate_limit_per_sec", 5)

	v.SetDefault("gmail.user_id", "me")
	v.SetDefault("gmail.max_results", 10)
	v.SetDefault("gmail.confirmation_query", "is:unread")

	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.timeout", "30s")

	v.SetDefault("llm.fallback_enabled", true)
	v.SetDefault("llm.retry_attempts", 2)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.max_total_timeout", "90s")

	v.SetDefault("ledger.dir", "generatedEvents")

	v.SetDefault("scheduler.check_interval_minutes", 5)
	v.SetDefault("scheduler.run_on_start", true)

	v.SetDefault("automation.processed_cache_size", 1000)
	v.SetDefault("automation.processed_cache_ttl", "24h")
}
