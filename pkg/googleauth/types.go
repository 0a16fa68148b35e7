package googleauth

import (
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
)

// Scopes requested by the mail-to-calendar pipeline.
var Scopes = []string{
	gmail.GmailReadonlyScope,
	gmail.GmailModifyScope,
	calendar.CalendarScope,
}

const (
	DefaultTokenFile    = "token.json"
	DefaultCallbackWait = 5 * time.Minute
)

// Credentials locates the OAuth client and the stored user token.
// ClientID/ClientSecret take precedence over CredentialsPath when both are set.
type Credentials struct {
	CredentialsPath string
	ClientID        string
	ClientSecret    string
	TokenPath       string
}

// Account is a token file found on disk.
type Account struct {
	Name        string
	TokenPath   string
	Expiry      time.Time
	Refreshable bool
	Err         error // set when the file could not be parsed
}
