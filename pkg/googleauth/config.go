package googleauth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var ErrNoClientConfig = errors.New("no OAuth client configured: set google.client_id/client_secret or google.credentials_path")

// OAuthConfig builds the installed-app OAuth config from explicit client
// credentials or a downloaded credentials JSON file.
func OAuthConfig(creds Credentials, scopes ...string) (*oauth2.Config, error) {
	if len(scopes) == 0 {
		scopes = Scopes
	}
	if creds.ClientID != "" && creds.ClientSecret != "" {
		return &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		}, nil
	}
	if creds.CredentialsPath == "" {
		return nil, ErrNoClientConfig
	}

	data, err := os.ReadFile(creds.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials %q: %w", creds.CredentialsPath, err)
	}
	return cfg, nil
}

// TokenSourceFromJSON returns a token source for service account JSON, or for
// installed-app JSON combined with the token stored at tokenPath.
func TokenSourceFromJSON(ctx context.Context, credentialsJSON []byte, tokenPath string, scopes ...string) (oauth2.TokenSource, error) {
	if len(scopes) == 0 {
		scopes = Scopes
	}

	if jwtCfg, err := google.JWTConfigFromJSON(credentialsJSON, scopes...); err == nil {
		return jwtCfg.TokenSource(ctx), nil
	}

	cfg, err := google.ConfigFromJSON(credentialsJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unsupported credentials format: %w", err)
	}
	tok, err := ReadToken(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("installed-app credentials need a token, run the auth command first: %w", err)
	}
	return cfg.TokenSource(ctx, tok), nil
}
