package googleauth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/oauth2"
)

// ReadToken loads an oauth2 token from path.
func ReadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file %s: %w", path, err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}
	return &tok, nil
}

// SaveToken writes tok to path with owner-only permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tok); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// AccountTokenPath returns the token file for a named account inside dir.
// The empty name maps to token.json.
func AccountTokenPath(dir, account string) string {
	if account == "" {
		return filepath.Join(dir, DefaultTokenFile)
	}
	return filepath.Join(dir, "token-"+account+".json")
}

// DiscoverAccounts lists token.json and token-<name>.json files in dir.
func DiscoverAccounts(dir string) ([]Account, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var accounts []Account
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		var account string
		switch {
		case name == DefaultTokenFile:
			account = "default"
		case strings.HasPrefix(name, "token-"):
			account = strings.TrimSuffix(strings.TrimPrefix(name, "token-"), ".json")
		default:
			continue
		}

		a := Account{Name: account, TokenPath: filepath.Join(dir, name)}
		tok, err := ReadToken(a.TokenPath)
		if err != nil {
			a.Err = err
		} else {
			a.Expiry = tok.Expiry
			a.Refreshable = tok.RefreshToken != ""
		}
		accounts = append(accounts, a)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}
