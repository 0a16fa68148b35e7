package googleauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

var ErrAuthTimeout = errors.New("authorization not completed in time")

const (
	successPage = `<html><body style="font-family:sans-serif;text-align:center;padding:50px">` +
		`<h1>Authorization complete</h1><p>You can close this window.</p></body></html>`
	failurePage = `<html><body style="font-family:sans-serif;text-align:center;padding:50px">` +
		`<h1>Authorization failed</h1><p>%s</p></body></html>`
)

// LocalCallbackFlow runs the installed-app consent flow: it listens on a
// random localhost port, prints the consent URL to out, exchanges the code
// the browser is redirected with, and saves the token at tokenPath.
// It gives up after wait (DefaultCallbackWait when zero).
func LocalCallbackFlow(ctx context.Context, cfg *oauth2.Config, tokenPath string, out io.Writer, wait time.Duration) (*oauth2.Token, error) {
	if wait <= 0 {
		wait = DefaultCallbackWait
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}

	flowCfg := *cfg
	flowCfg.RedirectURL = fmt.Sprintf("http://localhost:%d", ln.Addr().(*net.TCPAddr).Port)
	state := uuid.NewString()

	type result struct {
		tok *oauth2.Token
		err error
	}
	done := make(chan result, 1)

	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("code") == "" && q.Get("error") == "" {
				http.NotFound(w, r)
				return
			}

			var res result
			switch {
			case q.Get("error") != "":
				res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
			case q.Get("state") != state:
				res.err = errors.New("authorization state mismatch")
			default:
				res.tok, res.err = flowCfg.Exchange(r.Context(), q.Get("code"))
			}

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if res.err != nil {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintf(w, failurePage, res.err.Error())
			} else {
				fmt.Fprint(w, successPage)
			}

			select {
			case done <- res:
			default:
			}
		}),
	}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(out, "Authorization server listening on %s\n", flowCfg.RedirectURL)
	fmt.Fprintf(out, "Authorize this application by visiting:\n\n%s\n\n",
		flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")))

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if err := SaveToken(tokenPath, res.tok); err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "Token saved to %s\n", tokenPath)
		return res.tok, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrAuthTimeout, wait)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
