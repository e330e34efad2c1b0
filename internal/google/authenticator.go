package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// ErrStateMismatch is returned when the authorization callback carries a
// state value other than the one sent with the consent URL.
var ErrStateMismatch = errors.New("authorization callback state mismatch")

// Authenticator obtains a brand-new token through user interaction.
type Authenticator interface {
	Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)

// Authorize calls f.
func (f AuthenticatorFunc) Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	return f(ctx, conf)
}

// LocalServerAuthenticator runs the installed-application flow: it listens
// on a loopback port, sends the user to the consent page and exchanges the
// code delivered to the callback.
type LocalServerAuthenticator struct {
	// Host is the loopback address to listen on (default 127.0.0.1).
	Host string

	// Out receives the consent URL (default os.Stderr).
	Out io.Writer

	// OpenBrowser is called with the consent URL. Nil skips opening a browser.
	OpenBrowser func(url string) error

	// Timeout bounds the wait for the callback. Zero waits until ctx ends.
	Timeout time.Duration
}

// NewLocalServerAuthenticator returns an authenticator that prints the URL to
// stderr and tries to open the system browser.
func NewLocalServerAuthenticator() *LocalServerAuthenticator {
	return &LocalServerAuthenticator{
		Host:        "127.0.0.1",
		Out:         os.Stderr,
		OpenBrowser: OpenBrowser,
		Timeout:     5 * time.Minute,
	}
}

type callbackResult struct {
	code string
	err  error
}

// Authorize implements Authenticator.
func (a *LocalServerAuthenticator) Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	host := a.Host
	if host == "" {
		host = "127.0.0.1"
	}
	out := a.Out
	if out == nil {
		out = os.Stderr
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}

	c := *conf
	c.RedirectURL = "http://" + ln.Addr().String() + "/"

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := c.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		_ = srv.Serve(ln)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(out, "Open the following URL in your browser to authorize duesync:\n\n%s\n\n", authURL)
	if a.OpenBrowser != nil {
		if err := a.OpenBrowser(authURL); err != nil {
			fmt.Fprintf(out, "Could not open a browser automatically: %v\n", err)
		}
	}

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	var res callbackResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return nil, fmt.Errorf("timed out waiting for authorization: %w", ctx.Err())
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := c.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return tok, nil
}

func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		q := r.URL.Query()
		var res callbackResult
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("state") != state:
			res.err = ErrStateMismatch
		case q.Get("code") == "":
			res.err = errors.New("authorization callback is missing the code")
		default:
			res.code = q.Get("code")
		}

		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "Authorization complete. You may close this window.")
		}

		// Only the first callback counts.
		select {
		case results <- res:
		default:
		}
	})
}

// OpenBrowser opens url with the platform's default handler.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
