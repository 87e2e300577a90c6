package gcal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrNoToken means the backend has never been authorized.
var ErrNoToken = errors.New("gcal: no saved token, run `todor auth <backend>` first")

// OAuthConfig reads an installed-app client secret downloaded from the
// Google API console.
func OAuthConfig(credentialsPath string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("gcal: read credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("gcal: parse credentials %s: %w", credentialsPath, err)
	}
	return cfg, nil
}

// NewService builds a calendar client that keeps tokenPath up to date as the
// access token is refreshed.
func NewService(ctx context.Context, credentialsPath, tokenPath string) (*calendar.Service, error) {
	cfg, err := OAuthConfig(credentialsPath)
	if err != nil {
		return nil, err
	}
	tok, err := loadToken(tokenPath)
	if err != nil {
		return nil, err
	}
	ts := &savingTokenSource{
		path: tokenPath,
		src:  oauth2.ReuseTokenSource(tok, cfg.TokenSource(ctx, tok)),
		last: tok.AccessToken,
	}
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("gcal: new service: %w", err)
	}
	return svc, nil
}

// Authorize runs the copy-paste consent flow and saves the token.
func Authorize(ctx context.Context, credentialsPath, tokenPath string, in io.Reader, out io.Writer) error {
	cfg, err := OAuthConfig(credentialsPath)
	if err != nil {
		return err
	}
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = "urn:ietf:wg:oauth:2.0:oob"
	}
	url := cfg.AuthCodeURL("todor", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open this link, allow access and paste the code here:\n\n%s\n\ncode: ", url)

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("gcal: read code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("gcal: no code entered")
	}
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("gcal: exchange code: %w", err)
	}
	return saveToken(tokenPath, tok)
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("gcal: read token: %w", err)
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("gcal: parse token %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("gcal: token dir: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("gcal: write token: %w", err)
	}
	return os.Rename(tmp, path)
}

type savingTokenSource struct {
	path string
	src  oauth2.TokenSource

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := saveToken(s.path, tok); err != nil {
			return nil, err
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
