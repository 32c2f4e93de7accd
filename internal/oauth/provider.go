package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gramm/internal/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

var ErrNoVerifiedEmail = errors.New("identity provider returned no verified email")

// Provider exchanges an authorization code for the user's verified email.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	VerifiedEmail(ctx context.Context, code string) (string, error)
}

type emailFetcher func(ctx context.Context, client *http.Client, url string) (string, error)

type provider struct {
	name     string
	conf     *oauth2.Config
	emailURL string
	fetch    emailFetcher
}

func (p *provider) Name() string {
	return p.name
}

func (p *provider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *provider) VerifiedEmail(ctx context.Context, code string) (string, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange %s code: %w", p.name, err)
	}

	email, err := p.fetch(ctx, p.conf.Client(ctx, token), p.emailURL)
	if err != nil {
		return "", err
	}

	return strings.ToLower(strings.TrimSpace(email)), nil
}

func callbackURL(base, name string) string {
	return strings.TrimSuffix(base, "/") + "/api/auth/social/" + name + "/callback"
}

func NewGitHub(cfg config.OAuthProvider, redirectBase string) Provider {
	return &provider{
		name: "github",
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoints.GitHub,
			RedirectURL:  callbackURL(redirectBase, "github"),
			Scopes:       []string{"user:email"},
		},
		emailURL: "https://api.github.com/user/emails",
		fetch:    fetchGitHubEmail,
	}
}

func NewGoogle(cfg config.OAuthProvider, redirectBase string) Provider {
	return &provider{
		name: "google",
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoints.Google,
			RedirectURL:  callbackURL(redirectBase, "google"),
			Scopes:       []string{"openid", "email"},
		},
		emailURL: "https://openidconnect.googleapis.com/v1/userinfo",
		fetch:    fetchGoogleEmail,
	}
}

// NewProviders returns the providers that have credentials configured.
func NewProviders(cfg config.OAuth) map[string]Provider {
	providers := make(map[string]Provider)
	if cfg.GitHub.ClientID != "" {
		providers["github"] = NewGitHub(cfg.GitHub, cfg.RedirectBaseURL)
	}
	if cfg.Google.ClientID != "" {
		providers["google"] = NewGoogle(cfg.Google, cfg.RedirectBaseURL)
	}
	return providers
}

func getJSON(ctx context.Context, client *http.Client, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

func fetchGitHubEmail(ctx context.Context, client *http.Client, url string) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, client, url, &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", ErrNoVerifiedEmail
}

func fetchGoogleEmail(ctx context.Context, client *http.Client, url string) (string, error) {
	var info struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := getJSON(ctx, client, url, &info); err != nil {
		return "", err
	}

	if info.Email == "" || !info.EmailVerified {
		return "", ErrNoVerifiedEmail
	}
	return info.Email, nil
}
