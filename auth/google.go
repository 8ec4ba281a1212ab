package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chikhali-gp/portal/backend/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	ProviderGoogle     = "google"
	googleUserInfoURL  = "https://openidconnect.googleapis.com/v1/userinfo"
	googleSelectPrompt = "select_account"
)

// GoogleProvider signs users in through the Google OAuth redirect flow. The
// credential it authenticates is the authorization code from the callback.
type GoogleProvider struct {
	oauth       *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: googleUserInfoURL,
	}
}

// GoogleFromConfig returns nil when GOOGLE_CLIENT_ID is unset.
func GoogleFromConfig(cfg map[string]string) *GoogleProvider {
	clientID := config.GetString(cfg, "GOOGLE_CLIENT_ID", "")
	if clientID == "" {
		return nil
	}
	return NewGoogleProvider(
		clientID,
		config.GetString(cfg, "GOOGLE_CLIENT_SECRET", ""),
		config.GetString(cfg, "GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
	)
}

func (p *GoogleProvider) Name() string { return ProviderGoogle }

// AuthCodeURL is where the browser goes to pick an account.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", googleSelectPrompt))
}

func (p *GoogleProvider) Authenticate(ctx context.Context, code string) (*Identity, error) {
	if code == "" {
		return nil, fmt.Errorf("google: sign-in cancelled")
	}
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google: exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("google: fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google: userinfo responded with %s", resp.Status)
	}

	var info struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("google: decode userinfo: %w", err)
	}
	if info.Sub == "" || info.Email == "" {
		return nil, fmt.Errorf("google: userinfo missing subject or email")
	}
	return &Identity{ID: info.Sub, Name: info.Name, Email: info.Email, Photo: info.Picture}, nil
}
