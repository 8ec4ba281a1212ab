package auth

import (
	"context"
	"fmt"

	"github.com/chikhali-gp/portal/backend/config"
	"github.com/descope/go-sdk/descope"
	"github.com/descope/go-sdk/descope/client"
)

const ProviderDescope = "descope"

// SessionValidator checks a Descope session token.
type SessionValidator interface {
	ValidateSessionWithToken(ctx context.Context, sessionToken string) (bool, *descope.Token, error)
}

// DescopeProvider accepts a session token minted by a Descope flow in the
// browser.
type DescopeProvider struct {
	validator SessionValidator
}

func NewDescopeProvider(projectID string) (*DescopeProvider, error) {
	c, err := client.NewWithConfig(&client.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("descope: init client: %w", err)
	}
	return NewDescopeProviderWithValidator(c.Auth), nil
}

func NewDescopeProviderWithValidator(v SessionValidator) *DescopeProvider {
	return &DescopeProvider{validator: v}
}

// DescopeFromConfig returns nil when DESCOPE_PROJECT_ID is unset.
func DescopeFromConfig(cfg map[string]string) (*DescopeProvider, error) {
	projectID := config.GetString(cfg, "DESCOPE_PROJECT_ID", "")
	if projectID == "" {
		return nil, nil
	}
	return NewDescopeProvider(projectID)
}

func (p *DescopeProvider) Name() string { return ProviderDescope }

func (p *DescopeProvider) Authenticate(ctx context.Context, sessionToken string) (*Identity, error) {
	if sessionToken == "" {
		return nil, fmt.Errorf("descope: sign-in cancelled")
	}
	ok, token, err := p.validator.ValidateSessionWithToken(ctx, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("descope: validate session: %w", err)
	}
	if !ok || token == nil {
		return nil, fmt.Errorf("descope: session rejected")
	}
	return identityFromClaims(token.ID, token.Claims)
}

func identityFromClaims(subject string, claims map[string]interface{}) (*Identity, error) {
	str := func(key string) string {
		s, _ := claims[key].(string)
		return s
	}
	id := &Identity{ID: subject, Name: str("name"), Email: str("email"), Photo: str("picture")}
	if id.ID == "" {
		id.ID = str("sub")
	}
	if id.Email == "" {
		return nil, fmt.Errorf("descope: session has no email claim")
	}
	return id, nil
}
