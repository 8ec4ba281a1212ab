package auth

import (
	"context"

	"github.com/chikhali-gp/portal/backend/models"
)

// Identity is what a sign-in provider vouches for.
type Identity struct {
	ID    string
	Name  string
	Email string
	Photo string
}

// User is the minimal projection of a signed-in account kept in the session.
type User struct {
	ID          string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
	Provider    string `json:"provider"`
}

// Provider exchanges a provider-specific credential (an authorization code,
// a session token) for an identity.
type Provider interface {
	Name() string
	Authenticate(ctx context.Context, credential string) (*Identity, error)
}

// RoleStore is where role assignments are kept.
type RoleStore interface {
	FindAll(ctx context.Context) ([]models.RoleAssignment, error)
	Add(ctx context.Context, record models.RoleAssignment) (*models.RoleAssignment, error)
}
