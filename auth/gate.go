package auth

import (
	"context"
	"sync"
	"time"

	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/rs/zerolog"
)

type EventKind string

const (
	EventReady         EventKind = "ready"
	EventSignedIn      EventKind = "signed_in"
	EventSignedOut     EventKind = "signed_out"
	EventRolesReloaded EventKind = "roles_reloaded"
)

// Event is one auth-state change.
type Event struct {
	Kind EventKind
	User *User
	At   time.Time
}

const subscriberBuffer = 16

// Gate tracks signed-in users and decides who is an admin. It reports itself
// as loading until Start has read the role table.
type Gate struct {
	providers map[string]Provider
	roles     RoleStore
	sessions  *Sessions
	bootstrap []string
	log       zerolog.Logger

	mu      sync.RWMutex
	ready   bool
	closed  bool
	admins  map[string]struct{}
	revoked map[string]time.Time // token id -> expiry
	subs    map[int]chan Event
	nextSub int
}

// NewGate builds a gate. bootstrap lists the admin emails written to an empty
// role table on Start.
func NewGate(roles RoleStore, sessions *Sessions, bootstrap []string, l zerolog.Logger, providers ...Provider) *Gate {
	g := &Gate{
		providers: make(map[string]Provider, len(providers)),
		roles:     roles,
		sessions:  sessions,
		bootstrap: bootstrap,
		log:       l.With().Str("component", "identityGate").Logger(),
		admins:    map[string]struct{}{},
		revoked:   map[string]time.Time{},
		subs:      map[int]chan Event{},
	}
	for _, p := range providers {
		g.providers[p.Name()] = p
	}
	return g
}

// Provider returns the sign-in provider registered under name.
func (g *Gate) Provider(name string) (Provider, bool) {
	p, ok := g.providers[name]
	return p, ok
}

// Start loads the role table, seeding it from the bootstrap list when empty,
// and moves the gate from loading to ready.
func (g *Gate) Start(ctx context.Context) error {
	assignments, err := g.roles.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		for _, email := range g.bootstrap {
			if _, err := g.roles.Add(ctx, models.RoleAssignment{Email: email, Role: models.RoleAdmin}); err != nil {
				return err
			}
			g.log.Info().Str("email", email).Msg("Seeded admin role")
		}
	}
	if err := g.ReloadRoles(ctx); err != nil {
		return err
	}

	g.mu.Lock()
	g.ready = true
	g.mu.Unlock()
	g.publish(Event{Kind: EventReady})
	return nil
}

// Ready is false until Start completes.
func (g *Gate) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ready
}

// ReloadRoles replaces the admin snapshot with the current role table.
func (g *Gate) ReloadRoles(ctx context.Context) error {
	assignments, err := g.roles.FindAll(ctx)
	if err != nil {
		return err
	}
	admins := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		if a.Role == models.RoleAdmin {
			admins[a.Email] = struct{}{}
		}
	}

	g.mu.Lock()
	g.admins = admins
	ready := g.ready
	g.mu.Unlock()
	if ready {
		g.publish(Event{Kind: EventRolesReloaded})
	}
	return nil
}

// SignIn authenticates through the named provider and opens a session. Any
// failure, including an unknown provider or a cancelled flow, is logged and
// reported as nil.
func (g *Gate) SignIn(ctx context.Context, provider, credential string) (*User, string) {
	p, ok := g.providers[provider]
	if !ok {
		g.log.Warn().Str("provider", provider).Msg("Sign-in with unknown provider")
		return nil, ""
	}
	identity, err := p.Authenticate(ctx, credential)
	if err != nil {
		g.log.Error().Err(err).Str("provider", provider).Msg("Login failed")
		return nil, ""
	}

	user := &User{
		ID:          identity.ID,
		DisplayName: identity.Name,
		Email:       identity.Email,
		PhotoURL:    identity.Photo,
		Provider:    provider,
	}
	token, _, err := g.sessions.Issue(user)
	if err != nil {
		g.log.Error().Err(err).Str("provider", provider).Msg("Could not issue session")
		return nil, ""
	}
	g.publish(Event{Kind: EventSignedIn, User: user})
	return user, token
}

// SignOut revokes the session token. Unknown or invalid tokens are ignored.
func (g *Gate) SignOut(token string) {
	claims, err := g.sessions.Parse(token)
	if err != nil {
		return
	}

	g.mu.Lock()
	current := g.sessions.now()
	for id, exp := range g.revoked {
		if exp.Before(current) {
			delete(g.revoked, id)
		}
	}
	g.revoked[claims.ID] = claims.ExpiresAt.Time
	g.mu.Unlock()

	g.publish(Event{Kind: EventSignedOut, User: claims.User()})
}

// CurrentUser returns the user of a live session token.
func (g *Gate) CurrentUser(token string) (*User, error) {
	claims, err := g.sessions.Parse(token)
	if err != nil {
		return nil, err
	}
	g.mu.RLock()
	_, revoked := g.revoked[claims.ID]
	g.mu.RUnlock()
	if revoked {
		return nil, errs.NewInvalidTokenError()
	}
	return claims.User(), nil
}

// IsAdmin reports whether an admin role is assigned to exactly the user's
// email. Case is significant.
func (g *Gate) IsAdmin(u *User) bool {
	if u == nil || u.Email == "" {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.admins[u.Email]
	return ok
}

// Subscribe returns a stream of auth-state events and a func that ends it.
func (g *Gate) Subscribe() (<-chan Event, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if g.closed {
		close(ch)
		return ch, func() {}
	}
	id := g.nextSub
	g.nextSub++
	g.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			if sub, ok := g.subs[id]; ok {
				delete(g.subs, id)
				close(sub)
			}
		})
	}
}

// Close ends every subscription.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	for id, ch := range g.subs {
		delete(g.subs, id)
		close(ch)
	}
}

func (g *Gate) publish(e Event) {
	e.At = time.Now()
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, ch := range g.subs {
		select {
		case ch <- e:
		default:
			g.log.Warn().Str("event", string(e.Kind)).Msg("Subscriber not keeping up, event dropped")
		}
	}
}
