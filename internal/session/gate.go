package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/five82/marquee/internal/catalog"
)

// Status is the gate state.
type Status int

const (
	Loading Status = iota
	Unauthenticated
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Route names a top-level view.
type Route string

const (
	RouteLogin       Route = "login"
	RouteSeries      Route = "series"
	RouteCategories  Route = "categories"
	RouteEpisodes    Route = "episodes"
	RouteActivity    Route = "activity"
	RoutePlaceholder Route = "placeholder"
)

// Protected reports whether r requires an authenticated session.
func (r Route) Protected() bool {
	return r != RouteLogin && r != RoutePlaceholder
}

// Authenticator is the slice of the API client the gate drives.
// *catalog.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, creds catalog.Credentials) (catalog.LoginResponse, error)
	Me(ctx context.Context) (catalog.User, error)
	SetToken(token string)
}

// Access is the capability handed to views: they can sign in, sign out and
// ask who is signed in, nothing else.
type Access interface {
	Login(ctx context.Context, creds catalog.Credentials) (catalog.User, error)
	Logout() error
	CurrentUser() (catalog.User, bool)
}

// Gate owns the session state and decides which route may render.
type Gate struct {
	store Store
	auth  Authenticator
	now   func() time.Time

	mu      sync.RWMutex
	status  Status
	session Session
}

var _ Access = (*Gate)(nil)

// NewGate returns a gate in the Loading state. Call Restore once at startup.
func NewGate(store Store, auth Authenticator) *Gate {
	return &Gate{store: store, auth: auth, now: time.Now, status: Loading}
}

// Restore loads the persisted session. A missing, corrupt or expired session
// leaves the gate Unauthenticated and returns an error wrapping ErrNoSession;
// callers log it and carry on. A session saved without a user profile is
// completed with a profile lookup.
func (g *Gate) Restore(ctx context.Context) error {
	sess, err := g.store.Load()
	if err == nil && tokenExpired(sess.Token, g.now()) {
		_ = g.store.Clear()
		err = fmt.Errorf("%w: token expired", ErrNoSession)
	}
	if err != nil {
		g.setState(Unauthenticated, Session{})
		return err
	}

	g.auth.SetToken(sess.Token)
	if sess.User.Email == "" && sess.User.ID == "" {
		user, meErr := g.auth.Me(ctx)
		if meErr != nil {
			g.auth.SetToken("")
			g.setState(Unauthenticated, Session{})
			return fmt.Errorf("%w: fetch profile: %v", ErrNoSession, meErr)
		}
		sess.User = user
	}
	g.setState(Authenticated, sess)
	return nil
}

// Login exchanges creds for a token. On success the token and profile are
// persisted and the gate becomes Authenticated. On failure nothing is
// persisted and the gate stays Unauthenticated.
func (g *Gate) Login(ctx context.Context, creds catalog.Credentials) (catalog.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	resp, err := g.auth.Login(ctx, creds)
	if err != nil {
		g.setState(Unauthenticated, Session{})
		return catalog.User{}, fmt.Errorf("login: %w", err)
	}

	g.auth.SetToken(resp.Token)
	var user catalog.User
	if resp.User != nil {
		user = *resp.User
	} else {
		user, err = g.auth.Me(ctx)
		if err != nil {
			g.auth.SetToken("")
			g.setState(Unauthenticated, Session{})
			return catalog.User{}, fmt.Errorf("fetch profile: %w", err)
		}
	}
	if user.Email == "" {
		user.Email = creds.Email
	}

	sess := Session{Token: resp.Token, User: user, SavedAt: g.now().UTC()}
	if err := g.store.Save(sess); err != nil {
		log.Printf("WARN: session not persisted: %v", err)
	}
	g.setState(Authenticated, sess)
	return user, nil
}

// Logout clears the persisted session and the client token.
func (g *Gate) Logout() error {
	g.auth.SetToken("")
	g.setState(Unauthenticated, Session{})
	if err := g.store.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user.
func (g *Gate) CurrentUser() (catalog.User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.status != Authenticated {
		return catalog.User{}, false
	}
	return g.session.User, true
}

// Status returns the gate state.
func (g *Gate) Status() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status
}

// Resolve maps a requested route to the one that may render. While Loading
// everything resolves to the placeholder; while Unauthenticated protected
// routes resolve to login; once Authenticated login resolves to series.
func (g *Gate) Resolve(r Route) Route {
	switch g.Status() {
	case Loading:
		return RoutePlaceholder
	case Authenticated:
		if r == RouteLogin || r == RoutePlaceholder {
			return RouteSeries
		}
		return r
	default:
		if r.Protected() || r == RoutePlaceholder {
			return RouteLogin
		}
		return r
	}
}

// IsNoSession reports whether err came from a missing session.
func IsNoSession(err error) bool {
	return errors.Is(err, ErrNoSession)
}

func (g *Gate) setState(status Status, sess Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = status
	g.session = sess
}
