// Package gate implements the route gate that runs before page handlers.
//
// The gate only looks at whether a token cookie is present. It never checks the
// signature or expiry, so it is a routing convenience and not an access control
// boundary; handlers that need an identity must use auth.RequireAuth.
package gate

import (
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/isdelr/salonx-be/internal/auth"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Action is the outcome of a gate decision.
type Action int

const (
	Allow Action = iota
	RedirectHome
	RedirectLogin
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case RedirectHome:
		return "redirect-home"
	case RedirectLogin:
		return "redirect-login"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Policy is the static path classification. Paths listed in Public are
// public, everything else is protected.
type Policy struct {
	Matcher []string `yaml:"matcher"` // paths the gate intercepts
	Public  []string `yaml:"public"`
	Home    string   `yaml:"home"`  // where authenticated visitors of public pages go
	Login   string   `yaml:"login"` // where anonymous visitors of protected pages go
}

// DefaultPolicy returns the built-in routes of the salon front end.
func DefaultPolicy() Policy {
	return Policy{
		Matcher: []string{
			"/",
			"/profile",
			"/home",
			"/auth/customer/login",
			"/auth/customer/signup",
			"/verifyemail",
		},
		Public: []string{
			"/auth/customer/login",
			"/auth/customer/signup",
			"/home",
		},
		Home:  "/home",
		Login: "/auth/customer/login",
	}
}

// LoadPolicy reads a YAML policy file. Keys missing from the file keep their
// DefaultPolicy values.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read gate policy %s: %w", path, err)
	}

	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("failed to parse gate policy %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid gate policy %s: %w", path, err)
	}
	return p, nil
}

// Validate checks that the redirect targets are usable.
func (p Policy) Validate() error {
	if !strings.HasPrefix(p.Home, "/") {
		return fmt.Errorf("home %q must be an absolute path", p.Home)
	}
	if !strings.HasPrefix(p.Login, "/") {
		return fmt.Errorf("login %q must be an absolute path", p.Login)
	}
	for _, path := range append(append([]string{}, p.Matcher...), p.Public...) {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("path %q must be absolute", path)
		}
	}
	if !slices.Contains(p.Public, p.Login) {
		// Otherwise anonymous visitors would bounce off the login page forever.
		return fmt.Errorf("login %q must be a public path", p.Login)
	}
	return nil
}

// Gate makes redirect decisions for intercepted paths.
type Gate struct {
	policy  Policy
	public  map[string]struct{}
	matched map[string]struct{}
}

// New creates a Gate for the given policy.
func New(p Policy) (*Gate, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g := &Gate{
		policy:  p,
		public:  make(map[string]struct{}, len(p.Public)),
		matched: make(map[string]struct{}, len(p.Matcher)),
	}
	for _, path := range p.Public {
		g.public[path] = struct{}{}
	}
	for _, path := range p.Matcher {
		g.matched[path] = struct{}{}
	}
	return g, nil
}

// Policy returns the policy the gate was built with.
func (g *Gate) Policy() Policy {
	return g.policy
}

// IsPublic reports whether path is on the public allow-list. Matching is exact.
func (g *Gate) IsPublic(path string) bool {
	_, ok := g.public[path]
	return ok
}

// Intercepts reports whether the gate applies to path at all.
func (g *Gate) Intercepts(path string) bool {
	_, ok := g.matched[path]
	return ok
}

// Decide is a pure function of the path and whether a token is present.
func (g *Gate) Decide(path string, hasToken bool) Action {
	public := g.IsPublic(path)
	switch {
	case public && hasToken && path != g.policy.Home:
		return RedirectHome
	case !public && !hasToken:
		return RedirectLogin
	default:
		return Allow
	}
}

// Middleware applies Decide to every intercepted request before it reaches
// the page handler. Paths outside the matcher pass through untouched.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if !g.Intercepts(path) {
			next.ServeHTTP(w, r)
			return
		}

		hasToken := false
		if cookie, err := r.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
			hasToken = true
		}

		action := g.Decide(path, hasToken)
		log.Debug().
			Str("path", path).
			Bool("public", g.IsPublic(path)).
			Bool("token", hasToken).
			Stringer("action", action).
			Msg("Route gate")

		switch action {
		case RedirectHome:
			http.Redirect(w, r, g.policy.Home, http.StatusTemporaryRedirect)
		case RedirectLogin:
			http.Redirect(w, r, g.policy.Login, http.StatusTemporaryRedirect)
		default:
			next.ServeHTTP(w, r)
		}
	})
}
