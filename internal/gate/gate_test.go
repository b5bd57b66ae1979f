package gate

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/isdelr/salonx-be/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultGate(t *testing.T) *Gate {
	t.Helper()
	g, err := New(DefaultPolicy())
	require.NoError(t, err)
	return g
}

func TestDecide_Scenarios(t *testing.T) {
	g := newDefaultGate(t)

	tests := []struct {
		name     string
		path     string
		hasToken bool
		want     Action
	}{
		{"login without token", "/auth/customer/login", false, Allow},
		{"login with any token", "/auth/customer/login", true, RedirectHome},
		{"signup with token", "/auth/customer/signup", true, RedirectHome},
		{"profile without token", "/profile", false, RedirectLogin},
		{"profile with token", "/profile", true, Allow},
		{"root is protected", "/", false, RedirectLogin},
		{"verifyemail is protected", "/verifyemail", false, RedirectLogin},
		{"home without token", "/home", false, Allow},
		{"home with token does not loop", "/home", true, Allow},
		{"unknown path defaults to protected", "/bookings", false, RedirectLogin},
		{"prefix of public path is protected", "/auth/customer", false, RedirectLogin},
		{"trailing slash is a different path", "/auth/customer/login/", false, RedirectLogin},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.Decide(tc.path, tc.hasToken))
		})
	}
}

func TestDecide_TotalAndIdempotent(t *testing.T) {
	g := newDefaultGate(t)
	paths := append(DefaultPolicy().Matcher, "/anything", "", "/api/users/login")

	for _, path := range paths {
		for _, hasToken := range []bool{false, true} {
			first := g.Decide(path, hasToken)
			assert.Contains(t, []Action{Allow, RedirectHome, RedirectLogin}, first)
			for i := 0; i < 3; i++ {
				assert.Equal(t, first, g.Decide(path, hasToken), "path %q token %v", path, hasToken)
			}
		}
	}
}

func TestMiddleware(t *testing.T) {
	g := newDefaultGate(t)
	validToken, err := auth.NewCodec("secret", time.Hour).Sign(auth.Payload{ID: "u1", Email: "a@b.c"})
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := g.Middleware(next)

	tests := []struct {
		name         string
		path         string
		cookie       string
		wantCode     int
		wantLocation string
	}{
		{"A: login, no token", "/auth/customer/login", "", http.StatusOK, ""},
		{"B: login, junk token", "/auth/customer/login", "abc", http.StatusTemporaryRedirect, "/home"},
		{"C: profile, no token", "/profile", "", http.StatusTemporaryRedirect, "/auth/customer/login"},
		{"D: profile, valid token", "/profile", validToken.Value, http.StatusOK, ""},
		{"empty cookie counts as absent", "/profile", "", http.StatusTemporaryRedirect, "/auth/customer/login"},
		{"api path is not intercepted", "/api/users/login", "", http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantLocation, rec.Header().Get("Location"))
		})
	}
}

func TestPolicyValidate(t *testing.T) {
	p := DefaultPolicy()
	require.NoError(t, p.Validate())

	p.Login = "/signin"
	assert.Error(t, p.Validate(), "login must be public")

	p = DefaultPolicy()
	p.Home = "home"
	assert.Error(t, p.Validate())

	p = DefaultPolicy()
	p.Matcher = append(p.Matcher, "relative")
	assert.Error(t, p.Validate())

	_, err := New(Policy{Home: "/home"})
	assert.Error(t, err)
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
matcher: ["/", "/profile", "/bookings", "/auth/customer/login"]
public: ["/auth/customer/login"]
`), 0o644))

	p, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/profile", "/bookings", "/auth/customer/login"}, p.Matcher)
	assert.Equal(t, []string{"/auth/customer/login"}, p.Public)
	assert.Equal(t, "/home", p.Home, "unset keys keep defaults")
	assert.Equal(t, "/auth/customer/login", p.Login)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("public: [\"/x\"]\nlogin: /y\n"), 0o644))
	_, err = LoadPolicy(bad)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("matcher: [unterminated"), 0o644))
	_, err = LoadPolicy(broken)
	assert.Error(t, err)

	_, err = LoadPolicy(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "redirect-home", RedirectHome.String())
	assert.Equal(t, "redirect-login", RedirectLogin.String())
	assert.Equal(t, "Action(9)", Action(9).String())
}
