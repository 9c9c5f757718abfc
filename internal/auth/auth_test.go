package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/metrics"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/repository"
)

const (
	testSecret = "test-secret"
	adminEmail = "admin@example.com"
)

var (
	clientUser = models.User{ID: "c1", Name: "Ana", Email: "ana@example.com", AccountType: models.RoleClient}
	adminUser  = models.User{ID: "admin-001", Name: "Admin", Email: adminEmail, AccountType: models.RoleAdmin}
)

func newGate(t *testing.T) (*Gate, *repository.SessionRepo, *kv.Store) {
	t.Helper()
	root := kv.New(kv.NewMemory(0))
	return NewGate(root, adminEmail, time.Second, metrics.New()), repository.NewSessionRepo(root), root
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(testSecret, "sid-1", "c1", "ana@example.com", models.RoleClient)
	require.NoError(t, err)

	claims, err := ValidateToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "c1", claims.UserID)
	assert.Equal(t, models.RoleClient, claims.Role)

	_, err = ValidateToken("other-secret", tok)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPassword("secret1", hash))
	assert.False(t, CheckPassword("secret2", hash))
}

func TestGateAuthorized(t *testing.T) {
	ctx := context.Background()
	g, sessions, _ := newGate(t)
	require.NoError(t, sessions.Create(ctx, "s1", clientUser))

	d, err := g.Check(ctx, "s1", models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, Authorized, d.State)
	require.NotNil(t, d.User)
	assert.Equal(t, "c1", d.User.ID)

	d, err = g.Check(ctx, "s1", "")
	require.NoError(t, err)
	assert.Equal(t, Authorized, d.State)
}

func TestGateUnauthenticated(t *testing.T) {
	ctx := context.Background()
	g, sessions, root := newGate(t)

	d, err := g.Check(ctx, "missing", models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, Unauthenticated, d.State)
	assert.Nil(t, d.User)

	// A cached user without a role flag is not a session.
	require.NoError(t, sessions.Create(ctx, "s2", clientUser))
	require.NoError(t, repository.SessionStore(root, "s2").Remove(ctx, kv.KeyClientSession))
	d, err = g.Check(ctx, "s2", models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, Unauthenticated, d.State)

	keys, err := sessions.Keys(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestGateClientAtAdminGate(t *testing.T) {
	ctx := context.Background()
	g, sessions, _ := newGate(t)
	require.NoError(t, sessions.Create(ctx, "s1", clientUser))

	d, err := g.Check(ctx, "s1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, WrongRole, d.State)

	keys, err := sessions.Keys(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, keys)

	d, err = g.Check(ctx, "s1", models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, Unauthenticated, d.State)
}

func TestGateAdminIdentity(t *testing.T) {
	ctx := context.Background()
	g, sessions, _ := newGate(t)

	require.NoError(t, sessions.Create(ctx, "s1", adminUser))
	d, err := g.Check(ctx, "s1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, Authorized, d.State)

	impostor := adminUser
	impostor.Email = "someone@example.com"
	require.NoError(t, sessions.Create(ctx, "s2", impostor))
	d, err = g.Check(ctx, "s2", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, WrongRole, d.State)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	g, sessions, _ := newGate(t)
	require.NoError(t, sessions.Create(ctx, "s1", clientUser))

	r, err := g.Logout(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, Redirect{To: EntryPage, DelayMs: 1000}, r)

	keys, err := sessions.Keys(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedirectAfterLogin(t *testing.T) {
	g, _, _ := newGate(t)
	assert.Equal(t, "/admin", g.RedirectAfterLogin(models.RoleAdmin).To)
	assert.Equal(t, "/client", g.RedirectAfterLogin(models.RoleClient).To)
}

func TestRequireRole(t *testing.T) {
	ctx := context.Background()
	g, sessions, _ := newGate(t)
	require.NoError(t, sessions.Create(ctx, "s1", clientUser))

	var seen *Session
	h := Middleware(testSecret)(RequireRole(g, models.RoleClient)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	serve := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(""))
	assert.Equal(t, http.StatusUnauthorized, serve("garbage"))

	tok, err := GenerateToken(testSecret, "s1", clientUser.ID, clientUser.Email, clientUser.AccountType)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, serve(tok))
	require.NotNil(t, seen)
	assert.Equal(t, "s1", seen.ID)
	assert.Equal(t, "c1", seen.User.ID)

	adminOnly := Middleware(testSecret)(RequireRole(g, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized access"}`, rec.Body.String())

	// The wrong-role visit logged the session out.
	assert.Equal(t, http.StatusUnauthorized, serve(tok))
}

func TestGateSweepExpired(t *testing.T) {
	ctx := context.Background()
	g, sessions, root := newGate(t)
	require.NoError(t, sessions.Create(ctx, "s1", clientUser))
	require.NoError(t, sessions.Create(ctx, "s2", clientUser))
	expired := time.Now().Add(-TokenTTL - time.Minute).UTC().Format(time.RFC3339)
	require.NoError(t, repository.SessionStore(root, "s2").Save(ctx, kv.KeyLoginAt, expired))

	n, err := g.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	d, err := g.Check(ctx, "s2", models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, Unauthenticated, d.State)
	d, err = g.Check(ctx, "s1", models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, Authorized, d.State)
}
