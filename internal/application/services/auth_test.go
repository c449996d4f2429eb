package services

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkhorasandzhian/aton-web-api/internal/domain/access"
	domain "github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/db/inmemory"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/jwt"
)

func basic(login, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(login+":"+password))
}

func newAuthFixture(t *testing.T) (*AuthService, *inmemory.Repository, *jwt.Service) {
	t.Helper()

	repo := inmemory.NewRepository()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, r := range []domain.Registration{
		{Login: "admin", Password: "admin123", Name: "Admin", Admin: true},
		{Login: "alice", Password: "pw123", Name: "Alice"},
	} {
		require.NoError(t, repo.CreateUser(context.Background(), domain.NewUser(r, "", now)))
	}
	gone := domain.NewUser(domain.Registration{Login: "gone", Password: "pw123", Name: "Gone"}, "", now).
		Revoke("admin", now.Add(time.Hour))
	require.NoError(t, repo.CreateUser(context.Background(), gone))

	j := jwt.New("test-secret", time.Minute)

	return NewAuthService(repo, j, nil).(*AuthService), repo, j
}

func TestAuthService_Authenticate(t *testing.T) {
	as, repo, j := newAuthFixture(t)

	tokenFor := func(subject string) string {
		tok, err := j.GenerateJWT(subject, time.Minute)
		require.NoError(t, err)
		return tok
	}
	idOf := func(login string) string {
		u, err := repo.FetchUserByLogin(context.Background(), login)
		require.NoError(t, err)
		require.NotNil(t, u)
		return u.ID.String()
	}
	aliceToken := tokenFor(idOf("alice"))
	goneToken := tokenFor(idOf("gone"))
	ghostToken := tokenFor(uuid.NewString())
	loginToken := tokenFor("alice")

	tests := []struct {
		name      string
		header    string
		wantErr   error
		wantLogin string
		wantAdmin bool
	}{
		{name: "no header", header: "", wantErr: ErrNoCredentials},
		{name: "admin basic", header: basic("admin", "admin123"), wantLogin: "admin", wantAdmin: true},
		{name: "user basic", header: basic("alice", "pw123"), wantLogin: "alice"},
		{name: "lowercase scheme", header: "basic " + base64.StdEncoding.EncodeToString([]byte("alice:pw123")), wantLogin: "alice"},
		{name: "wrong password", header: basic("alice", "nope"), wantErr: ErrInvalidCredentials},
		{name: "unknown user", header: basic("ghost", "pw123"), wantErr: ErrInvalidCredentials},
		{name: "revoked account", header: basic("gone", "pw123"), wantErr: ErrAccountRevoked},
		{name: "not base64", header: "Basic !!!", wantErr: ErrMalformedCredentials},
		{name: "no colon", header: "Basic " + base64.StdEncoding.EncodeToString([]byte("alice")), wantErr: ErrMalformedCredentials},
		{name: "scheme only", header: "Basic", wantErr: ErrMalformedCredentials},
		{name: "unknown scheme", header: "Digest abc", wantErr: ErrMalformedCredentials},
		{name: "bearer", header: "Bearer " + aliceToken, wantLogin: "alice"},
		{name: "bearer of revoked account", header: "Bearer " + goneToken, wantErr: ErrAccountRevoked},
		{name: "bearer of deleted account", header: "Bearer " + ghostToken, wantErr: ErrInvalidCredentials},
		{name: "bearer with login subject", header: "Bearer " + loginToken, wantErr: ErrInvalidCredentials},
		{name: "bearer garbage", header: "Bearer abc.def.ghi", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p, err := as.Authenticate(context.Background(), tt.header)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, tt.wantLogin, p.Login)
			assert.Equal(t, idOf(tt.wantLogin), p.ID)
			assert.True(t, p.Has(access.CapUser))
			assert.Equal(t, tt.wantAdmin, p.IsAdmin())
		})
	}
}

// A token keeps pointing at the account it was issued for, whatever
// happens to the login afterwards.
func TestAuthService_BearerFollowsAccountNotLogin(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		// change runs against the original alice after the token was issued
		change    func(t *testing.T, repo *inmemory.Repository, alice domain.User, at time.Time)
		issueAt   time.Duration
		wantErr   error
		wantLogin string
	}{
		{
			name: "revoked and login registered again",
			change: func(t *testing.T, repo *inmemory.Repository, alice domain.User, at time.Time) {
				require.NoError(t, repo.UpdateUser(ctx, alice.Revoke("admin", at)))
			},
			issueAt: time.Hour,
			wantErr: ErrAccountRevoked,
		},
		{
			name: "renamed after the token was issued",
			change: func(t *testing.T, repo *inmemory.Repository, alice domain.User, at time.Time) {
				require.NoError(t, repo.UpdateUser(ctx, alice.WithLogin("alicia", "alice", at)))
			},
			issueAt: time.Hour,
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "renamed before the token was issued",
			change: func(t *testing.T, repo *inmemory.Repository, alice domain.User, at time.Time) {
				require.NoError(t, repo.UpdateUser(ctx, alice.WithLogin("alicia", "alice", at)))
			},
			issueAt:   3 * time.Hour,
			wantLogin: "alicia",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			repo := inmemory.NewRepository()
			alice := domain.NewUser(domain.Registration{Login: "alice", Password: "pw123", Name: "Alice"}, "", created)
			require.NoError(t, repo.CreateUser(ctx, alice))

			j := jwt.New("test-secret", 24*time.Hour, jwt.WithClock(func() time.Time {
				return created.Add(tt.issueAt)
			}))
			as := NewAuthService(repo, j, nil)

			token, err := j.GenerateJWT(alice.ID.String(), j.TTL())
			require.NoError(t, err)

			tt.change(t, repo, alice, created.Add(2*time.Hour))
			eve := domain.NewUser(domain.Registration{Login: "alice", Password: "pw456", Name: "Eve", Admin: true}, "admin", created.Add(150*time.Minute))
			require.NoError(t, repo.CreateUser(ctx, eve), "login is free again")

			p, err := as.Authenticate(ctx, "Bearer "+token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice.ID.String(), p.ID)
			assert.Equal(t, tt.wantLogin, p.Login)
			assert.False(t, p.IsAdmin())
		})
	}
}

func TestParseBasic_SplitsOnFirstColon(t *testing.T) {
	login, password, err := ParseBasic(base64.StdEncoding.EncodeToString([]byte("alice:pa:ss")))
	require.NoError(t, err)
	assert.Equal(t, "alice", login)
	assert.Equal(t, "pa:ss", password)
}

func TestAuthService_GenerateToken(t *testing.T) {
	as, _, j := newAuthFixture(t)

	p, err := as.Authenticate(context.Background(), basic("alice", "pw123"))
	require.NoError(t, err)

	token, err := as.GenerateToken(p)
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, claims.Subject)

	_, err = as.GenerateToken(nil)
	require.ErrorIs(t, err, access.ErrUnauthenticated)

	_, err = as.GenerateToken(access.NewPrincipal("alice", "Alice", false))
	require.ErrorIs(t, err, access.ErrUnauthenticated, "principal without account id")
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(ErrInvalidCredentials))
	assert.True(t, IsAuthError(ErrAccountRevoked))
	assert.False(t, IsAuthError(ErrNoCredentials))
	assert.False(t, IsAuthError(domain.ErrNotFound))
}
