package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkhorasandzhian/aton-web-api/internal/domain/access"
	domain "github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/db/inmemory"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/mq"
)

var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *recordingPublisher) Publish(e mq.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

type fixture struct {
	repo    *inmemory.Repository
	pub     *recordingPublisher
	counter *prometheus.CounterVec
	svc     *UserService
	admin   *access.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo: inmemory.NewRepository(),
		pub:  &recordingPublisher{},
		counter: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "test_counters"},
			[]string{"result"},
		),
	}
	f.svc = NewUserService(f.repo, access.NewPolicy(true), f.pub, f.counter,
		WithClock(func() time.Time { return fixedNow }),
	).(*UserService)

	b := fixedNow.AddDate(-30, 0, 0)
	admin := domain.NewUser(domain.Registration{
		Login: "admin", Password: "admin123", Name: "Admin",
		Gender: domain.GenderUnspecified, Birthday: &b, Admin: true,
	}, "", fixedNow)
	require.NoError(t, f.repo.CreateUser(context.Background(), admin))
	f.admin = access.NewPrincipal("admin", "Admin", true)

	return f
}

func (f *fixture) register(t *testing.T, login string, birthday *time.Time) *access.Principal {
	t.Helper()
	_, err := f.svc.Register(context.Background(), f.admin, domain.Registration{
		Login: login, Password: "pw123", Name: "Test",
		Gender: domain.GenderUnspecified, Birthday: birthday,
	})
	require.NoError(t, err)
	return access.NewPrincipal(login, "Test", false)
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name    string
		caller  func(f *fixture) *access.Principal
		reg     domain.Registration
		wantErr error
		check   func(t *testing.T, u *domain.User)
	}{
		{
			name:   "anonymous self registration",
			caller: func(*fixture) *access.Principal { return nil },
			reg:    domain.Registration{Login: "alice", Password: "pw123", Name: "Alice", Gender: domain.GenderFemale},
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, "", u.Created.By)
				assert.Equal(t, fixedNow, u.Created.At)
				assert.True(t, u.IsActive())
				assert.False(t, u.Admin)
				assert.Nil(t, u.Modified)
			},
		},
		{
			name:   "admin creates admin",
			caller: func(f *fixture) *access.Principal { return f.admin },
			reg:    domain.Registration{Login: "boss", Password: "pw123", Name: "Босс", Gender: domain.GenderMale, Admin: true},
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, "admin", u.Created.By)
				assert.True(t, u.Admin)
			},
		},
		{
			name:    "anonymous asking for admin",
			caller:  func(*fixture) *access.Principal { return nil },
			reg:     domain.Registration{Login: "evil", Password: "pw123", Name: "Evil", Admin: true},
			wantErr: access.ErrForbidden,
		},
		{
			name:    "plain user asking for admin",
			caller:  func(*fixture) *access.Principal { return access.NewPrincipal("bob", "Bob", false) },
			reg:     domain.Registration{Login: "evil", Password: "pw123", Name: "Evil", Admin: true},
			wantErr: access.ErrForbidden,
		},
		{
			name:    "taken login",
			caller:  func(*fixture) *access.Principal { return nil },
			reg:     domain.Registration{Login: "admin", Password: "pw123", Name: "Dup"},
			wantErr: domain.ErrLoginTaken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			u, err := f.svc.Register(context.Background(), tt.caller(f), tt.reg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.pub.actions())
				return
			}
			require.NoError(t, err)
			tt.check(t, u)
			assert.Equal(t, []string{mq.ActionRegistered}, f.pub.actions())
			assert.Equal(t, float64(1), testutil.ToFloat64(f.counter.WithLabelValues("user_registered_total")))
		})
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), nil, domain.Registration{
		Login: "bad login", Password: "", Name: "R2D2", Gender: 7, Birthday: &time.Time{},
	})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, domain.FieldLogin)
	assert.Contains(t, verr.Fields, domain.FieldPassword)
	assert.Contains(t, verr.Fields, domain.FieldName)
	assert.Contains(t, verr.Fields, domain.FieldGender)
	assert.NotContains(t, verr.Fields, domain.FieldBirthday)

	future := fixedNow.Add(time.Hour)
	_, err = f.svc.Register(context.Background(), nil, domain.Registration{
		Login: "ok", Password: "pw", Name: "Ok", Birthday: &future,
	})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, domain.FieldBirthday)
}

func TestUserService_RevokeThenRestore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice", nil)

	require.NoError(t, f.svc.DeleteUser(ctx, f.admin, "alice", false))

	revoked, err := f.svc.LookupByLogin(ctx, f.admin, "alice")
	require.NoError(t, err)
	require.NotNil(t, revoked.Revoked)
	assert.Equal(t, "admin", revoked.Revoked.By)
	assert.Equal(t, fixedNow, revoked.Revoked.At)

	// a revoked account may not act on itself even with a live principal
	_, err = f.svc.ChangePassword(ctx, alice, "alice", "newpw")
	require.ErrorIs(t, err, access.ErrForbidden)

	restored, err := f.svc.RestoreUser(ctx, f.admin, "alice")
	require.NoError(t, err)
	assert.Nil(t, restored.Revoked)

	_, err = f.svc.RestoreUser(ctx, f.admin, "alice")
	require.ErrorIs(t, err, domain.ErrAlreadyActive)

	changed, err := f.svc.ChangePassword(ctx, alice, "alice", "newpw")
	require.NoError(t, err)
	assert.Equal(t, "newpw", changed.Password)
	require.NotNil(t, changed.Modified)
	assert.Equal(t, "alice", changed.Modified.By)

	assert.Equal(t, []string{
		mq.ActionRegistered, mq.ActionRevoked, mq.ActionRestored, mq.ActionPasswordChanged,
	}, f.pub.actions())
}

func TestUserService_RestoreCollidesWithNewAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", nil)

	require.NoError(t, f.svc.DeleteUser(ctx, f.admin, "alice", false))
	f.register(t, "alice", nil)

	// the live account wins the lookup, so restore sees an active user
	_, err := f.svc.RestoreUser(ctx, f.admin, "alice")
	require.ErrorIs(t, err, domain.ErrAlreadyActive)
}

func TestUserService_HardDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", nil)

	require.NoError(t, f.svc.DeleteUser(ctx, f.admin, "alice", true))

	_, err := f.svc.LookupByLogin(ctx, f.admin, "alice")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, f.svc.DeleteUser(ctx, f.admin, "alice", true), domain.ErrNotFound)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.counter.WithLabelValues("user_deleted_total")))
}

func TestUserService_CheckOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice", nil)
	f.register(t, "bob", nil)

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{
			name: "anonymous change",
			call: func() error {
				_, err := f.svc.ChangeLogin(ctx, nil, "alice", "alice2")
				return err
			},
			wantErr: access.ErrUnauthenticated,
		},
		{
			name: "missing target before permission",
			call: func() error {
				_, err := f.svc.ChangePassword(ctx, alice, "ghost", "pw")
				return err
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "foreign target",
			call: func() error {
				_, err := f.svc.ChangePassword(ctx, alice, "bob", "pw")
				return err
			},
			wantErr: access.ErrForbidden,
		},
		{
			name: "permission before validation",
			call: func() error {
				_, err := f.svc.ChangePassword(ctx, alice, "bob", "не латиница")
				return err
			},
			wantErr: access.ErrForbidden,
		},
		{
			name: "user lists everyone",
			call: func() error {
				_, err := f.svc.ListActive(ctx, alice)
				return err
			},
			wantErr: access.ErrForbidden,
		},
		{
			name: "anonymous lists everyone",
			call: func() error {
				_, err := f.svc.ListAll(ctx, nil)
				return err
			},
			wantErr: access.ErrUnauthenticated,
		},
		{
			name: "user deletes",
			call: func() error {
				return f.svc.DeleteUser(ctx, alice, "bob", false)
			},
			wantErr: access.ErrForbidden,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.call(), tt.wantErr)
		})
	}
}

func TestUserService_ChangeLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice", nil)
	f.register(t, "bob", nil)

	_, err := f.svc.ChangeLogin(ctx, alice, "alice", "bob")
	require.ErrorIs(t, err, domain.ErrLoginTaken)

	// same login is a plain re-stamp
	same, err := f.svc.ChangeLogin(ctx, alice, "alice", "alice")
	require.NoError(t, err)
	require.NotNil(t, same.Modified)

	moved, err := f.svc.ChangeLogin(ctx, f.admin, "alice", "alicia")
	require.NoError(t, err)
	assert.Equal(t, "alicia", moved.Login)
	assert.Equal(t, "admin", moved.Modified.By)

	_, err = f.svc.LookupByLogin(ctx, f.admin, "alice")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_ChangeProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice", date(1990, 1, 1))

	// "й" typed decomposed
	name := "Андрей"
	gender := domain.GenderFemale
	u, err := f.svc.ChangeProfile(ctx, alice, "alice", domain.ProfileChange{Name: &name, Gender: &gender})
	require.NoError(t, err)
	assert.Equal(t, "Андрей", u.Name)
	assert.Equal(t, domain.GenderFemale, u.Gender)
	assert.Equal(t, *date(1990, 1, 1), *u.Birthday)

	bad := "Bob1"
	_, err = f.svc.ChangeProfile(ctx, alice, "alice", domain.ProfileChange{Name: &bad})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, domain.FieldName)
}

func TestUserService_ListOverAge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// fixedNow is 2026-06-15
	f.register(t, "exactly18", date(2008, 6, 15))
	f.register(t, "almost19", date(2007, 6, 16))
	f.register(t, "past19", date(2007, 6, 14))
	f.register(t, "nobday", nil)

	users, err := f.svc.ListOverAge(ctx, f.admin, 18)
	require.NoError(t, err)

	var logins []string
	for _, u := range users {
		logins = append(logins, u.Login)
		assert.Greater(t, u.AgeAt(fixedNow), 18)
	}
	assert.ElementsMatch(t, []string{"admin", "past19"}, logins)

	_, err = f.svc.ListOverAge(ctx, f.admin, 0)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, domain.FieldAge)

	_, err = f.svc.ListOverAge(ctx, access.NewPrincipal("past19", "Test", false), 18)
	require.ErrorIs(t, err, access.ErrForbidden)
}

func TestUserService_ListActiveAndAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", nil)
	f.register(t, "bob", nil)
	require.NoError(t, f.svc.DeleteUser(ctx, f.admin, "bob", false))

	active, err := f.svc.ListActive(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := f.svc.ListAll(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserService_PersonalProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice", nil)
	f.register(t, "bob", nil)

	u, err := f.svc.PersonalProfile(ctx, alice, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Login)

	_, err = f.svc.PersonalProfile(ctx, alice, "alice", "wrong")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// valid credentials of somebody else are still not the caller's profile
	_, err = f.svc.PersonalProfile(ctx, alice, "bob", "pw123")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.PersonalProfile(ctx, nil, "alice", "pw123")
	require.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestUserService_EventsCarryNoPassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", nil)

	require.Len(t, f.pub.events, 1)
	e := f.pub.events[0]
	assert.Equal(t, "alice", e.Login)
	assert.Equal(t, "admin", e.Actor)
	assert.Equal(t, "alice", e.Payload.Login)
}
