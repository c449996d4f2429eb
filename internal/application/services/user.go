package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lkhorasandzhian/aton-web-api/internal/application/ports"
	"github.com/lkhorasandzhian/aton-web-api/internal/domain/access"
	domain "github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/mq"
)

type UserService struct {
	userRepository domain.Repository
	policy         access.Policy
	publisher      ports.EventPublisher
	mCounter       *prometheus.CounterVec
	now            func() time.Time
}

type UserServiceOption func(*UserService)

// WithClock injects the time source (useful for tests).
func WithClock(now func() time.Time) UserServiceOption {
	return func(us *UserService) {
		if now != nil {
			us.now = now
		}
	}
}

func NewUserService(
	userRepository domain.Repository,
	policy access.Policy,
	publisher ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	opts ...UserServiceOption,
) ports.UserService {
	us := &UserService{
		userRepository: userRepository,
		policy:         policy,
		publisher:      publisher,
		mCounter:       mCounter,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(us)
	}
	if us.publisher == nil {
		us.publisher = mq.Discard{}
	}

	return us
}

func (us *UserService) Register(ctx context.Context, caller *access.Principal, r domain.Registration) (*domain.User, error) {
	op := access.OpRegister
	if r.Admin {
		op = access.OpRegisterAdmin
	}
	if err := us.policy.Check(caller, op, access.Target{Login: r.Login}); err != nil {
		return nil, err
	}

	now := us.now()
	r.Name = domain.NormalizeName(r.Name)
	if err := domain.ValidateRegistration(r, now); err != nil {
		return nil, err
	}

	// the storage constraint stays authoritative, this only spares a write
	taken, err := us.userRepository.HasLiveUserWithLogin(ctx, r.Login)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrLoginTaken
	}

	u := domain.NewUser(r, caller.ActorLogin(), now)
	if err = us.userRepository.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	us.publish(mq.ActionRegistered, caller, u, now)
	us.inc("user_registered_total")

	return &u, nil
}

func (us *UserService) ChangeProfile(ctx context.Context, caller *access.Principal, login string, p domain.ProfileChange) (*domain.User, error) {
	u, err := us.target(ctx, caller, access.OpChangeProfile, login)
	if err != nil {
		return nil, err
	}

	now := us.now()
	if p.Name != nil {
		n := domain.NormalizeName(*p.Name)
		p.Name = &n
	}
	if err = domain.ValidateProfileChange(p, now); err != nil {
		return nil, err
	}

	return us.update(ctx, caller, u.WithProfile(p, caller.Login, now), mq.ActionProfileChanged, now)
}

func (us *UserService) ChangePassword(ctx context.Context, caller *access.Principal, login, password string) (*domain.User, error) {
	u, err := us.target(ctx, caller, access.OpChangePassword, login)
	if err != nil {
		return nil, err
	}
	if err = domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	now := us.now()

	return us.update(ctx, caller, u.WithPassword(password, caller.Login, now), mq.ActionPasswordChanged, now)
}

func (us *UserService) ChangeLogin(ctx context.Context, caller *access.Principal, login, newLogin string) (*domain.User, error) {
	u, err := us.target(ctx, caller, access.OpChangeLogin, login)
	if err != nil {
		return nil, err
	}
	if err = domain.ValidateLogin(newLogin); err != nil {
		return nil, err
	}

	if newLogin != u.Login {
		taken, err := us.userRepository.HasLiveUserWithLogin(ctx, newLogin)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrLoginTaken
		}
	}

	now := us.now()

	return us.update(ctx, caller, u.WithLogin(newLogin, caller.Login, now), mq.ActionLoginChanged, now)
}

// DeleteUser revokes the account, or removes it for good when hard is set.
func (us *UserService) DeleteUser(ctx context.Context, caller *access.Principal, login string, hard bool) error {
	u, err := us.target(ctx, caller, access.OpDelete, login)
	if err != nil {
		return err
	}

	now := us.now()
	if hard {
		if err = us.userRepository.DeleteUser(ctx, u.ID); err != nil {
			return err
		}
		us.publish(mq.ActionDeleted, caller, *u, now)
		us.inc("user_deleted_total")
		return nil
	}

	revoked := u.Revoke(caller.Login, now)
	if err = us.userRepository.UpdateUser(ctx, revoked); err != nil {
		return err
	}
	us.publish(mq.ActionRevoked, caller, revoked, now)
	us.inc("user_revoked_total")

	return nil
}

func (us *UserService) RestoreUser(ctx context.Context, caller *access.Principal, login string) (*domain.User, error) {
	u, err := us.target(ctx, caller, access.OpRestore, login)
	if err != nil {
		return nil, err
	}
	if u.IsActive() {
		return nil, domain.ErrAlreadyActive
	}

	restored := u.Restore()
	if err = us.userRepository.UpdateUser(ctx, restored); err != nil {
		return nil, err
	}
	us.publish(mq.ActionRestored, caller, restored, us.now())
	us.inc("user_restored_total")

	return &restored, nil
}

func (us *UserService) ListActive(ctx context.Context, caller *access.Principal) (domain.Users, error) {
	if err := us.policy.Check(caller, access.OpListActive, access.Target{}); err != nil {
		return nil, err
	}

	return us.userRepository.FetchActiveUsers(ctx)
}

func (us *UserService) ListAll(ctx context.Context, caller *access.Principal) (domain.Users, error) {
	if err := us.policy.Check(caller, access.OpListAll, access.Target{}); err != nil {
		return nil, err
	}

	return us.userRepository.FetchUsers(ctx)
}

func (us *UserService) LookupByLogin(ctx context.Context, caller *access.Principal, login string) (*domain.User, error) {
	return us.target(ctx, caller, access.OpLookupByLogin, login)
}

// ListOverAge returns accounts strictly older than age whole years.
func (us *UserService) ListOverAge(ctx context.Context, caller *access.Principal, age int) (domain.Users, error) {
	if err := us.policy.Check(caller, access.OpListOverAge, access.Target{}); err != nil {
		return nil, err
	}
	if err := domain.ValidateAge(age); err != nil {
		return nil, err
	}

	cutoff := us.now().AddDate(-(age + 1), 0, 0)

	return us.userRepository.FetchUsersBornBefore(ctx, cutoff)
}

// PersonalProfile returns the caller's own record after the supplied
// credentials re-authenticate to the caller's account.
func (us *UserService) PersonalProfile(ctx context.Context, caller *access.Principal, login, password string) (*domain.User, error) {
	if caller == nil {
		return nil, access.ErrUnauthenticated
	}
	if !caller.Has(access.CapUser) {
		return nil, access.ErrForbidden
	}

	u, err := us.userRepository.FetchUserByLoginAndPassword(ctx, login, password)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive() ||
		!us.policy.CanPerform(caller, access.OpPersonalProfile, access.Target{Login: u.Login}) {
		return nil, domain.ErrNotFound
	}

	return u, nil
}

// target resolves login and checks op against it. Existence is checked
// before permission.
func (us *UserService) target(ctx context.Context, caller *access.Principal, op access.Operation, login string) (*domain.User, error) {
	if caller == nil {
		return nil, access.ErrUnauthenticated
	}

	u, err := us.userRepository.FetchUserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}

	if err = us.policy.Check(caller, op, access.Target{Login: u.Login, Revoked: !u.IsActive()}); err != nil {
		return nil, err
	}

	return u, nil
}

func (us *UserService) update(ctx context.Context, caller *access.Principal, u domain.User, action string, now time.Time) (*domain.User, error) {
	if err := us.userRepository.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	us.publish(action, caller, u, now)
	us.inc("user_updated_total")

	return &u, nil
}

func (us *UserService) publish(action string, caller *access.Principal, u domain.User, now time.Time) {
	us.publisher.Publish(mq.NewEvent(action, caller.ActorLogin(), u, now))
}

func (us *UserService) inc(label string) {
	if us.mCounter != nil {
		us.mCounter.WithLabelValues(label).Inc()
	}
}
