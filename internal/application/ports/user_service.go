package ports

import (
	"context"

	"github.com/lkhorasandzhian/aton-web-api/internal/domain/access"
	"github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
)

type UserService interface {
	Register(ctx context.Context, caller *access.Principal, r user.Registration) (*user.User, error)
	ChangeProfile(ctx context.Context, caller *access.Principal, login string, p user.ProfileChange) (*user.User, error)
	ChangePassword(ctx context.Context, caller *access.Principal, login, password string) (*user.User, error)
	ChangeLogin(ctx context.Context, caller *access.Principal, login, newLogin string) (*user.User, error)
	DeleteUser(ctx context.Context, caller *access.Principal, login string, hard bool) error
	RestoreUser(ctx context.Context, caller *access.Principal, login string) (*user.User, error)
	ListActive(ctx context.Context, caller *access.Principal) (user.Users, error)
	ListAll(ctx context.Context, caller *access.Principal) (user.Users, error)
	LookupByLogin(ctx context.Context, caller *access.Principal, login string) (*user.User, error)
	ListOverAge(ctx context.Context, caller *access.Principal, age int) (user.Users, error)
	PersonalProfile(ctx context.Context, caller *access.Principal, login, password string) (*user.User, error)
}
