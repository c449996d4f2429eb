package user

import (
	"context"
	"time"
)

// Repository is the storage contract of the lifecycle engine.
// Fetch methods return (nil, nil) when nothing matches.
// CreateUser and UpdateUser must reject a second live account with the
// same login by returning ErrLoginTaken.
type Repository interface {
	FetchUserByID(ctx context.Context, id UUID) (*User, error)
	FetchUserByLogin(ctx context.Context, login string) (*User, error)
	FetchUserByLoginAndPassword(ctx context.Context, login, password string) (*User, error)
	FetchUsers(ctx context.Context) (Users, error)
	FetchActiveUsers(ctx context.Context) (Users, error)
	FetchUsersBornBefore(ctx context.Context, cutoff time.Time) (Users, error)
	HasLiveUserWithLogin(ctx context.Context, login string) (bool, error)
	CreateUser(ctx context.Context, u User) error
	UpdateUser(ctx context.Context, u User) error
	DeleteUser(ctx context.Context, id UUID) error
}
