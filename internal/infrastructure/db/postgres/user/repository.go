package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*User, error) {
	u := new(User)
	err := row.Scan(
		&u.ID,
		&u.Login,
		&u.Password,
		&u.Name,
		&u.Gender,
		&u.Birthday,
		&u.Admin,

		&u.CreatedOn,
		&u.CreatedBy,

		&u.ModifiedOn,
		&u.ModifiedBy,

		&u.RevokedOn,
		&u.RevokedBy,
	)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) fetchMany(ctx context.Context, query string, args ...any) (user.Users, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var us Users
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		us = append(us, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(us), nil
}

func (r *Repository) FetchUserByID(ctx context.Context, id user.UUID) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByID, id)
}

func (r *Repository) FetchUserByLogin(ctx context.Context, login string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByLogin, login)
}

func (r *Repository) FetchUserByLoginAndPassword(ctx context.Context, login, password string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByLoginAndPassword, login, password)
}

func (r *Repository) FetchUsers(ctx context.Context) (user.Users, error) {
	return r.fetchMany(ctx, SelectUsers)
}

func (r *Repository) FetchActiveUsers(ctx context.Context) (user.Users, error) {
	return r.fetchMany(ctx, SelectActiveUsers)
}

func (r *Repository) FetchUsersBornBefore(ctx context.Context, cutoff time.Time) (user.Users, error) {
	return r.fetchMany(ctx, SelectUsersBornBefore, cutoff)
}

func (r *Repository) HasLiveUserWithLogin(ctx context.Context, login string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, SelectLiveLoginExists, login).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) error {
	m := toDBModel(req)

	_, err := r.db.Exec(ctx, InsertUser,
		m.ID, m.Login, m.Password, m.Name, m.Gender, m.Birthday, m.Admin,
		m.CreatedOn, m.CreatedBy, m.ModifiedOn, m.ModifiedBy, m.RevokedOn, m.RevokedBy,
	)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return user.ErrLoginTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *Repository) UpdateUser(ctx context.Context, req user.User) error {
	m := toDBModel(req)

	tag, err := r.db.Exec(ctx, UpdateUserByID,
		m.ID, m.Login, m.Password, m.Name, m.Gender, m.Birthday, m.Admin,
		m.ModifiedOn, m.ModifiedBy, m.RevokedOn, m.RevokedBy,
	)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return user.ErrLoginTaken
		}
		return fmt.Errorf("update user %s: %w", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, id user.UUID) error {
	tag, err := r.db.Exec(ctx, DeleteUserByID, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}
