package user

import (
	"time"

	"github.com/google/uuid"
)

type Gender int

const (
	GenderFemale Gender = iota
	GenderMale
	GenderUnspecified
)

type (
	UUID = uuid.UUID

	// Stamp records when and by whom something happened.
	// By is empty for anonymous actors.
	Stamp struct {
		At time.Time
		By string
	}

	User struct {
		ID       UUID
		Login    string
		Password string
		Name     string
		Gender   Gender
		Birthday *time.Time
		Admin    bool

		Created  Stamp
		Modified *Stamp

		// Revoked is nil for active accounts.
		Revoked *Stamp
	}
	Users []*User

	// ProfileChange holds the optional profile fields of a change request.
	// A nil field is left untouched.
	ProfileChange struct {
		Name     *string
		Gender   *Gender
		Birthday *time.Time
	}

	Registration struct {
		Login    string
		Password string
		Name     string
		Gender   Gender
		Birthday *time.Time
		Admin    bool
	}
)

func (u User) IsActive() bool { return u.Revoked == nil }

func (u User) WithProfile(p ProfileChange, by string, at time.Time) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.Birthday != nil {
		b := *p.Birthday
		u.Birthday = &b
	}
	return u.modified(by, at)
}

func (u User) WithPassword(password, by string, at time.Time) User {
	u.Password = password
	return u.modified(by, at)
}

func (u User) WithLogin(login, by string, at time.Time) User {
	u.Login = login
	return u.modified(by, at)
}

// Revoke soft-deletes the account. Revoking an already revoked account
// overwrites the previous stamp.
func (u User) Revoke(by string, at time.Time) User {
	u.Revoked = &Stamp{At: at, By: by}
	return u
}

func (u User) Restore() User {
	u.Revoked = nil
	return u
}

func (u User) modified(by string, at time.Time) User {
	u.Modified = &Stamp{At: at, By: by}
	return u
}

// NewUser builds an active account from validated registration data.
func NewUser(r Registration, creator string, at time.Time) User {
	return User{
		ID:       uuid.New(),
		Login:    r.Login,
		Password: r.Password,
		Name:     r.Name,
		Gender:   r.Gender,
		Birthday: r.Birthday,
		Admin:    r.Admin,
		Created:  Stamp{At: at, By: creator},
	}
}

// AgeAt returns the age in whole years at the given moment, or -1 when the
// birthday is unknown.
func (u User) AgeAt(at time.Time) int {
	if u.Birthday == nil {
		return -1
	}
	b := *u.Birthday
	age := at.Year() - b.Year()
	if at.Before(b.AddDate(age, 0, 0)) {
		age--
	}
	return age
}
