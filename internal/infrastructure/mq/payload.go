package mq

import (
	"time"

	"github.com/google/uuid"

	"github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
)

// UserPayload is the account snapshot carried by an Event. It never holds
// the password.
type UserPayload struct {
	ID         uuid.UUID  `json:"id"`
	Login      string     `json:"login"`
	Name       string     `json:"name"`
	Gender     int        `json:"gender"`
	Birthday   *time.Time `json:"birthday"`
	Admin      bool       `json:"admin"`
	CreatedOn  time.Time  `json:"createdOn"`
	CreatedBy  string     `json:"createdBy"`
	ModifiedOn *time.Time `json:"modifiedOn"`
	ModifiedBy *string    `json:"modifiedBy"`
	RevokedOn  *time.Time `json:"revokedOn"`
	RevokedBy  *string    `json:"revokedBy"`
}

func toPayload(u user.User) UserPayload {
	p := UserPayload{
		ID:        u.ID,
		Login:     u.Login,
		Name:      u.Name,
		Gender:    int(u.Gender),
		Birthday:  u.Birthday,
		Admin:     u.Admin,
		CreatedOn: u.Created.At,
		CreatedBy: u.Created.By,
	}
	if m := u.Modified; m != nil {
		p.ModifiedOn, p.ModifiedBy = &m.At, &m.By
	}
	if r := u.Revoked; r != nil {
		p.RevokedOn, p.RevokedBy = &r.At, &r.By
	}
	return p
}
