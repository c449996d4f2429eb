package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
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
	Users []User

	// Summary is what an administrator sees when looking a user up by login.
	Summary struct {
		Name     string     `json:"name"`
		Gender   int        `json:"gender"`
		Birthday *time.Time `json:"birthday"`
		IsActive bool       `json:"isActive"`
	}

	ResponseData struct {
		Data Users `json:"data"`
	}
)
