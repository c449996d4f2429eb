package user

import (
	"errors"
	"time"

	"github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
)

const DateLayout = "2006-01-02"

var ErrInvalidBirthday = errors.New("invalid birthday format, want YYYY-MM-DD")

func ToResponseUser(uDomain user.User) User {
	var u = User{
		ID:        uDomain.ID,
		Login:     uDomain.Login,
		Name:      uDomain.Name,
		Gender:    int(uDomain.Gender),
		Birthday:  uDomain.Birthday,
		Admin:     uDomain.Admin,
		CreatedOn: uDomain.Created.At,
		CreatedBy: uDomain.Created.By,
	}
	if m := uDomain.Modified; m != nil {
		u.ModifiedOn, u.ModifiedBy = &m.At, &m.By
	}
	if r := uDomain.Revoked; r != nil {
		u.RevokedOn, u.RevokedBy = &r.At, &r.By
	}

	return u
}

func ToResponseUsers(usDomain user.Users) Users {
	us := make(Users, len(usDomain))
	for idx, u := range usDomain {
		us[idx] = ToResponseUser(*u)
	}

	return us
}

func ToSummary(uDomain user.User) Summary {
	return Summary{
		Name:     uDomain.Name,
		Gender:   int(uDomain.Gender),
		Birthday: uDomain.Birthday,
		IsActive: uDomain.IsActive(),
	}
}

func ToRegistration(req RegisterRequest) (user.Registration, error) {
	birthday, err := parseDate(req.Birthday)
	if err != nil {
		return user.Registration{}, err
	}

	gender := user.GenderUnspecified
	if req.Gender != nil {
		gender = user.Gender(*req.Gender)
	}

	return user.Registration{
		Login:    req.Login,
		Password: req.Password,
		Name:     req.Name,
		Gender:   gender,
		Birthday: birthday,
		Admin:    req.Admin,
	}, nil
}

func ToProfileChange(req ChangeProfileRequest) (user.ProfileChange, error) {
	birthday, err := parseDate(req.Birthday)
	if err != nil {
		return user.ProfileChange{}, err
	}

	var p = user.ProfileChange{
		Name:     req.Name,
		Birthday: birthday,
	}
	if req.Gender != nil {
		g := user.Gender(*req.Gender)
		p.Gender = &g
	}

	return p, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil, ErrInvalidBirthday
	}
	return &d, nil
}
