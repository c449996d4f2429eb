package user

import (
	domain "github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		ID:       model.ID,
		Login:    model.Login,
		Password: model.Password,
		Name:     model.Name,
		Gender:   domain.Gender(model.Gender),
		Birthday: model.Birthday,
		Admin:    model.Admin,

		Created: domain.Stamp{At: model.CreatedOn, By: model.CreatedBy},
	}
	if model.ModifiedOn != nil {
		u.Modified = &domain.Stamp{At: *model.ModifiedOn, By: deref(model.ModifiedBy)}
	}
	if model.RevokedOn != nil {
		u.Revoked = &domain.Stamp{At: *model.RevokedOn, By: deref(model.RevokedBy)}
	}

	return u
}

func fromDBModels(models Users) domain.Users {
	us := make(domain.Users, len(models))
	for idx, u := range models {
		us[idx] = fromDBModel(u)
	}

	return us
}

func toDBModel(u domain.User) *User {
	var m = &User{
		ID:       u.ID,
		Login:    u.Login,
		Password: u.Password,
		Name:     u.Name,
		Gender:   int16(u.Gender),
		Birthday: u.Birthday,
		Admin:    u.Admin,

		CreatedOn: u.Created.At,
		CreatedBy: u.Created.By,
	}
	if s := u.Modified; s != nil {
		m.ModifiedOn, m.ModifiedBy = &s.At, &s.By
	}
	if s := u.Revoked; s != nil {
		m.RevokedOn, m.RevokedBy = &s.At, &s.By
	}

	return m
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
