package user

import (
	"errors"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/text/unicode/norm"
)

const (
	FieldLogin    = "login"
	FieldPassword = "password"
	FieldName     = "name"
	FieldGender   = "gender"
	FieldBirthday = "birthday"
	FieldAge      = "age"
)

var (
	alnumRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	nameRe  = regexp.MustCompile(`^[A-Za-zА-Яа-яЁё]+$`)
)

func loginRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Match(alnumRe).Error("must contain only latin letters and digits"),
	}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Match(alnumRe).Error("must contain only latin letters and digits"),
	}
}

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Match(nameRe).Error("must contain only latin and cyrillic letters"),
	}
}

func genderRules() []validation.Rule {
	return []validation.Rule{
		validation.Min(int(GenderFemale)).Error("must be in range [0;2] (0 - female, 1 - male, 2 - unspecified)"),
		validation.Max(int(GenderUnspecified)).Error("must be in range [0;2] (0 - female, 1 - male, 2 - unspecified)"),
	}
}

func birthdayRules(now time.Time) []validation.Rule {
	return []validation.Rule{
		validation.By(func(value interface{}) error {
			var b time.Time
			switch v := value.(type) {
			case *time.Time:
				if v == nil {
					return nil
				}
				b = *v
			case time.Time:
				b = v
			default:
				return nil
			}
			if b.After(now) {
				return errors.New("cannot be in the future")
			}
			return nil
		}),
	}
}

// NormalizeName returns the NFC form of a name so that decomposed letters
// (e.g. "й" typed as "и" + combining breve) match the alphabet rule.
func NormalizeName(name string) string { return norm.NFC.String(name) }

func ValidateRegistration(r Registration, now time.Time) error {
	return toValidationError(validation.Errors{
		FieldLogin:    validation.Validate(r.Login, loginRules()...),
		FieldPassword: validation.Validate(r.Password, passwordRules()...),
		FieldName:     validation.Validate(r.Name, nameRules()...),
		FieldGender:   validation.Validate(int(r.Gender), genderRules()...),
		FieldBirthday: validation.Validate(r.Birthday, birthdayRules(now)...),
	})
}

func ValidateProfileChange(p ProfileChange, now time.Time) error {
	errs := validation.Errors{}
	if p.Name != nil {
		errs[FieldName] = validation.Validate(*p.Name, nameRules()...)
	}
	if p.Gender != nil {
		errs[FieldGender] = validation.Validate(int(*p.Gender), genderRules()...)
	}
	if p.Birthday != nil {
		errs[FieldBirthday] = validation.Validate(*p.Birthday, birthdayRules(now)...)
	}
	return toValidationError(errs)
}

func ValidateLogin(login string) error {
	return toValidationError(validation.Errors{
		FieldLogin: validation.Validate(login, loginRules()...),
	})
}

func ValidatePassword(password string) error {
	return toValidationError(validation.Errors{
		FieldPassword: validation.Validate(password, passwordRules()...),
	})
}

func ValidateAge(age int) error {
	if age <= 0 {
		return newValidationError(FieldAge, "must be greater than zero")
	}
	return nil
}

func toValidationError(errs validation.Errors) error {
	if err := errs.Filter(); err == nil {
		return nil
	}

	fields := make(map[string]string, len(errs))
	for field, err := range errs {
		if err != nil {
			fields[field] = err.Error()
		}
	}
	return &ValidationError{Fields: fields}
}
