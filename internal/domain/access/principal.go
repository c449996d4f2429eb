package access

import "errors"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

// Capability is a closed set of grants carried by a Principal.
type Capability uint8

const (
	CapUser Capability = 1 << iota
	CapAdministrator
)

func (c Capability) Has(want Capability) bool { return want != 0 && c&want == want }

func (c Capability) String() string {
	switch {
	case c.Has(CapAdministrator | CapUser):
		return "user,administrator"
	case c.Has(CapAdministrator):
		return "administrator"
	case c.Has(CapUser):
		return "user"
	default:
		return "none"
	}
}

// Principal is an authenticated caller. A nil *Principal is anonymous.
// ID is the account id, empty for principals not backed by a stored account.
type Principal struct {
	ID    string
	Login string
	Name  string
	Caps  Capability
}

func NewPrincipal(login, name string, admin bool) *Principal {
	caps := CapUser
	if admin {
		caps |= CapAdministrator
	}
	return &Principal{Login: login, Name: name, Caps: caps}
}

func (p *Principal) Has(c Capability) bool { return p != nil && p.Caps.Has(c) }

func (p *Principal) IsAdmin() bool { return p.Has(CapAdministrator) }

// ActorLogin is the login recorded in audit stamps, empty for anonymous callers.
func (p *Principal) ActorLogin() string {
	if p == nil {
		return ""
	}
	return p.Login
}
