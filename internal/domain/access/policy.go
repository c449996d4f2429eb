package access

type Operation int

const (
	OpRegister Operation = iota
	OpRegisterAdmin
	OpViewProfile
	OpChangeProfile
	OpChangePassword
	OpChangeLogin
	OpListActive
	OpListAll
	OpLookupByLogin
	OpListOverAge
	OpDelete
	OpRestore
	OpPersonalProfile
)

var operationNames = map[Operation]string{
	OpRegister:        "register",
	OpRegisterAdmin:   "register_admin",
	OpViewProfile:     "view_profile",
	OpChangeProfile:   "change_profile",
	OpChangePassword:  "change_password",
	OpChangeLogin:     "change_login",
	OpListActive:      "list_active",
	OpListAll:         "list_all",
	OpLookupByLogin:   "lookup_by_login",
	OpListOverAge:     "list_over_age",
	OpDelete:          "delete",
	OpRestore:         "restore",
	OpPersonalProfile: "personal_profile",
}

func (o Operation) String() string {
	if s, ok := operationNames[o]; ok {
		return s
	}
	return "unknown"
}

// Target describes the account an operation is aimed at.
type Target struct {
	Login   string
	Revoked bool
}

// Policy decides whether a caller may perform an operation.
type Policy struct {
	allowAnonymousRegistration bool
}

func NewPolicy(allowAnonymousRegistration bool) Policy {
	return Policy{allowAnonymousRegistration: allowAnonymousRegistration}
}

// CanPerform evaluates the rule of op for p against t.
// For OpPersonalProfile the caller must have already re-authenticated
// t.Login with the supplied credentials.
func (pl Policy) CanPerform(p *Principal, op Operation, t Target) bool {
	switch op {
	case OpRegisterAdmin:
		return p.IsAdmin()
	case OpRegister:
		return p.Has(CapUser) || (p == nil && pl.allowAnonymousRegistration)
	case OpViewProfile, OpChangeProfile, OpChangePassword, OpChangeLogin:
		return p.IsAdmin() || isActiveSelf(p, t)
	case OpListActive, OpListAll, OpLookupByLogin, OpListOverAge, OpDelete, OpRestore:
		return p.IsAdmin()
	case OpPersonalProfile:
		return p.Has(CapUser) && p.Login == t.Login
	default:
		return false
	}
}

// Check is CanPerform mapped to the error a caller should receive.
// Asking for administrator status is forbidden to everyone else, anonymous
// callers included.
func (pl Policy) Check(p *Principal, op Operation, t Target) error {
	if pl.CanPerform(p, op, t) {
		return nil
	}
	if p == nil && op != OpRegisterAdmin {
		return ErrUnauthenticated
	}
	return ErrForbidden
}

func isActiveSelf(p *Principal, t Target) bool {
	return p.Has(CapUser) && p.Login == t.Login && !t.Revoked
}
