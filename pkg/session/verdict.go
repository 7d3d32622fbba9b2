package session

type verdictKind uint8

const (
	verdictInvalid verdictKind = iota
	verdictAnonymous
	verdictUser
)

// Verdict is the result of a ResponseFunc. The zero value is invalid.
type Verdict struct {
	kind verdictKind
	user User
}

// Reject marks the session invalid.
func Reject() Verdict { return Verdict{} }

// Accept marks the session valid without a user object. The provider's user is cleared.
func Accept() Verdict { return Verdict{kind: verdictAnonymous} }

// AcceptUser marks the session valid with u as the new user.
// A nil user is treated as invalid.
func AcceptUser(u User) Verdict {
	if u == nil {
		return Verdict{}
	}
	return Verdict{kind: verdictUser, user: u}
}

// Valid reports whether the session should be considered valid.
func (v Verdict) Valid() bool { return v.kind != verdictInvalid }

// User returns the accepted user, nil for anonymous or rejected verdicts.
func (v Verdict) User() User { return v.user }
