package identity

// StaticProvider always reports the same session. Used in tests and by
// tools that receive an owner id directly.
type StaticProvider struct {
	Session Session
}

// Authenticated returns a provider settled on the given owner id.
func Authenticated(userID string) *StaticProvider {
	return &StaticProvider{Session: Session{Status: StatusAuthenticated, UserID: userID}}
}

func (p *StaticProvider) Current() Session { return p.Session }

func (p *StaticProvider) Subscribe() (<-chan Session, func()) {
	ch := make(chan Session)
	return ch, func() {}
}

var _ Provider = (*StaticProvider)(nil)
