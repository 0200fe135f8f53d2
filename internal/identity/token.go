package identity

import (
	"errors"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by SetToken for a token that does not verify
// or carries no subject.
var ErrInvalidToken = errors.New("invalid token")

// TokenProvider derives the owner identity from an HS256-signed access
// token (the shape hosted auth services hand to clients). It starts in the
// loading state and settles on the first SetToken call.
type TokenProvider struct {
	secret []byte

	mu      sync.Mutex
	current Session
	subs    map[int]chan Session
	nextID  int
}

func NewTokenProvider(secret []byte) *TokenProvider {
	return &TokenProvider{
		secret:  secret,
		current: Session{Status: StatusLoading},
		subs:    map[int]chan Session{},
	}
}

// SetToken verifies the token and publishes the resulting state. An empty
// token signs the user out; an invalid one also settles on anonymous but
// additionally reports the error so the caller can surface it.
func (p *TokenProvider) SetToken(tokenString string) error {
	if tokenString == "" {
		p.publish(Session{Status: StatusAnonymous})
		return nil
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		p.publish(Session{Status: StatusAnonymous})
		return errors.Join(ErrInvalidToken, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		p.publish(Session{Status: StatusAnonymous})
		return ErrInvalidToken
	}

	p.publish(Session{Status: StatusAuthenticated, UserID: sub})
	return nil
}

// SignOut transitions to the anonymous state.
func (p *TokenProvider) SignOut() {
	p.publish(Session{Status: StatusAnonymous})
}

func (p *TokenProvider) Current() Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *TokenProvider) Subscribe() (<-chan Session, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	ch := make(chan Session, 1)
	p.subs[id] = ch
	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// publish records the new state and notifies subscribers, keeping only the
// latest state for slow consumers.
func (p *TokenProvider) publish(s Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = s
	for _, ch := range p.subs {
		select {
		case ch <- s:
		default:
			// Drop the stale pending value and replace it.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

var _ Provider = (*TokenProvider)(nil)
