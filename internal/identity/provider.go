// Package identity supplies the owner identity to the sync engine. It
// distinguishes "no id yet" (the provider is still resolving a token) from
// "no id ever" (signed out); the engine must not run load/sync logic while
// the status is still loading.
package identity

import "context"

// Status is the auth state of the current session.
type Status int

const (
	// StatusLoading means the identity is not known yet.
	StatusLoading Status = iota
	// StatusAuthenticated means a stable owner id is available.
	StatusAuthenticated
	// StatusAnonymous means the user is signed out.
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session is one observation of the auth state. UserID is set only when
// Status is StatusAuthenticated.
type Session struct {
	Status Status
	UserID string
}

// Provider exposes the current auth state and change notifications.
// Consumers receive it by injection; there is no package-level singleton.
type Provider interface {
	// Current returns the latest observed session.
	Current() Session

	// Subscribe returns a channel of session changes and a cancel
	// function. The channel carries the latest state; intermediate states
	// may be dropped if the consumer is slow.
	Subscribe() (<-chan Session, func())
}

// Await blocks until the provider leaves the loading state or the context
// is done. It returns the first settled session.
func Await(ctx context.Context, p Provider) (Session, error) {
	if s := p.Current(); s.Status != StatusLoading {
		return s, nil
	}
	ch, cancel := p.Subscribe()
	defer cancel()
	for {
		select {
		case s := <-ch:
			if s.Status != StatusLoading {
				return s, nil
			}
		case <-ctx.Done():
			return Session{}, ctx.Err()
		}
	}
}
