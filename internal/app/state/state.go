/*
Package state holds the session-scoped observable profile state.

A Store is constructed explicitly per browsing session (no package-level
singleton) with an injectable fetch function. It is hydrated once from a
server-provided snapshot when one exists; otherwise it lazily fetches after
confirming a live session, debounced slightly so session establishment can
settle. Mutation handlers merge only the fields they changed.
*/
package state

import (
	"context"
	"sync"
	"time"

	"lumeo/internal/app/profile"
	"lumeo/internal/pkg/logx"
	"lumeo/internal/pkg/randx"
)

// DefaultSettleDelay is how long a lazy load waits before fetching, letting
// session cookies land before the first profile read.
const DefaultSettleDelay = 150 * time.Millisecond

// FetchFunc loads the current profile, or nil when no session exists.
type FetchFunc func(ctx context.Context) (*profile.Profile, error)

// SessionFunc reports whether a live session exists.
type SessionFunc func(ctx context.Context) bool

// AuthEvent names a change in session state the store reacts to.
type AuthEvent string

const (
	SignedIn    AuthEvent = "signed_in"
	SignedOut   AuthEvent = "signed_out"
	UserUpdated AuthEvent = "user_updated"
)

// Patch carries a partial profile update. Nil fields are left untouched;
// ClearAvatar nulls the avatar explicitly since a nil AvatarURL alone means
// "unchanged".
type Patch struct {
	Username    *string
	FullName    *string
	Email       *string
	AvatarURL   *string
	ClearAvatar bool
}

// Store is the observable profile value. All methods are safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	current *profile.Profile
	loaded  bool

	fetch      FetchFunc
	hasSession SessionFunc
	settle     time.Duration

	subs map[string]chan *profile.Profile
}

// Option customizes a Store.
type Option func(*Store)

// WithSettleDelay overrides the lazy-load debounce delay.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Store) { s.settle = d }
}

// NewStore constructs a Store with the given fetch and session checks.
func NewStore(fetch FetchFunc, hasSession SessionFunc, opts ...Option) *Store {
	s := &Store{
		fetch:      fetch,
		hasSession: hasSession,
		settle:     DefaultSettleDelay,
		subs:       make(map[string]chan *profile.Profile),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate seeds the store from a server-provided snapshot, avoiding the
// redundant first fetch. It only applies before any load has happened.
func (s *Store) Hydrate(snapshot *profile.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return
	}
	s.current = snapshot
	s.loaded = true
	s.notifyLocked()
}

// Current returns a copy of the held profile, or nil when empty.
func (s *Store) Current() *profile.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	clone := *s.current
	return &clone
}

// EnsureLoaded lazily fetches the profile if no snapshot hydrated the store.
// It waits for the settle delay, confirms a live session exists, then fetches.
// Returns without fetching when already loaded or unauthenticated.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	select {
	case <-time.After(s.settle):
	case <-ctx.Done():
		return ctx.Err()
	}

	if !s.hasSession(ctx) {
		return nil
	}

	return s.refresh(ctx)
}

// OnAuthEvent reacts to session transitions: sign-in and user-update refetch,
// sign-out clears.
func (s *Store) OnAuthEvent(ctx context.Context, event AuthEvent) {
	switch event {
	case SignedIn, UserUpdated:
		if err := s.refresh(ctx); err != nil {
			logx.Warn("Profile refresh after auth event failed", "event", string(event), "error", err.Error())
		}
	case SignedOut:
		s.Clear()
	}
}

func (s *Store) refresh(ctx context.Context) error {
	p, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = p
	s.loaded = true
	s.notifyLocked()
	return nil
}

// Merge applies a partial update, touching only the fields the patch names.
// The existing value is merged into, never replaced wholesale, so concurrent
// mutation handlers do not clobber each other's fields.
func (s *Store) Merge(patch Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := profile.Profile{}
	if s.current != nil {
		base = *s.current
	}

	if patch.Username != nil {
		base.Username = patch.Username
	}
	if patch.FullName != nil {
		base.FullName = patch.FullName
	}
	if patch.Email != nil {
		base.Email = patch.Email
	}
	if patch.ClearAvatar {
		base.AvatarURL = nil
	} else if patch.AvatarURL != nil {
		base.AvatarURL = patch.AvatarURL
	}

	s.current = &base
	s.loaded = true
	s.notifyLocked()
}

// Clear empties the store, e.g. on sign-out.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.loaded = false
	s.notifyLocked()
}

// Subscribe registers an observer. The returned channel immediately receives
// the current value and then every subsequent change; slow subscribers miss
// intermediate values rather than blocking writers.
func (s *Store) Subscribe() (string, <-chan *profile.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := randx.SubscriberToken()
	ch := make(chan *profile.Profile, 1)
	s.subs[token] = ch

	ch <- s.cloneLocked()

	return token, ch
}

// Unsubscribe removes the observer and closes its channel.
func (s *Store) Unsubscribe(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subs[token]; ok {
		delete(s.subs, token)
		close(ch)
	}
}

func (s *Store) cloneLocked() *profile.Profile {
	if s.current == nil {
		return nil
	}
	clone := *s.current
	return &clone
}

// notifyLocked pushes the current value to every subscriber, dropping the
// stale buffered value first so the channel always holds the latest.
func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.cloneLocked()
	}
}
