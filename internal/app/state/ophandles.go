package state

import (
	"context"
	"sync"
)

// OpKind names a cancellable avatar operation.
type OpKind string

const (
	OpUploadAvatar OpKind = "upload_avatar"
	OpDeleteAvatar OpKind = "delete_avatar"
)

// OpHandles tracks one in-flight cancellable request per operation kind.
// Starting a new operation cancels any previous in-flight one of the same
// kind (last-write-wins). Distinct kinds are not mutually exclusive and can
// race; serializing them is left to a per-resource queue if ever needed.
type OpHandles struct {
	mu     sync.Mutex
	active map[OpKind]*opHandle
}

type opHandle struct {
	cancel context.CancelFunc
}

// NewOpHandles constructs an empty handle set.
func NewOpHandles() *OpHandles {
	return &OpHandles{active: make(map[OpKind]*opHandle)}
}

// Begin cancels any in-flight operation of the same kind and returns a context
// for the new one plus a release func the caller must invoke when finished.
// The release is bound to this operation: a stale caller releasing late does
// not disturb a newer operation that has since taken over the kind.
func (h *OpHandles) Begin(parent context.Context, kind OpKind) (context.Context, context.CancelFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.active[kind]; ok {
		prev.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	entry := &opHandle{cancel: cancel}
	h.active[kind] = entry

	release := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		cancel()
		if h.active[kind] == entry {
			delete(h.active, kind)
		}
	}

	return ctx, release
}

// CancelAll cancels every in-flight operation, e.g. on session teardown, so
// nothing updates state afterwards.
func (h *OpHandles) CancelAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for kind, entry := range h.active {
		entry.cancel()
		delete(h.active, kind)
	}
}

// UserOps hands out one OpHandles set per user, so concurrent avatar requests
// from the same user contend with each other while different users never
// interact.
type UserOps struct {
	mu     sync.Mutex
	byUser map[string]*OpHandles
}

// NewUserOps constructs an empty per-user registry.
func NewUserOps() *UserOps {
	return &UserOps{byUser: make(map[string]*OpHandles)}
}

// For returns the handle set for the user, creating it on first use.
func (u *UserOps) For(userID string) *OpHandles {
	u.mu.Lock()
	defer u.mu.Unlock()

	h, ok := u.byUser[userID]
	if !ok {
		h = NewOpHandles()
		u.byUser[userID] = h
	}
	return h
}
