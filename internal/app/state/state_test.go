package state

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumeo/internal/app/profile"
)

func strPtr(s string) *string { return &s }

func sessionAlways(ctx context.Context) bool { return true }
func sessionNever(ctx context.Context) bool  { return false }

func fetchFixed(p *profile.Profile) FetchFunc {
	return func(ctx context.Context) (*profile.Profile, error) {
		return p, nil
	}
}

func TestHydrateSeedsOnce(t *testing.T) {
	var fetches atomic.Int32
	fetch := func(ctx context.Context) (*profile.Profile, error) {
		fetches.Add(1)
		return &profile.Profile{Username: strPtr("fetched")}, nil
	}

	s := NewStore(fetch, sessionAlways, WithSettleDelay(0))
	s.Hydrate(&profile.Profile{Username: strPtr("snapshot")})

	require.NoError(t, s.EnsureLoaded(context.Background()))

	current := s.Current()
	require.NotNil(t, current)
	assert.Equal(t, "snapshot", *current.Username)
	assert.Equal(t, int32(0), fetches.Load(), "hydrated store must not fetch")

	// A second hydrate after load is ignored.
	s.Hydrate(&profile.Profile{Username: strPtr("late")})
	assert.Equal(t, "snapshot", *s.Current().Username)
}

func TestEnsureLoadedFetchesWithSession(t *testing.T) {
	s := NewStore(fetchFixed(&profile.Profile{Username: strPtr("fetched")}), sessionAlways, WithSettleDelay(0))

	require.NoError(t, s.EnsureLoaded(context.Background()))

	current := s.Current()
	require.NotNil(t, current)
	assert.Equal(t, "fetched", *current.Username)
}

func TestEnsureLoadedSkipsWithoutSession(t *testing.T) {
	var fetches atomic.Int32
	fetch := func(ctx context.Context) (*profile.Profile, error) {
		fetches.Add(1)
		return nil, nil
	}

	s := NewStore(fetch, sessionNever, WithSettleDelay(0))

	require.NoError(t, s.EnsureLoaded(context.Background()))
	assert.Equal(t, int32(0), fetches.Load())
	assert.Nil(t, s.Current())
}

func TestEnsureLoadedRespectsContextDuringSettle(t *testing.T) {
	s := NewStore(fetchFixed(nil), sessionAlways, WithSettleDelay(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.EnsureLoaded(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnsureLoadedPropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("backend down")
	fetch := func(ctx context.Context) (*profile.Profile, error) {
		return nil, fetchErr
	}

	s := NewStore(fetch, sessionAlways, WithSettleDelay(0))

	assert.ErrorIs(t, s.EnsureLoaded(context.Background()), fetchErr)
	assert.Nil(t, s.Current())
}

func TestCurrentReturnsACopy(t *testing.T) {
	s := NewStore(fetchFixed(nil), sessionAlways)
	s.Hydrate(&profile.Profile{Username: strPtr("original")})

	got := s.Current()
	got.Username = strPtr("mutated")

	assert.Equal(t, "original", *s.Current().Username)
}

func TestMergeTouchesOnlyNamedFields(t *testing.T) {
	s := NewStore(fetchFixed(nil), sessionAlways)
	s.Hydrate(&profile.Profile{
		Username:  strPtr("user"),
		FullName:  strPtr("Full Name"),
		Email:     strPtr("user@example.com"),
		AvatarURL: strPtr("https://cdn.example.com/a.png"),
	})

	s.Merge(Patch{Username: strPtr("renamed")})

	current := s.Current()
	assert.Equal(t, "renamed", *current.Username)
	assert.Equal(t, "Full Name", *current.FullName)
	assert.Equal(t, "user@example.com", *current.Email)
	assert.Equal(t, "https://cdn.example.com/a.png", *current.AvatarURL)
}

func TestMergeClearAvatar(t *testing.T) {
	s := NewStore(fetchFixed(nil), sessionAlways)
	s.Hydrate(&profile.Profile{AvatarURL: strPtr("https://cdn.example.com/a.png")})

	// A nil AvatarURL alone means unchanged.
	s.Merge(Patch{Username: strPtr("user")})
	require.NotNil(t, s.Current().AvatarURL)

	s.Merge(Patch{ClearAvatar: true})
	assert.Nil(t, s.Current().AvatarURL)
}

func TestMergeIntoEmptyStore(t *testing.T) {
	s := NewStore(fetchFixed(nil), sessionAlways)

	s.Merge(Patch{Username: strPtr("user")})

	current := s.Current()
	require.NotNil(t, current)
	assert.Equal(t, "user", *current.Username)
	assert.Nil(t, current.FullName)
}

func TestClear(t *testing.T) {
	s := NewStore(fetchFixed(&profile.Profile{Username: strPtr("refetched")}), sessionAlways, WithSettleDelay(0))
	s.Hydrate(&profile.Profile{Username: strPtr("user")})

	s.Clear()
	assert.Nil(t, s.Current())

	// Clearing resets the loaded flag, so a later load fetches again.
	require.NoError(t, s.EnsureLoaded(context.Background()))
	require.NotNil(t, s.Current())
	assert.Equal(t, "refetched", *s.Current().Username)
}

func TestOnAuthEvent(t *testing.T) {
	s := NewStore(fetchFixed(&profile.Profile{Username: strPtr("user")}), sessionAlways)

	s.OnAuthEvent(context.Background(), SignedIn)
	require.NotNil(t, s.Current())

	s.OnAuthEvent(context.Background(), SignedOut)
	assert.Nil(t, s.Current())

	s.OnAuthEvent(context.Background(), UserUpdated)
	require.NotNil(t, s.Current())
}

func TestSubscribeReceivesCurrentAndUpdates(t *testing.T) {
	s := NewStore(fetchFixed(nil), sessionAlways)
	s.Hydrate(&profile.Profile{Username: strPtr("initial")})

	token, ch := s.Subscribe()
	defer s.Unsubscribe(token)

	first := <-ch
	require.NotNil(t, first)
	assert.Equal(t, "initial", *first.Username)

	s.Merge(Patch{Username: strPtr("updated")})

	second := <-ch
	require.NotNil(t, second)
	assert.Equal(t, "updated", *second.Username)
}

func TestSlowSubscriberSeesLatestValue(t *testing.T) {
	s := NewStore(fetchFixed(nil), sessionAlways)

	token, ch := s.Subscribe()
	defer s.Unsubscribe(token)

	// Never read the initial nil; pile up changes.
	s.Merge(Patch{Username: strPtr("one")})
	s.Merge(Patch{Username: strPtr("two")})
	s.Merge(Patch{Username: strPtr("three")})

	got := <-ch
	require.NotNil(t, got)
	assert.Equal(t, "three", *got.Username)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	s := NewStore(fetchFixed(nil), sessionAlways)

	token, ch := s.Subscribe()
	<-ch

	s.Unsubscribe(token)

	_, open := <-ch
	assert.False(t, open)

	// A second unsubscribe is a no-op.
	s.Unsubscribe(token)
}

func TestOpHandlesLastWriteWins(t *testing.T) {
	h := NewOpHandles()

	first, releaseFirst := h.Begin(context.Background(), OpUploadAvatar)
	second, releaseSecond := h.Begin(context.Background(), OpUploadAvatar)

	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.NoError(t, second.Err())

	// A stale release must not disturb the operation that took over.
	releaseFirst()
	assert.NoError(t, second.Err())

	releaseSecond()
	assert.ErrorIs(t, second.Err(), context.Canceled)
}

func TestOpHandlesKindsAreIndependent(t *testing.T) {
	h := NewOpHandles()

	upload, releaseUpload := h.Begin(context.Background(), OpUploadAvatar)
	del, releaseDelete := h.Begin(context.Background(), OpDeleteAvatar)
	defer releaseUpload()

	assert.NoError(t, upload.Err())
	assert.NoError(t, del.Err())

	releaseDelete()
	assert.NoError(t, upload.Err())
	assert.ErrorIs(t, del.Err(), context.Canceled)
}

func TestOpHandlesCancelAll(t *testing.T) {
	h := NewOpHandles()

	upload, _ := h.Begin(context.Background(), OpUploadAvatar)
	del, _ := h.Begin(context.Background(), OpDeleteAvatar)

	h.CancelAll()

	assert.ErrorIs(t, upload.Err(), context.Canceled)
	assert.ErrorIs(t, del.Err(), context.Canceled)

	// CancelAll leaves the handle set reusable.
	again, release := h.Begin(context.Background(), OpUploadAvatar)
	assert.NoError(t, again.Err())
	release()
}

func TestUserOpsIsolatesUsers(t *testing.T) {
	ops := NewUserOps()

	a := ops.For("user-a")
	assert.Same(t, a, ops.For("user-a"))
	assert.NotSame(t, a, ops.For("user-b"))

	aCtx, releaseA := ops.For("user-a").Begin(context.Background(), OpUploadAvatar)
	defer releaseA()
	bCtx, releaseB := ops.For("user-b").Begin(context.Background(), OpUploadAvatar)
	defer releaseB()

	// One user starting an upload does not cancel another user's.
	assert.NoError(t, aCtx.Err())
	assert.NoError(t, bCtx.Err())
}
