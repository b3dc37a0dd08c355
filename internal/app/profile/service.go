package profile

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"lumeo/internal/app/db"
	"lumeo/internal/app/storage"
	"lumeo/internal/pkg/errs"
	"lumeo/internal/pkg/logx"
)

// Service wires the profile actions to their persistence and storage backends.
type Service struct {
	store      Store
	storage    storage.StorageService
	production bool
}

// NewService constructs a Service. production controls whether database error
// detail reaches clients: outside production the raw message is surfaced to
// ease debugging, in production a generic error is returned instead.
func NewService(store Store, storageService storage.StorageService, production bool) *Service {
	return &Service{
		store:      store,
		storage:    storageService,
		production: production,
	}
}

// databaseFailure maps a storage-layer error to the client-facing error,
// leaking detail only outside production.
func (s *Service) databaseFailure(err error) *errs.CustomError {
	logx.Error(err, "Profile database operation failed")
	dbErr := errs.NewError(errs.ErrDatabase)
	if !s.production {
		return dbErr.WithMessage(err.Error())
	}
	return dbErr
}

// UpdateProfile updates the caller's name and/or username. The username is
// trimmed and lowercased; with both fields empty after trimming the operation
// is a no-op error. Uniqueness is ultimately enforced by the database
// constraint: the pre-check below is an optimization, and the 23505 mapping is
// what guarantees "Username already taken" under races.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, username string) ActionResult {
	if userID == "" {
		return unauthenticated()
	}

	name = strings.TrimSpace(name)
	username = strings.ToLower(strings.TrimSpace(username))

	var fullNamePtr, usernamePtr *string
	if name != "" {
		fullNamePtr = &name
	}
	if username != "" {
		usernamePtr = &username
	}

	if fullNamePtr == nil && usernamePtr == nil {
		return failure(errs.NewError(errs.ErrNoFieldsToUpdate))
	}

	if usernamePtr != nil {
		taken, err := s.store.UsernameExists(ctx, username, userID)
		if err != nil {
			// Pre-check only; the unique constraint below is authoritative.
			logx.Warn("Username pre-check failed, relying on constraint", "error", err.Error())
		} else if taken {
			return failure(errs.NewError(errs.ErrUsernameTaken))
		}
	}

	updated, err := s.store.UpdateFields(ctx, userID, fullNamePtr, usernamePtr)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return failure(errs.NewError(errs.ErrUsernameTaken))
		}
		if db.IsNoRows(err) {
			return failure(errs.NewError(errs.ErrProfileNotFound))
		}
		return failure(s.databaseFailure(err))
	}

	return success(updated)
}

// UploadAvatar validates and stores a new avatar, then points the profile row
// at its public URL. The object name embeds the user ID and current timestamp,
// which keeps names unique without a collision check. When the row update
// fails after a successful write, a best-effort compensating delete removes
// the orphaned object; its own failure is logged and swallowed.
func (s *Service) UploadAvatar(ctx context.Context, userID, fileName, declaredMime string, content []byte) ActionResult {
	if userID == "" {
		return unauthenticated()
	}

	ext, validationErr := validateAvatar(fileName, declaredMime, content)
	if validationErr != nil {
		return failure(validationErr)
	}

	objectName := fmt.Sprintf("%s-%d.%s", userID, time.Now().UnixMilli(), ext)

	if err := s.storage.Upload(ctx, objectName, declaredMime, bytes.NewReader(content)); err != nil {
		// The write may have landed partially; try to remove it.
		if cleanupErr := s.storage.Delete(ctx, objectName); cleanupErr != nil {
			logx.Warn("Compensating delete after failed upload also failed",
				"object", objectName, "error", cleanupErr.Error())
		}
		return failure(errs.NewError(errs.ErrStorageFailed))
	}

	publicURL := s.storage.PublicURL(objectName)

	updated, err := s.store.SetAvatarURL(ctx, userID, &publicURL)
	if err != nil {
		// The object is now orphaned; log it for operators rather than
		// surfacing a partial-failure result.
		logx.Warn("Avatar uploaded but row update failed, object orphaned", "object", objectName)
		if db.IsNoRows(err) {
			return failure(errs.NewError(errs.ErrProfileNotFound))
		}
		return failure(s.databaseFailure(err))
	}

	return success(updated)
}

// avatarObjectName extracts the stored object's name from a public avatar URL:
// the final path segment.
func avatarObjectName(avatarURL string) (string, error) {
	u, err := url.Parse(avatarURL)
	if err != nil {
		return "", fmt.Errorf("invalid avatar URL: %w", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("avatar URL %q has no object name", avatarURL)
	}
	return name, nil
}

// DeleteAvatar removes the caller's avatar. A null avatar field is a
// distinguishable no-op (Data == nil), not an error, so the caller can show an
// informational message. The object is deleted before the row update; a crash
// between the two leaves the row pointing at a missing object, an accepted
// inconsistency window.
func (s *Service) DeleteAvatar(ctx context.Context, userID string) ActionResult {
	if userID == "" {
		return unauthenticated()
	}

	current, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return failure(errs.NewError(errs.ErrProfileNotFound))
		}
		return failure(s.databaseFailure(err))
	}

	if current.AvatarURL == nil {
		return success(nil)
	}

	objectName, err := avatarObjectName(*current.AvatarURL)
	if err != nil {
		logx.Error(err, "Stored avatar URL is malformed", "user_id", userID)
		return failure(errs.NewError(errs.ErrStorageDeleteFailed))
	}

	if err := s.storage.Delete(ctx, objectName); err != nil {
		return failure(errs.NewError(errs.ErrStorageDeleteFailed))
	}

	updated, err := s.store.SetAvatarURL(ctx, userID, nil)
	if err != nil {
		return failure(s.databaseFailure(err))
	}

	return success(updated)
}

// GetProfile reads the caller's profile. Absence of a row, lack of a session,
// and database failures are distinct errors; database detail is included only
// outside production.
func (s *Service) GetProfile(ctx context.Context, userID string) (Profile, *errs.CustomError) {
	if userID == "" {
		return Profile{}, errs.NewError(errs.ErrAuthRequired)
	}

	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return Profile{}, errs.NewError(errs.ErrProfileNotFound)
		}
		return Profile{}, s.databaseFailure(err)
	}

	return p, nil
}
