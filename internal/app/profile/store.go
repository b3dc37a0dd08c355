package profile

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence boundary for profile rows.
type Store interface {
	// GetProfile returns the fixed projection of the user's row.
	// Absence surfaces as pgx.ErrNoRows.
	GetProfile(ctx context.Context, userID string) (Profile, error)

	// UsernameExists reports whether another user already holds the username.
	UsernameExists(ctx context.Context, username, excludeUserID string) (bool, error)

	// UpdateFields updates only the non-nil fields and returns the fresh row.
	UpdateFields(ctx context.Context, userID string, fullName, username *string) (Profile, error)

	// SetAvatarURL sets (or nulls) the avatar column and returns the fresh row.
	SetAvatarURL(ctx context.Context, userID string, avatarURL *string) (Profile, error)
}

// PgStore implements Store on the hosted platform's PostgreSQL database.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a PgStore bound to the given connection pool.
func NewStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

const profileProjection = "username, full_name, email, avatar_url"

func parseUserID(userID string) (pgtype.UUID, error) {
	var id pgtype.UUID
	if err := id.Scan(userID); err != nil {
		return id, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	return id, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func ptrText(p *string) pgtype.Text {
	if p == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *p, Valid: true}
}

func scanProfile(row interface{ Scan(dest ...any) error }) (Profile, error) {
	var username, fullName, email, avatarURL pgtype.Text
	if err := row.Scan(&username, &fullName, &email, &avatarURL); err != nil {
		return Profile{}, err
	}

	return Profile{
		Username:  textPtr(username),
		FullName:  textPtr(fullName),
		Email:     textPtr(email),
		AvatarURL: textPtr(avatarURL),
	}, nil
}

func (s *PgStore) GetProfile(ctx context.Context, userID string) (Profile, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return Profile{}, err
	}

	row := s.pool.QueryRow(ctx,
		"SELECT "+profileProjection+" FROM profiles WHERE id = $1",
		id,
	)

	return scanProfile(row)
}

func (s *PgStore) UsernameExists(ctx context.Context, username, excludeUserID string) (bool, error) {
	id, err := parseUserID(excludeUserID)
	if err != nil {
		return false, err
	}

	var exists bool
	err = s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM profiles WHERE username = $1 AND id <> $2)",
		username, id,
	).Scan(&exists)

	return exists, err
}

func (s *PgStore) UpdateFields(ctx context.Context, userID string, fullName, username *string) (Profile, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return Profile{}, err
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE profiles
		    SET full_name = COALESCE($2, full_name),
		        username = COALESCE($3, username),
		        updated_at = now()
		  WHERE id = $1
		  RETURNING `+profileProjection,
		id, ptrText(fullName), ptrText(username),
	)

	return scanProfile(row)
}

func (s *PgStore) SetAvatarURL(ctx context.Context, userID string, avatarURL *string) (Profile, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return Profile{}, err
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE profiles
		    SET avatar_url = $2,
		        updated_at = now()
		  WHERE id = $1
		  RETURNING `+profileProjection,
		id, ptrText(avatarURL),
	)

	return scanProfile(row)
}
