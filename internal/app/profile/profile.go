/*
Package profile implements the profile read and mutation actions.

A profile row is created externally at signup and never deleted here; only the
avatar field is nullable via deletion. All actions authenticate first, then
validate, then mutate, and report through a uniform three-state result.
*/
package profile

import "lumeo/internal/pkg/errs"

// Profile is the client-facing projection of a profile row. Field names map
// database columns (username, full_name, email, avatar_url) onto the JSON
// shape pages and the state store consume. Nil means the column is null.
type Profile struct {
	Username  *string `json:"username"`
	FullName  *string `json:"fullName"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatarUrl"`
}

// ActionResult is the uniform result shape of the three mutation actions.
// Exactly one state holds: Unauthenticated, a failure (Err non-nil), or a
// success carrying Data (which may be nil, e.g. nothing to delete). Callers
// must distinguish all three.
type ActionResult struct {
	Unauthenticated bool
	Err             *errs.CustomError
	Data            any
}

func unauthenticated() ActionResult {
	return ActionResult{Unauthenticated: true}
}

func failure(err *errs.CustomError) ActionResult {
	return ActionResult{Err: err}
}

func success(data any) ActionResult {
	return ActionResult{Data: data}
}
