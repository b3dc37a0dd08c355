/*
Package handler provides the HTTP handlers and routing setup for the Lumeo web server.

This file contains the profile API: the JSON read endpoint and the form-encoded
action dispatch endpoint handling profile updates, avatar uploads, and avatar
deletion.
*/
package handler

import (
	"io"
	"net/http"

	"lumeo/internal/app/profile"
	"lumeo/internal/app/state"
	"lumeo/internal/pkg/errs"
	"lumeo/internal/pkg/gate"
	"lumeo/internal/pkg/logx"
	"lumeo/internal/pkg/req"
	"lumeo/internal/pkg/resp"
)

// profileAction is the tagged command type for the update-profile dispatch.
type profileAction string

const (
	actionUpdateProfile profileAction = "updateProfile"
	actionUploadAvatar  profileAction = "uploadAvatar"
	actionDeleteAvatar  profileAction = "deleteAvatar"
)

// parseAction validates the incoming tag against the known actions.
func parseAction(raw string) (profileAction, bool) {
	switch profileAction(raw) {
	case actionUpdateProfile, actionUploadAvatar, actionDeleteAvatar:
		return profileAction(raw), true
	default:
		return "", false
	}
}

// currentUserID returns the authenticated caller's opaque identifier, or "".
func currentUserID(r *http.Request) string {
	claims := gate.ClaimsFromContext(r)
	if claims == nil {
		return ""
	}
	return claims.Subject
}

// HandleGetProfile serves the caller's profile as JSON with no-store caching.
// Missing session, missing row, and database failure map to 401, 404, and 500.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, customErr := deps.Profiles.GetProfile(r.Context(), currentUserID(r))
		if customErr != nil {
			if customErr.Code == errs.ErrDatabase {
				// Detail stays in the log; the client gets a generic 500.
				logx.Error(customErr, "Database error fetching profile")
				resp.RespondError(w, r, errs.NewError(errs.ErrDatabase))
				return
			}
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondJSON(w, r, http.StatusOK, p)
	}
}

// HandleUpdateProfile dispatches the form-encoded profile actions. The CSRF
// origin check runs before anything else; the action tag is then matched
// exhaustively against the command type.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.CheckSameOrigin(r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := req.SetupForm(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		action, ok := parseAction(r.FormValue("action"))
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidAction))
			return
		}

		userID := currentUserID(r)

		var result profile.ActionResult

		switch action {
		case actionUpdateProfile:
			result = deps.Profiles.UpdateProfile(r.Context(), userID,
				r.FormValue("name"), r.FormValue("username"))

		case actionUploadAvatar:
			fileName, mimeType, content, customErr := readAvatarFile(r)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			ctx, release := deps.AvatarOps.For(userID).Begin(r.Context(), state.OpUploadAvatar)
			result = deps.Profiles.UploadAvatar(ctx, userID, fileName, mimeType, content)
			release()

		case actionDeleteAvatar:
			ctx, release := deps.AvatarOps.For(userID).Begin(r.Context(), state.OpDeleteAvatar)
			result = deps.Profiles.DeleteAvatar(ctx, userID)
			release()

		default:
			// parseAction makes this unreachable; kept so a new action
			// cannot silently fall through.
			logx.Error(nil, "Unhandled profile action", "action", string(action))
			resp.RespondError(w, r, errs.NewError(errs.ErrUnhandledAction))
			return
		}

		writeActionResult(w, r, action, result)
	}
}

// readAvatarFile pulls the uploaded file out of the multipart form. A missing
// file part is reported with the same error the validator uses so the client
// sees one consistent message.
func readAvatarFile(r *http.Request) (string, string, []byte, *errs.CustomError) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", nil, errs.NewError(errs.ErrNoFileProvided)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", "", nil, errs.NewError(errs.ErrFormParseFailed)
	}

	return header.Filename, header.Header.Get("Content-Type"), content, nil
}

// writeActionResult maps the uniform three-state action result onto the HTTP
// envelope. The delete no-op (success with nil data) gets its informational
// message instead of the generic success one.
func writeActionResult(w http.ResponseWriter, r *http.Request, action profileAction, result profile.ActionResult) {
	if result.Unauthenticated {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthenticated))
		return
	}

	if result.Err != nil {
		resp.RespondError(w, r, result.Err)
		return
	}

	if action == actionDeleteAvatar && result.Data == nil {
		resp.RespondSuccess(w, r, "No avatar to delete", nil)
		return
	}

	resp.RespondSuccess(w, r, "Operation completed successfully", result.Data)
}
