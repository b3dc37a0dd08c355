package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumeo/internal/app/profile"
	"lumeo/internal/app/state"
	"lumeo/internal/configs"
	"lumeo/internal/pkg/gate"
)

const testUserID = "user-123"

func strPtr(s string) *string { return &s }

type fakeStore struct {
	row profile.Profile

	getErr       error
	existsResult bool
	updateErr    error
	setAvatarErr error
}

func (f *fakeStore) GetProfile(ctx context.Context, userID string) (profile.Profile, error) {
	if f.getErr != nil {
		return profile.Profile{}, f.getErr
	}
	return f.row, nil
}

func (f *fakeStore) UsernameExists(ctx context.Context, username, excludeUserID string) (bool, error) {
	return f.existsResult, nil
}

func (f *fakeStore) UpdateFields(ctx context.Context, userID string, fullName, username *string) (profile.Profile, error) {
	if f.updateErr != nil {
		return profile.Profile{}, f.updateErr
	}
	updated := f.row
	if fullName != nil {
		updated.FullName = fullName
	}
	if username != nil {
		updated.Username = username
	}
	return updated, nil
}

func (f *fakeStore) SetAvatarURL(ctx context.Context, userID string, avatarURL *string) (profile.Profile, error) {
	if f.setAvatarErr != nil {
		return profile.Profile{}, f.setAvatarErr
	}
	updated := f.row
	updated.AvatarURL = avatarURL
	return updated, nil
}

type fakeStorage struct {
	uploadErr error
	deleteErr error
}

func (f *fakeStorage) Upload(ctx context.Context, key, mimeType string, body io.Reader) error {
	return f.uploadErr
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	return f.deleteErr
}

func (f *fakeStorage) PublicURL(key string) string {
	return "https://storage.example.com/avatars/" + key
}

// newAuthBackend fakes the hosted auth service so the session gate can wrap
// handlers under test with an authenticated request.
func newAuthBackend(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": testUserID})
	}))
}

func testDeps(store *fakeStore, stor *fakeStorage, backendURL string) *AppDeps {
	return &AppDeps{
		Config: &configs.AppConfig{
			Environment:    "production",
			PublicAppURL:   "https://app.example.com",
			BackendURL:     backendURL,
			BackendAnonKey: "anon-key",
		},
		Profiles:  profile.NewService(store, stor, true),
		AvatarOps: state.NewUserOps(),
	}
}

// authed wraps a handler in the session gate backed by the fake auth service.
func authed(deps *AppDeps, h http.HandlerFunc) http.Handler {
	return gate.Middleware(deps.Config)(h)
}

func postForm(target string, values map[string]string) *http.Request {
	form := make([]string, 0, len(values))
	for k, v := range values {
		form = append(form, k+"="+v)
	}
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(strings.Join(form, "&")))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleUpdateProfileRejectsCrossOrigin(t *testing.T) {
	backend := newAuthBackend(t)
	defer backend.Close()
	deps := testDeps(&fakeStore{}, &fakeStorage{}, backend.URL)

	r := postForm("/profile/update-profile", map[string]string{"action": "updateProfile"})
	r.Host = "app.example.com"
	r.Header.Set("Origin", "https://evil.example.com")

	w := httptest.NewRecorder()
	HandleUpdateProfile(deps)(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid origin", decodeBody(t, w)["error"])
}

func TestHandleUpdateProfileInvalidAction(t *testing.T) {
	backend := newAuthBackend(t)
	defer backend.Close()
	deps := testDeps(&fakeStore{}, &fakeStorage{}, backend.URL)

	w := httptest.NewRecorder()
	HandleUpdateProfile(deps)(w, postForm("/profile/update-profile", map[string]string{"action": "dropTables"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid action", decodeBody(t, w)["error"])
}

func TestHandleUpdateProfileUnauthenticated(t *testing.T) {
	backend := newAuthBackend(t)
	defer backend.Close()
	deps := testDeps(&fakeStore{}, &fakeStorage{}, backend.URL)

	// No gate wrap: the request carries no claims.
	w := httptest.NewRecorder()
	HandleUpdateProfile(deps)(w, postForm("/profile/update-profile", map[string]string{
		"action":   "updateProfile",
		"username": "someone",
	}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authenticated", decodeBody(t, w)["error"])
}

func TestHandleUpdateProfileSuccess(t *testing.T) {
	backend := newAuthBackend(t)
	defer backend.Close()
	deps := testDeps(&fakeStore{}, &fakeStorage{}, backend.URL)

	handler := authed(deps, HandleUpdateProfile(deps))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, postForm("/profile/update-profile", map[string]string{
		"action":   "updateProfile",
		"username": "NewName",
	}))

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Operation completed successfully", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "newname", data["username"])

	assert.Equal(t, "no-store, no-cache, must-revalidate", w.Header().Get("Cache-Control"))
}

func TestHandleUpdateProfileUsernameTaken(t *testing.T) {
	backend := newAuthBackend(t)
	defer backend.Close()
	deps := testDeps(&fakeStore{existsResult: true}, &fakeStorage{}, backend.URL)

	handler := authed(deps, HandleUpdateProfile(deps))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, postForm("/profile/update-profile", map[string]string{
		"action":   "updateProfile",
		"username": "taken",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already taken", decodeBody(t, w)["error"])
}

func TestHandleDeleteAvatarNoOp(t *testing.T) {
	backend := newAuthBackend(t)
	defer backend.Close()
	deps := testDeps(&fakeStore{row: profile.Profile{Username: strPtr("user")}}, &fakeStorage{}, backend.URL)

	handler := authed(deps, HandleUpdateProfile(deps))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, postForm("/profile/update-profile", map[string]string{"action": "deleteAvatar"}))

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "No avatar to delete", body["message"])

	// data is present and null.
	_, present := body["data"]
	assert.True(t, present)
	assert.Nil(t, body["data"])
}

func TestHandleDeleteAvatarRemoves(t *testing.T) {
	backend := newAuthBackend(t)
	defer backend.Close()
	store := &fakeStore{row: profile.Profile{
		AvatarURL: strPtr("https://storage.example.com/avatars/user-123-1700000000000.jpg"),
	}}
	deps := testDeps(store, &fakeStorage{}, backend.URL)

	handler := authed(deps, HandleUpdateProfile(deps))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, postForm("/profile/update-profile", map[string]string{"action": "deleteAvatar"}))

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Operation completed successfully", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, data["avatarUrl"])
}

func multipartUpload(t *testing.T, action, fieldName, fileName, mimeType string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	require.NoError(t, mw.WriteField("action", action))

	if fieldName != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
		header.Set("Content-Type", mimeType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/profile/update-profile", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestHandleUploadAvatarSuccess(t *testing.T) {
	backend := newAuthBackend(t)
	defer backend.Close()
	deps := testDeps(&fakeStore{}, &fakeStorage{}, backend.URL)

	handler := authed(deps, HandleUpdateProfile(deps))

	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x01}, 32)...)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, multipartUpload(t, "uploadAvatar", "file", "photo.jpg", "image/jpeg", jpeg))

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)

	avatarURL, ok := data["avatarUrl"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(avatarURL, "https://storage.example.com/avatars/"+testUserID+"-"))
	assert.True(t, strings.HasSuffix(avatarURL, ".jpg"))
}

func TestHandleUploadAvatarMissingFile(t *testing.T) {
	backend := newAuthBackend(t)
	defer backend.Close()
	deps := testDeps(&fakeStore{}, &fakeStorage{}, backend.URL)

	handler := authed(deps, HandleUpdateProfile(deps))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, multipartUpload(t, "uploadAvatar", "", "", "", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file provided", decodeBody(t, w)["error"])
}

func TestHandleUploadAvatarMismatchedMagicBytes(t *testing.T) {
	backend := newAuthBackend(t)
	defer backend.Close()
	deps := testDeps(&fakeStore{}, &fakeStorage{}, backend.URL)

	handler := authed(deps, HandleUpdateProfile(deps))

	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x01}, 32)...)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, multipartUpload(t, "uploadAvatar", "file", "photo.png", "image/png", jpeg))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid image file", decodeBody(t, w)["error"])
}

func TestHandleGetProfile(t *testing.T) {
	backend := newAuthBackend(t)
	defer backend.Close()

	t.Run("unauthenticated", func(t *testing.T) {
		deps := testDeps(&fakeStore{}, &fakeStorage{}, backend.URL)

		w := httptest.NewRecorder()
		HandleGetProfile(deps)(w, httptest.NewRequest(http.MethodGet, "/profile/get-profile", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authentication required", decodeBody(t, w)["error"])
	})

	t.Run("database failure returns generic 500", func(t *testing.T) {
		deps := testDeps(&fakeStore{getErr: errors.New("connection refused")}, &fakeStorage{}, backend.URL)
		handler := authed(deps, HandleGetProfile(deps))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile/get-profile", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", decodeBody(t, w)["error"])
	})

	t.Run("success returns the profile directly", func(t *testing.T) {
		deps := testDeps(&fakeStore{row: profile.Profile{
			Username: strPtr("user"),
			Email:    strPtr("u@example.com"),
		}}, &fakeStorage{}, backend.URL)
		handler := authed(deps, HandleGetProfile(deps))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile/get-profile", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-store, no-cache, must-revalidate", w.Header().Get("Cache-Control"))

		body := decodeBody(t, w)
		assert.Equal(t, "user", body["username"])
		assert.Equal(t, "u@example.com", body["email"])
		assert.Nil(t, body["avatarUrl"])
	})
}
