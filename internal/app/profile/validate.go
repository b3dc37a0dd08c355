package profile

import (
	"strings"

	"lumeo/internal/pkg/errs"
)

// MaxAvatarSize is the inclusive upper bound for avatar uploads.
// A file of exactly this size is accepted; one byte more is rejected.
const MaxAvatarSize = 5 * 1024 * 1024

// allowedMimeTypes is the declared-MIME allow-list. An empty declared type
// passes; the magic-byte check still applies.
var allowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// allowedExtensions is the file extension allow-list (without dot, lowercase).
var allowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"webp": {},
}

// fileExtension extracts the lowercased extension after the final dot.
// A leading dot (dotfile) does not count as an extension separator.
func fileExtension(fileName string) string {
	lastDot := strings.LastIndex(fileName, ".")
	if lastDot <= 0 {
		return ""
	}
	return strings.ToLower(fileName[lastDot+1:])
}

// matchesSignature checks the content's magic bytes against the signature the
// extension promises: JPEG FF D8 FF, PNG 89 50 4E 47, GIF 47 49 46, and WebP
// "WEBP" at bytes 8-11. A mismatched signature rejects the file even when the
// bytes form some other valid image.
func matchesSignature(ext string, b []byte) bool {
	switch ext {
	case "jpg", "jpeg":
		return len(b) > 2 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF
	case "png":
		return len(b) > 3 && b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47
	case "gif":
		return len(b) > 2 && b[0] == 0x47 && b[1] == 0x49 && b[2] == 0x46
	case "webp":
		return len(b) > 11 && b[8] == 0x57 && b[9] == 0x45 && b[10] == 0x42 && b[11] == 0x50
	default:
		return false
	}
}

// validateAvatar runs the upload checks in order: presence, size, declared
// MIME type, extension, magic bytes. All must pass; the first failure is
// returned and nothing is mutated. On success the extension is returned for
// object naming.
func validateAvatar(fileName, declaredMime string, content []byte) (string, *errs.CustomError) {
	if fileName == "" || len(content) == 0 {
		return "", errs.NewError(errs.ErrNoFileProvided)
	}

	if len(content) > MaxAvatarSize {
		return "", errs.NewError(errs.ErrFileTooLarge)
	}

	if declaredMime != "" {
		if _, ok := allowedMimeTypes[declaredMime]; !ok {
			return "", errs.NewError(errs.ErrMimeNotAllowed)
		}
	}

	ext := fileExtension(fileName)
	if ext == "" {
		return "", errs.NewError(errs.ErrBadExtension)
	}
	if _, ok := allowedExtensions[ext]; !ok {
		return "", errs.NewError(errs.ErrBadExtension)
	}

	if !matchesSignature(ext, content) {
		return "", errs.NewError(errs.ErrInvalidImage)
	}

	return ext, nil
}
