// Package uploads handles avatar/thumbnail image uploads and serves the
// stored files back. Files land in a per-user subdirectory under the
// configured upload root, with a freshly generated random filename so
// original names never reach the filesystem.
package uploads

import (
	"regexp"
	"strings"
)

// imageExtensions is the allow-list of storable extensions. SVG stays out:
// it can carry scripts.
var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
}

var unsafeUserChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// ResolveExtension decides the storage extension from the content type,
// falling back to the original filename. It returns "" when neither
// identifies an allowed image format; image/svg+xml and .svg are always
// rejected. jpeg normalizes to jpg.
func ResolveExtension(contentType, originalFilename string) string {
	if contentType == "image/svg+xml" {
		return ""
	}
	if ext := extensionFromContentType(contentType); ext != "" {
		return ext
	}
	if idx := strings.LastIndex(originalFilename, "."); idx >= 0 {
		ext := strings.ToLower(originalFilename[idx+1:])
		if ext == "svg" {
			return ""
		}
		if imageExtensions[ext] {
			if ext == "jpeg" {
				return "jpg"
			}
			return ext
		}
	}
	return ""
}

// extensionFromContentType maps an image content type to its storage
// extension, or "" when the type is not on the allow-list.
func extensionFromContentType(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/bmp":
		return "bmp"
	default:
		return ""
	}
}

// SanitizeUsername maps a username to a filesystem-safe directory name.
func SanitizeUsername(username string) string {
	return unsafeUserChars.ReplaceAllString(username, "_")
}
