// Package media uploads images to Cloudinary, or to local disk when no
// Cloudinary account is configured.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/config"
)

// LocalURLPrefix is where the web server serves local uploads.
const LocalURLPrefix = "/uploads"

// Folders used by the CMS.
const (
	FolderHeroSliders  = "hero-sliders"
	FolderProjects     = "projects"
	FolderUnits        = "units"
	FolderNews         = "news"
	FolderLandingPages = "landing-pages"
	FolderAvatars      = "avatars"
	FolderSettings     = "website-settings"
)

var (
	// ErrNotDataURI is returned for strings that are not base64 data URIs.
	ErrNotDataURI = errors.New("not a base64 data uri")
	// ErrUnsupportedType is returned for files that are not an allowed image type.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge is returned for files above the upload limit.
	ErrTooLarge = errors.New("file too large")
	// ErrUnsupportedSource is returned for upload sources of an unknown kind.
	ErrUnsupportedSource = errors.New("unsupported upload source")
)

// AllowedImageTypes are the content types accepted for uploads.
var AllowedImageTypes = map[string]string{ //nolint:gochecknoglobals
	"image/jpeg":    "jpg",
	"image/jpg":     "jpg",
	"image/png":     "png",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

// Asset is a stored file.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Bytes    int    `json:"bytes"`
	Format   string `json:"format"`
}

// Uploader stores and deletes media.
//
// src is a data URI string, a remote URL string or an io.Reader.
type Uploader interface {
	Upload(ctx context.Context, src any, folder string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// IsDataURI reports whether s is an inline data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// IsImageDataURI reports whether s is an inline base64 image.
func IsImageDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image")
}

// DecodeDataURI splits a base64 data URI into its content type and bytes.
func DecodeDataURI(s string) (string, []byte, error) {
	if !IsDataURI(s) {
		return "", nil, ErrNotDataURI
	}

	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrNotDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrNotDataURI
	}

	return strings.TrimSuffix(meta, ";base64"), data, nil
}

// CheckImage validates the content type and size of an upload.
func CheckImage(contentType string, size, limit int64) error {
	if _, ok := AllowedImageTypes[strings.ToLower(contentType)]; !ok {
		return ErrUnsupportedType
	}

	if limit > 0 && size > limit {
		return ErrTooLarge
	}

	return nil
}

// PublicIDFromURL extracts the Cloudinary public id from a delivery URL,
// e.g. .../upload/v123/hero-sliders/abc.jpg -> hero-sliders/abc.
// It returns "" for URLs that are not Cloudinary uploads.
func PublicIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !strings.Contains(u.Host, "cloudinary.com") {
		return ""
	}

	_, rest, ok := strings.Cut(u.Path, "/upload/")
	if !ok {
		return ""
	}

	parts := strings.Split(rest, "/")
	if len(parts) > 1 && isVersion(parts[0]) {
		parts = parts[1:]
	}

	id := strings.Join(parts, "/")

	return strings.TrimSuffix(id, path.Ext(id))
}

func isVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' { //nolint:mnd
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// New returns a Cloudinary uploader when credentials are configured and a
// local disk uploader otherwise.
func New(cfg config.Cloudinary, uploadDir string) (Uploader, error) {
	if cfg.CloudName == "" {
		log.Warn().Str("dir", uploadDir).Msg("cloudinary not configured, storing uploads on disk")

		return NewLocal(uploadDir, LocalURLPrefix), nil
	}

	return NewCloudinary(cfg)
}

// JoinFolder prefixes folder with the account wide root folder.
func JoinFolder(root, folder string) string {
	if root == "" {
		return folder
	}

	return path.Join(root, folder)
}
