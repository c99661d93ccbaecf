package media

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Local stores uploads below Dir and serves them under URLPrefix.
type Local struct {
	Dir       string
	URLPrefix string
}

// NewLocal creates a disk uploader.
func NewLocal(dir, urlPrefix string) *Local {
	return &Local{Dir: dir, URLPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

// Upload implements Uploader. Remote URLs are returned unchanged.
func (l *Local) Upload(_ context.Context, src any, folder string) (*Asset, error) {
	var (
		data        []byte
		contentType string
		err         error
	)

	switch s := src.(type) {
	case string:
		if !IsDataURI(s) {
			return &Asset{URL: s}, nil
		}

		if contentType, data, err = DecodeDataURI(s); err != nil {
			return nil, err
		}
	case io.Reader:
		if data, err = io.ReadAll(s); err != nil {
			return nil, errors.Wrap(err, "failed to read upload")
		}

		contentType = http.DetectContentType(data)
	default:
		return nil, ErrUnsupportedSource
	}

	ext, ok := AllowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrUnsupportedType
	}

	id := filepath.ToSlash(filepath.Join(folder, uuid.NewString()))
	target := filepath.Join(l.Dir, filepath.FromSlash(id)+"."+ext)

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil { //nolint:mnd
		return nil, errors.Wrap(err, "failed to create upload directory")
	}

	if err := os.WriteFile(target, data, 0o640); err != nil { //nolint:mnd
		return nil, errors.Wrap(err, "failed to write upload")
	}

	return &Asset{
		URL:      l.URLPrefix + "/" + id + "." + ext,
		PublicID: id,
		Bytes:    len(data),
		Format:   ext,
	}, nil
}

// Destroy implements Uploader. Missing files are not an error.
func (l *Local) Destroy(_ context.Context, publicID string) error {
	matches, err := filepath.Glob(filepath.Join(l.Dir, filepath.FromSlash(publicID)) + ".*")
	if err != nil {
		return errors.Wrap(err, "invalid public id")
	}

	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "failed to remove upload")
		}
	}

	return nil
}
