package media

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/config"
)

// Cloudinary uploads to a Cloudinary account.
type Cloudinary struct {
	cld  *cloudinary.Cloudinary
	root string
}

// NewCloudinary creates an uploader from credentials.
func NewCloudinary(cfg config.Cloudinary) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cloudinary client")
	}

	cld.Config.URL.Secure = true

	return &Cloudinary{cld: cld, root: cfg.Folder}, nil
}

// Upload implements Uploader.
func (c *Cloudinary) Upload(ctx context.Context, src any, folder string) (*Asset, error) {
	res, err := c.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder: JoinFolder(c.root, folder),
	})
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary upload failed")
	}

	if res.Error.Message != "" {
		return nil, errors.New("cloudinary upload failed: " + res.Error.Message)
	}

	log.Debug().Str("publicID", res.PublicID).Str("folder", folder).Msg("uploaded to cloudinary")

	return &Asset{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Bytes:    res.Bytes,
		Format:   res.Format,
	}, nil
}

// Destroy implements Uploader.
func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return errors.Wrap(err, "cloudinary destroy failed")
	}

	if res.Error.Message != "" {
		return errors.New("cloudinary destroy failed: " + res.Error.Message)
	}

	return nil
}
