// Package heroslider manages the home page carousel slides and their images.
package heroslider

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/media"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrSliderNotFound is returned when no slide matches.
	ErrSliderNotFound = errors.New("hero slider not found")
	// ErrImageRequired is returned when a new slide lacks an inline image.
	ErrImageRequired = errors.New("desktop and mobile images must be uploaded as base64 images")
)

// Input carries the editable fields. Images are data URIs when they change,
// otherwise the stored URL.
type Input struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Order        int    `json:"order"`
	IsActive     bool   `json:"isActive"`
	DesktopImage string `json:"desktopImage"`
	MobileImage  string `json:"mobileImage"`
	LinkURL      string `json:"linkUrl"`
	LinkText     string `json:"linkText"`
}

// List returns every slide by order.
func List(db *gorm.DB) ([]models.HeroSlider, error) {
	return list(db, false)
}

// ListActive returns the active slides by order.
func ListActive(db *gorm.DB) ([]models.HeroSlider, error) {
	return list(db, true)
}

func list(db *gorm.DB, activeOnly bool) ([]models.HeroSlider, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Order("sort_order ASC").Order("created_at ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var out []models.HeroSlider

	if err := q.Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list hero sliders")
	}

	return out, nil
}

// Get loads a slide by id.
func Get(db *gorm.DB, id string) (*models.HeroSlider, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var h models.HeroSlider

	if err := db.Where("id = ?", id).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSliderNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load hero slider")
	}

	return &h, nil
}

func upload(ctx context.Context, up media.Uploader, src string) (string, error) {
	asset, err := up.Upload(ctx, src, media.FolderHeroSliders)
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to upload hero slider image")
	}

	return asset.URL, nil
}

// Create uploads both images and stores the slide.
func Create(ctx context.Context, db *gorm.DB, up media.Uploader, in Input) (*models.HeroSlider, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !media.IsImageDataURI(in.DesktopImage) || !media.IsImageDataURI(in.MobileImage) {
		return nil, ErrImageRequired
	}

	desktop, err := upload(ctx, up, in.DesktopImage)
	if err != nil {
		return nil, err
	}

	mobile, err := upload(ctx, up, in.MobileImage)
	if err != nil {
		return nil, err
	}

	h := &models.HeroSlider{
		Title:        in.Title,
		Subtitle:     in.Subtitle,
		Order:        in.Order,
		IsActive:     in.IsActive,
		DesktopImage: desktop,
		MobileImage:  mobile,
		LinkURL:      in.LinkURL,
		LinkText:     in.LinkText,
	}

	if err := db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create hero slider")
	}

	return h, nil
}

// Update stores in on slide id. Only images sent as data URIs are uploaded again.
func Update(ctx context.Context, db *gorm.DB, up media.Uploader, id string, in Input) (*models.HeroSlider, error) {
	h, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if media.IsImageDataURI(in.DesktopImage) {
		if h.DesktopImage, err = upload(ctx, up, in.DesktopImage); err != nil {
			return nil, err
		}
	}

	if media.IsImageDataURI(in.MobileImage) {
		if h.MobileImage, err = upload(ctx, up, in.MobileImage); err != nil {
			return nil, err
		}
	}

	h.Title = in.Title
	h.Subtitle = in.Subtitle
	h.Order = in.Order
	h.IsActive = in.IsActive
	h.LinkURL = in.LinkURL
	h.LinkText = in.LinkText

	if err := db.WithContext(ctx).Save(h).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update hero slider")
	}

	return h, nil
}

// Delete removes a slide. Cloudinary images are destroyed best effort.
func Delete(ctx context.Context, db *gorm.DB, up media.Uploader, id string) error {
	h, err := Get(db, id)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(h).Error; err != nil {
		return pkgerrors.Wrap(err, "failed to delete hero slider")
	}

	if up != nil {
		for _, img := range []string{h.DesktopImage, h.MobileImage} {
			if pid := media.PublicIDFromURL(img); pid != "" {
				_ = up.Destroy(ctx, pid)
			}
		}
	}

	return nil
}

// Reorder sets order to the position of each id in ids.
func Reorder(db *gorm.DB, ids []string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			err := tx.Model(&models.HeroSlider{}).Where("id = ?", id).Update("sort_order", i).Error
			if err != nil {
				return pkgerrors.Wrap(err, "failed to reorder hero sliders")
			}
		}

		return nil
	})
}
