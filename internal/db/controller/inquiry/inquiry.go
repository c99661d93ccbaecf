// Package inquiry stores contact form submissions and their follow up.
package inquiry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/pagination"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

// SalesConsultation is the project id sent by forms not tied to a project.
const SalesConsultation = "sales-consultation"

// DefaultLimit is the dashboard page size.
const DefaultLimit = 10

// StatusAll disables the status filter.
const StatusAll = "all"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrInquiryNotFound is returned when no inquiry matches.
	ErrInquiryNotFound = errors.New("contact inquiry not found")
	// ErrNoProjects is returned when an inquiry cannot be attached to any project.
	ErrNoProjects = errors.New("unable to save inquiry: no valid project found")
	// ErrInvalidStatus is returned for an unknown status.
	ErrInvalidStatus = errors.New("invalid inquiry status")
)

// Now is the clock used for ids.
var Now = time.Now //nolint:gochecknoglobals

// Input is a submitted contact form.
type Input struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	Message     string `json:"message"`
	InquiryType string `json:"inquiryType"`
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	UnitSlug    string `json:"unitSlug"`
	Source      string `json:"source"`
}

// NewID returns an id of the form inquiry_<unix-ms>_<random>.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]

	return fmt.Sprintf("inquiry_%d_%s", Now().UnixMilli(), suffix)
}

func findProject(db *gorm.DB, where string, args ...any) (*models.Project, error) {
	var p models.Project

	err := db.Where(where, args...).Order("created_at ASC").Limit(1).Find(&p).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to look up project")
	}

	if p.ID == "" {
		return nil, nil //nolint:nilnil
	}

	return &p, nil
}

func anyProject(db *gorm.DB) (*models.Project, error) {
	return findProject(db, "1 = 1")
}

func generalProject(db *gorm.DB) (*models.Project, error) {
	p, err := findProject(db, "id = ? OR slug = ?", models.GeneralInquiriesSlug, models.GeneralInquiriesSlug)
	if err != nil || p != nil {
		return p, err
	}

	p, err = anyProject(db)
	if err != nil || p != nil {
		return p, err
	}

	p = &models.Project{
		ID:            models.GeneralInquiriesSlug,
		Name:          "General Inquiries",
		Slug:          models.GeneralInquiriesSlug,
		Location:      "All Locations",
		Description:   "Special project for general inquiries",
		Status:        models.ProjectResidential,
		StartingPrice: "0",
		MaxPrice:      "0",
		MainImage:     "https://res.cloudinary.com/dx7xttb8a/image/upload/v1754146325/logo_xhylzg.jpg",
		GalleryImages: []string{},
		Advantages:    []string{},
	}

	if err := db.Create(p).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create general inquiries project")
	}

	log.Info().Msg("created general inquiries project")

	return p, nil
}

// resolveProject picks the project an inquiry is attached to.
func resolveProject(db *gorm.DB, id string) (*models.Project, error) {
	var (
		p   *models.Project
		err error
	)

	if id == SalesConsultation {
		p, err = generalProject(db)
	} else if id != "" {
		p, err = findProject(db, "id = ?", id)
	}

	if err != nil {
		return nil, err
	}

	if p == nil {
		log.Debug().Str("project", id).Msg("unknown inquiry project, using fallback")

		if p, err = anyProject(db); err != nil {
			return nil, err
		}
	}

	if p == nil {
		return nil, ErrNoProjects
	}

	return p, nil
}

// Submit validates in and stores it as a new inquiry.
func Submit(db *gorm.DB, in Input) (*models.ContactInquiry, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := validation.Struct(&in); err != nil {
		return nil, err //nolint:wrapcheck
	}

	p, err := resolveProject(db, in.ProjectID)
	if err != nil {
		return nil, err
	}

	name := in.ProjectName
	if name == "" {
		name = p.Name
	}

	source := in.Source
	if source == "" {
		source = "website"
	}

	q := &models.ContactInquiry{
		ID:          NewID(),
		ProjectID:   p.ID,
		ProjectName: name,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Message:     in.Message,
		InquiryType: in.InquiryType,
		UnitSlug:    in.UnitSlug,
		Status:      models.InquiryNew,
		Source:      source,
	}

	if err := db.Create(q).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to submit inquiry")
	}

	return q, nil
}

// List returns a page of inquiries, newest first. Empty or "all" status lists everything.
func List(db *gorm.DB, status string, page, limit int) (pagination.Page[models.ContactInquiry], error) {
	if db == nil {
		return pagination.Page[models.ContactInquiry]{}, ErrDBNil
	}

	page, limit = pagination.Normalize(page, limit, DefaultLimit)

	q := db.Model(&models.ContactInquiry{}).Order("created_at DESC")
	if status != "" && status != StatusAll {
		q = q.Where("status = ?", status)
	}

	p, err := pagination.Find[models.ContactInquiry](q, page, limit)

	return p, pkgerrors.Wrap(err, "failed to list inquiries")
}

// Get loads an inquiry by id.
func Get(db *gorm.DB, id string) (*models.ContactInquiry, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var q models.ContactInquiry

	if err := db.Where("id = ?", id).First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInquiryNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load inquiry")
	}

	return &q, nil
}

// UpdateStatus moves an inquiry to status.
func UpdateStatus(db *gorm.DB, id string, status models.InquiryStatus) error {
	if db == nil {
		return ErrDBNil
	}

	if !status.Valid() {
		return ErrInvalidStatus
	}

	res := db.Model(&models.ContactInquiry{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "failed to update inquiry status")
	}

	if res.RowsAffected == 0 {
		return ErrInquiryNotFound
	}

	return nil
}

// Delete removes an inquiry.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	res := db.Where("id = ?", id).Delete(&models.ContactInquiry{})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "failed to delete inquiry")
	}

	if res.RowsAffected == 0 {
		return ErrInquiryNotFound
	}

	return nil
}

// CountByStatus returns the number of inquiries per status plus "all".
func CountByStatus(db *gorm.DB) (map[string]int64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []struct {
		Status string
		N      int64
	}

	err := db.Model(&models.ContactInquiry{}).Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to count inquiries")
	}

	out := map[string]int64{StatusAll: 0}
	for _, s := range []models.InquiryStatus{models.InquiryNew, models.InquiryContacted, models.InquiryClosed} {
		out[string(s)] = 0
	}

	for _, r := range rows {
		out[r.Status] = r.N
		out[StatusAll] += r.N
	}

	return out, nil
}
