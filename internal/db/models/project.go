package models

import (
	"time"

	"gorm.io/gorm"
)

// ProjectStatus classifies a project.
type ProjectStatus string

// Project statuses.
const (
	ProjectResidential ProjectStatus = "residential"
	ProjectCommercial  ProjectStatus = "commercial"
)

// GeneralInquiriesSlug is the catch-all project for inquiries without a project.
const GeneralInquiriesSlug = "general_inquiries"

// Project is a property development.
type Project struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	Name          string        `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Slug          string        `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Location      string        `gorm:"size:255" json:"location" validate:"required"`
	Description   string        `gorm:"type:text" json:"description"`
	Status        ProjectStatus `gorm:"size:20;not null;default:'residential'" json:"status" validate:"omitempty,oneof=residential commercial"`
	Units         int           `json:"units" validate:"gte=1"`
	StartingPrice string        `gorm:"size:100" json:"startingPrice" validate:"required"`
	MaxPrice      string        `gorm:"size:100" json:"maxPrice"`
	Completion    int           `json:"completion" validate:"gte=0,lte=100"`
	MainImage     string        `gorm:"size:1024;not null" json:"mainImage" validate:"required"`
	GalleryImages []string      `gorm:"serializer:json;type:text" json:"galleryImages"`
	BrochureURL   string        `gorm:"size:1024" json:"brochureUrl"`
	YoutubeLink   string        `gorm:"size:1024" json:"youtubeLink"`
	Advantages    []string      `gorm:"serializer:json;type:text" json:"advantages"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// BeforeCreate assigns an ID.
func (p *Project) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)

	if p.Status == "" {
		p.Status = ProjectResidential
	}

	return nil
}

// UnitStatus is the sales state of a unit.
type UnitStatus string

// Unit statuses.
const (
	UnitActive UnitStatus = "active"
	UnitDraft  UnitStatus = "draft"
	UnitSold   UnitStatus = "sold"
)

// Unit is a sellable unit type inside a project.
type Unit struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	ProjectID     string     `gorm:"uniqueIndex:idx_unit_project_slug;size:36;not null" json:"project_id" validate:"required"`
	Name          string     `gorm:"size:255;not null" json:"name" validate:"required"`
	Slug          string     `gorm:"uniqueIndex:idx_unit_project_slug;size:255;not null" json:"slug"`
	Description   string     `gorm:"type:text" json:"description"`
	Dimensions    string     `gorm:"size:100" json:"dimensions"`
	LandArea      string     `gorm:"size:100" json:"land_area"`
	BuildingArea  string     `gorm:"size:100" json:"building_area"`
	SalePrice     string     `gorm:"size:100" json:"sale_price"`
	Bedrooms      int        `json:"bedrooms" validate:"gte=0"`
	Bathrooms     int        `json:"bathrooms" validate:"gte=0"`
	Carports      int        `json:"carports" validate:"gte=0"`
	Floors        int        `json:"floors" validate:"gte=0"`
	Certification string     `gorm:"size:100" json:"certification"`
	Facilities    []string   `gorm:"serializer:json;type:text" json:"facilities"`
	MainImage     string     `gorm:"size:1024" json:"main_image"`
	GalleryImages []string   `gorm:"serializer:json;type:text" json:"gallery_images"`
	Status        UnitStatus `gorm:"size:20;not null;default:'active'" json:"status" validate:"omitempty,oneof=active draft sold"`
	Promo         string     `gorm:"type:text" json:"promo"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// BeforeCreate assigns an ID.
func (u *Unit) BeforeCreate(_ *gorm.DB) error {
	ensureID(&u.ID)

	if u.Status == "" {
		u.Status = UnitActive
	}

	return nil
}
