package models

import (
	"time"

	"gorm.io/gorm"
)

// WebsiteMenu is a navigation entry. ParentID forms a tree.
type WebsiteMenu struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title" validate:"required"`
	URL         string         `gorm:"size:1024;not null" json:"url" validate:"required"`
	Order       int            `gorm:"column:sort_order" json:"order"`
	IsActive    bool           `json:"isActive"`
	ParentID    *string        `gorm:"index;size:36" json:"parentId"`
	IsMegaMenu  bool           `json:"isMegaMenu"`
	IconClass   string         `gorm:"size:100" json:"iconClass"`
	Description string         `gorm:"type:text" json:"description"`
	Children    []*WebsiteMenu `gorm:"-" json:"children,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// BeforeCreate assigns an ID.
func (m *WebsiteMenu) BeforeCreate(_ *gorm.DB) error {
	ensureID(&m.ID)

	return nil
}

// InquiryStatus tracks follow up of a contact inquiry.
type InquiryStatus string

// Inquiry statuses.
const (
	InquiryNew       InquiryStatus = "new"
	InquiryContacted InquiryStatus = "contacted"
	InquiryClosed    InquiryStatus = "closed"
)

// Valid reports whether s is a known status.
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryNew, InquiryContacted, InquiryClosed:
		return true
	}

	return false
}

// ContactInquiry is a lead submitted through a site or landing page form.
type ContactInquiry struct {
	ID          string        `gorm:"primaryKey;size:64" json:"id"`
	ProjectID   string        `gorm:"index;size:36" json:"project_id"`
	ProjectName string        `gorm:"size:255" json:"project_name"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Email       string        `gorm:"size:255;not null" json:"email"`
	Phone       string        `gorm:"size:50;not null" json:"phone"`
	Message     string        `gorm:"type:text" json:"message"`
	InquiryType string        `gorm:"size:100" json:"inquiry_type"`
	UnitSlug    string        `gorm:"size:255" json:"unit_slug"`
	Status      InquiryStatus `gorm:"size:20;index;not null;default:'new'" json:"status"`
	Source      string        `gorm:"size:100;not null;default:'website'" json:"source"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
