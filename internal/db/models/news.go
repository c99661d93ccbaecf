package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultNewsBackground is the card background of news without an image.
const DefaultNewsBackground = "bg-gradient-to-br from-primary/20 to-primary/5"

// News is an article on the public news page.
type News struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Title         string     `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Slug          string     `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description   string     `gorm:"type:text" json:"description"`
	Content       string     `gorm:"type:text" json:"content"`
	Category      string     `gorm:"size:100" json:"category"`
	FeaturedImage string     `gorm:"size:1024" json:"featured_image"`
	BgColor       string     `gorm:"size:255" json:"bg_color"`
	IsPublished   bool       `gorm:"index" json:"is_published"`
	PublishedAt   *time.Time `gorm:"index" json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// BeforeCreate assigns an ID and the default background.
func (n *News) BeforeCreate(_ *gorm.DB) error {
	ensureID(&n.ID)

	if n.BgColor == "" {
		n.BgColor = DefaultNewsBackground
	}

	return nil
}

// HeroSlider is one slide of the home page carousel.
type HeroSlider struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Title        string    `gorm:"size:255" json:"title"`
	Subtitle     string    `gorm:"size:255" json:"subtitle"`
	Order        int       `gorm:"column:sort_order;index" json:"order"`
	IsActive     bool      `json:"isActive"`
	DesktopImage string    `gorm:"size:1024;not null" json:"desktopImage"`
	MobileImage  string    `gorm:"size:1024;not null" json:"mobileImage"`
	LinkURL      string    `gorm:"size:1024" json:"linkUrl"`
	LinkText     string    `gorm:"size:255" json:"linkText"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an ID.
func (h *HeroSlider) BeforeCreate(_ *gorm.DB) error {
	ensureID(&h.ID)

	return nil
}
