// Package models contains database model definitions.
package models

import (
	"github.com/google/uuid"
)

// All returns every model in migration order.
func All() []any {
	return []any{
		&Setting{},
		&User{},
		&PasswordReset{},
		&Project{},
		&Unit{},
		&News{},
		&HeroSlider{},
		&WebsiteMenu{},
		&ContactInquiry{},
		&LandingPage{},
		&LandingPageComponent{},
		&LandingPageAnalytics{},
		&KanbanBoard{},
		&KanbanColumn{},
		&KanbanTask{},
		&StorageEntry{},
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
