package models

import (
	"time"

	"gorm.io/gorm"
)

// SystemBoardOwner owns boards visible to every user.
const SystemBoardOwner = "system"

// DefaultColumnColor is used for columns created without a color.
const DefaultColumnColor = "#6b7280"

// KanbanBoard groups columns of tasks.
type KanbanBoard struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title" validate:"required"`
	Description string         `gorm:"type:text" json:"description"`
	UserID      string         `gorm:"index;size:36;not null" json:"userId"`
	Columns     []KanbanColumn `gorm:"foreignKey:BoardID" json:"columns,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// BeforeCreate assigns an ID.
func (b *KanbanBoard) BeforeCreate(_ *gorm.DB) error {
	ensureID(&b.ID)

	return nil
}

// KanbanColumn is a status lane on a board.
type KanbanColumn struct {
	ID        string       `gorm:"primaryKey;size:36" json:"id"`
	BoardID   string       `gorm:"index;size:36;not null" json:"boardId"`
	Title     string       `gorm:"size:255;not null" json:"title" validate:"required"`
	Order     int          `gorm:"column:sort_order" json:"order"`
	Color     string       `gorm:"size:20;not null;default:'#6b7280'" json:"color"`
	Tasks     []KanbanTask `gorm:"foreignKey:ColumnID" json:"tasks,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// BeforeCreate assigns an ID.
func (c *KanbanColumn) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)

	if c.Color == "" {
		c.Color = DefaultColumnColor
	}

	return nil
}

// TaskPriority orders tasks by urgency.
type TaskPriority string

// Task priorities.
const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// KanbanTask is a card in a column.
type KanbanTask struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	BoardID     string       `gorm:"index;size:36;not null" json:"boardId"`
	ColumnID    string       `gorm:"index;size:36;not null" json:"columnId"`
	Title       string       `gorm:"size:255;not null" json:"title" validate:"required"`
	Description string       `gorm:"type:text" json:"description"`
	Order       int          `gorm:"column:sort_order" json:"order"`
	Priority    TaskPriority `gorm:"size:10;not null;default:'medium'" json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time   `json:"dueDate"`
	AssignedTo  string       `gorm:"size:255" json:"assignedTo"`
	Tags        []string     `gorm:"serializer:json;type:text" json:"tags"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// BeforeCreate assigns an ID.
func (t *KanbanTask) BeforeCreate(_ *gorm.DB) error {
	ensureID(&t.ID)

	if t.Priority == "" {
		t.Priority = PriorityMedium
	}

	return nil
}
