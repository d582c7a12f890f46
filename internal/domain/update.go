package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Update visibility scopes.
const (
	VisibilityAll   = "all"
	VisibilityMajor = "major"
)

// Update is a message from a startup to its investors. Visibility is
// enforced in the read path: "major" updates are only returned to
// investors whose completed contributions clear the major-investor
// threshold.
type Update struct {
	UpdateID   uuid.UUID `gorm:"column:update_id;type:uuid;primaryKey" json:"update_id"`
	StartupID  uuid.UUID `gorm:"column:startup_id;type:uuid;not null;index" json:"startup_id"`
	Title      string    `gorm:"column:title;not null" json:"title"`
	Content    string    `gorm:"column:content;type:text;not null" json:"content"`
	Visibility string    `gorm:"column:visibility;type:varchar(10);not null;default:'all'" json:"visibility"`
	CreatedAt  time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Update) TableName() string {
	return "Updates"
}

func (u *Update) BeforeCreate(tx *gorm.DB) error {
	if u.UpdateID == uuid.Nil {
		u.UpdateID = uuid.New()
	}
	return nil
}
