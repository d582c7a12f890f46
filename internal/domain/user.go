package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account on the platform. Role is fixed at registration
// (startup, investor or admin) and never changes afterwards.
type User struct {
	UserID          uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	UserName        string         `gorm:"column:user_name;not null;uniqueIndex" json:"user_name"`
	Email           string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash    string         `gorm:"column:password_hash;not null" json:"-"`
	Fullname        string         `gorm:"column:fullname;not null" json:"fullname"`
	Role            string         `gorm:"column:role;type:varchar(20);not null;default:investor" json:"role"`
	WalletAddress   *string        `gorm:"column:wallet_address" json:"wallet_address"`
	UpiID           *string        `gorm:"column:upi_id" json:"upi_id"`
	ProfileImageURL *string        `gorm:"column:profile_image_url" json:"profile_image_url"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
