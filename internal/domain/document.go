package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is file metadata for something a startup uploaded (pitch
// deck, incorporation papers). The file itself lives in object storage
// under StoragePath; rows are create/list only.
type Document struct {
	DocumentID  uuid.UUID `gorm:"column:document_id;type:uuid;primaryKey" json:"document_id"`
	StartupID   uuid.UUID `gorm:"column:startup_id;type:uuid;not null;index" json:"startup_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	FileType    string    `gorm:"column:file_type;not null" json:"file_type"`
	StoragePath string    `gorm:"column:storage_path;not null" json:"storage_path"`
	SizeBytes   int64     `gorm:"column:size_bytes;not null;default:0" json:"size_bytes"`
	CreatedAt   time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Document) TableName() string {
	return "Documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.DocumentID == uuid.Nil {
		d.DocumentID = uuid.New()
	}
	return nil
}
