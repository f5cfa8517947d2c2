package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides shared fields for all persistent models. The numeric
// primary key is storage-only and never serialized; external references use
// the UUID exclusively.
type BaseModel struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID string `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures UUID identifiers are generated automatically.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == "" {
		m.UUID = uuid.NewString()
	}
	return nil
}
