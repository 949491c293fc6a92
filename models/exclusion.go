package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Exclusion is a catalog entry that policies can reference
type Exclusion struct {
	ID           string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedDate  time.Time `gorm:"autoCreateTime" json:"created_date"`
	ModifiedDate time.Time `gorm:"autoUpdateTime" json:"modified_date"`

	Title       string  `gorm:"not null;index" json:"title"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
}

// BeforeCreate hook to generate UUID
func (e *Exclusion) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Exclusion model
func (Exclusion) TableName() string {
	return "exclusions"
}
