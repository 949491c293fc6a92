package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimDocument is a file attached to a claim
type ClaimDocument struct {
	ID          string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedDate time.Time `gorm:"autoCreateTime" json:"created_date"`

	ClaimID string `gorm:"type:uuid;not null;index" json:"claim_id"`
	Claim   *Claim `gorm:"foreignKey:ClaimID" json:"-"`

	// File metadata
	FileName   string `gorm:"not null" json:"file_name"`
	StorageKey string `gorm:"not null" json:"-"` // Not exposed in JSON
	FileSize   int64  `gorm:"not null" json:"file_size"`
	MimeType   string `json:"mime_type,omitempty"`

	DocumentType string `gorm:"not null" json:"document_type"`
	UploadedBy   string `json:"uploaded_by,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *ClaimDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ClaimDocument model
func (ClaimDocument) TableName() string {
	return "claim_documents"
}
