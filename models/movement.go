package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Movement is an append-only financial entry against a claim
type Movement struct {
	ID          string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedDate time.Time `gorm:"autoCreateTime" json:"created_date"`

	ClaimID string `gorm:"type:uuid;not null;index" json:"claim_id"`
	Claim   *Claim `gorm:"foreignKey:ClaimID" json:"claim,omitempty"`

	Type     string          `gorm:"not null" json:"type"`
	Coverage string          `gorm:"not null" json:"coverage"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Date     datatypes.Date  `gorm:"not null;index" json:"date"`
	Note     *string         `gorm:"type:text" json:"note,omitempty"`
	UserName *string         `json:"user_name,omitempty"`
}

// BeforeCreate hook to generate UUID
func (m *Movement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Movement model
func (Movement) TableName() string {
	return "movements"
}
