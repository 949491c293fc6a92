package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Claim is a loss notification raised by an insured, optionally linked to a policy
type Claim struct {
	ID           string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedDate  time.Time `gorm:"autoCreateTime;index" json:"created_date"`
	CreatedBy    string    `json:"created_by"`
	ModifiedDate time.Time `gorm:"autoUpdateTime" json:"modified_date"`
	ModifiedBy   string    `json:"modified_by"`

	ClaimNumber string `gorm:"not null;uniqueIndex" json:"claim_number"`
	Title       string `gorm:"not null" json:"title"`
	InsuredName string `json:"insured_name"`

	// Policy relationship (optional, a claim may be logged before the policy is resolved)
	PolicyID *string `gorm:"type:uuid;index" json:"policy_id,omitempty"`
	Policy   *Policy `gorm:"foreignKey:PolicyID" json:"policy,omitempty"`

	// Status and lifecycle
	Status     string     `gorm:"not null;default:Open;index" json:"status"`
	DateClosed *time.Time `json:"date_closed,omitempty"`

	// Classification
	Currency    string  `gorm:"not null;default:BRL" json:"currency"`
	ProductLOB  *string `gorm:"column:product_lob" json:"product_lob,omitempty"`
	Coverage    *string `json:"coverage,omitempty"`
	CauseOfLoss *string `gorm:"index" json:"cause_of_loss,omitempty"`

	// Loss dates
	DateOfLoss   *datatypes.Date `json:"date_of_loss,omitempty"`
	ReportedDate datatypes.Date  `gorm:"not null" json:"reported_date"`

	Description string `gorm:"type:text" json:"description"`

	// Financial rollup maintained from movements
	ReserveAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"reserve_amount"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"paid_amount"`
	OutstandingAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"outstanding_amount"`
	RecoveredAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"recovered_amount"`
	IncurredAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"incurred_amount"`
}

// BeforeCreate hook to generate UUID
func (c *Claim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Claim model
func (Claim) TableName() string {
	return "claims"
}

// IsClosed checks if the claim reached a terminal status
func (c *Claim) IsClosed() bool {
	return IsClosedClaimStatus(c.Status)
}

// IsApproved checks if the claim counts towards the approval rate
func (c *Claim) IsApproved() bool {
	return c.Status == ClaimStatusApproved || c.Status == ClaimStatusPaid
}

// Financials returns the rollup fields as a single value
func (c *Claim) Financials() ClaimFinancials {
	return ClaimFinancials{
		Reserve:     c.ReserveAmount,
		Paid:        c.PaidAmount,
		Outstanding: c.OutstandingAmount,
		Recovered:   c.RecoveredAmount,
		Incurred:    c.IncurredAmount,
	}
}

// SetFinancials copies a rollup onto the claim
func (c *Claim) SetFinancials(f ClaimFinancials) {
	c.ReserveAmount = f.Reserve
	c.PaidAmount = f.Paid
	c.OutstandingAmount = f.Outstanding
	c.RecoveredAmount = f.Recovered
	c.IncurredAmount = f.Incurred
}
