package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Policy is an insurance contract that claims can be raised against
type Policy struct {
	ID           string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedDate  time.Time `gorm:"autoCreateTime;index" json:"created_date"`
	ModifiedDate time.Time `gorm:"autoUpdateTime" json:"modified_date"`

	PolicyNumber string         `gorm:"not null;uniqueIndex" json:"policy_number"`
	PeriodStart  datatypes.Date `gorm:"not null" json:"period_start"`
	PeriodEnd    datatypes.Date `gorm:"not null" json:"period_end"`
	NamedInsured string         `gorm:"not null" json:"named_insured"`
	CoverageType string         `gorm:"not null;default:AllRisksProperty" json:"coverage_type"`

	SumInsured decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"sum_insured"`
	Deductible *decimal.Decimal `gorm:"type:decimal(18,2)" json:"deductible,omitempty"`
	BinderRef  *string          `gorm:"size:100" json:"binder_ref,omitempty"`

	Exclusions []Exclusion `gorm:"many2many:policy_exclusions;" json:"exclusions,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *Policy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Policy model
func (Policy) TableName() string {
	return "policies"
}

// LifecycleState returns where now falls relative to the policy period
func (p *Policy) LifecycleState(now time.Time) string {
	return PolicyLifecycleState(now, time.Time(p.PeriodStart), time.Time(p.PeriodEnd))
}

// GetCoverageTypeLabel returns the display name of the coverage type
func (p *Policy) GetCoverageTypeLabel() string {
	return GetPolicyCoverageTypeDisplayName(p.CoverageType)
}

// ExclusionIDs returns the ids of the loaded exclusions
func (p *Policy) ExclusionIDs() []string {
	ids := make([]string, 0, len(p.Exclusions))
	for _, e := range p.Exclusions {
		ids = append(ids, e.ID)
	}
	return ids
}
