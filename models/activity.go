package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity is a task on a claim assigned to a handler with a due date
type Activity struct {
	ID           string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedDate  time.Time `gorm:"autoCreateTime;index" json:"created_date"`
	CreatedBy    string    `json:"created_by"`
	ModifiedDate time.Time `gorm:"autoUpdateTime" json:"modified_date"`
	ModifiedBy   string    `json:"modified_by"`

	ClaimID string `gorm:"type:uuid;not null;index" json:"claim_id"`
	Claim   *Claim `gorm:"foreignKey:ClaimID" json:"claim,omitempty"`

	Title       string         `gorm:"not null" json:"title"`
	Assignee    string         `gorm:"not null;index" json:"assignee"`
	Role        string         `gorm:"not null" json:"role"`
	DueDate     datatypes.Date `gorm:"not null;index" json:"due_date"`
	Status      string         `gorm:"not null;default:Pending;index" json:"status"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`

	RelatedDocumentID *string        `gorm:"type:uuid" json:"related_document_id,omitempty"`
	RelatedDocument   *ClaimDocument `gorm:"foreignKey:RelatedDocumentID" json:"related_document,omitempty"`

	// Last SLA reminder sent to the assignee
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Activity model
func (Activity) TableName() string {
	return "activities"
}

// IsOpen checks if work on the activity is still outstanding
func (a *Activity) IsOpen() bool {
	return IsOpenActivityStatus(a.Status)
}

// SLA returns the SLA state and the days left until the due date
func (a *Activity) SLA(now time.Time) (string, int) {
	due := time.Time(a.DueDate)
	return ActivitySLAState(now, due), DaysRemaining(now, due)
}
