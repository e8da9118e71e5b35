package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Priority represents the urgency level of a remark.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Remark represents a user-owned note with optional scheduling,
// financial, and priority metadata. The owner never changes after creation.
type Remark struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID       `json:"userId" gorm:"type:char(36);not null;index"`
	Name          string          `json:"name" gorm:"size:255"`
	MobileNumber  string          `json:"mobileNumber" gorm:"size:32"`
	FromAddress   string          `json:"fromAddress" gorm:"size:512"`
	ToAddress     string          `json:"toAddress" gorm:"size:512"`
	Date          time.Time       `json:"date" gorm:"not null;index"`
	Content       string          `json:"content" gorm:"type:text"`
	TotalAmount   decimal.Decimal `json:"totalAmount" gorm:"type:decimal(20,2);not null;default:0"`
	AdvanceAmount decimal.Decimal `json:"advanceAmount" gorm:"type:decimal(20,2);not null;default:0"`
	PendingAmount decimal.Decimal `json:"pendingAmount" gorm:"type:decimal(20,2);not null;default:0"`
	SpecialNote   string          `json:"specialNote" gorm:"type:text"`
	Done          bool            `json:"done" gorm:"default:false;index"`
	Priority      Priority        `json:"priority" gorm:"type:varchar(10);not null;default:'medium';index"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets the UUID, falls back to the default priority and
// derives the pending amount from the two financial fields.
func (r *Remark) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	r.PendingAmount = r.TotalAmount.Sub(r.AdvanceAmount)
	return nil
}

// FinancialSummary aggregates the financial fields of all remarks owned by one user.
type FinancialSummary struct {
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	TotalAdvance     decimal.Decimal `json:"totalAdvance"`
	TotalPending     decimal.Decimal `json:"totalPending"`
	CompletedRemarks int64           `json:"completedRemarks"`
	PendingRemarks   int64           `json:"pendingRemarks"`
}
