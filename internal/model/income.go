package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Income is a single received amount recorded against an entity's revenue
// category.
type Income struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	EntityID      uuid.UUID       `json:"entity_id" gorm:"type:char(36);not null;index"`
	RevenueID     uuid.UUID       `json:"revenue_id" gorm:"type:char(36);not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Date          time.Time       `json:"date" gorm:"not null;index"`
	ReceiptNumber string          `json:"receipt_number" gorm:"size:100"`
	Notes         string          `json:"notes" gorm:"type:text"`
	CreatedBy     uuid.UUID       `json:"created_by" gorm:"type:char(36);not null;index"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Entity  Entity  `json:"-" gorm:"foreignKey:EntityID"`
	Revenue Revenue `json:"-" gorm:"foreignKey:RevenueID"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Income) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
