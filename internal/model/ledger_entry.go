package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerEntry is a dated debit/credit line in an entity's simple ledger.
type LedgerEntry struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	EntityID    uuid.UUID       `json:"entity_id" gorm:"type:char(36);not null;index"`
	Date        time.Time       `json:"date" gorm:"not null;index"`
	Description string          `json:"description" gorm:"size:500;not null"`
	Debit       decimal.Decimal `json:"debit" gorm:"type:decimal(20,2);not null;default:0"`
	Credit      decimal.Decimal `json:"credit" gorm:"type:decimal(20,2);not null;default:0"`
	Reference   string          `json:"reference" gorm:"size:100"`
	CreatedBy   uuid.UUID       `json:"created_by" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Entity Entity `json:"-" gorm:"foreignKey:EntityID"`
}

// BeforeCreate sets UUID before creating the record.
func (l *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
