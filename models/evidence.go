package models

import (
	"time"

	"gorm.io/gorm"
)

// Evidence item statuses.
const (
	EvidenceStatusPlanned   = "planned"
	EvidenceStatusCollected = "collected"
	EvidenceStatusApproved  = "approved"
)

// BudgetCategory is a spending category (인건비, 재료비, ...). Rows are
// created lazily: evidence generation looks a category up by name and
// inserts it if missing.
type BudgetCategory struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex;size:60;not null"`
}

// EvidenceItem is a planned proof-of-spending obligation for one category of
// one fiscal period. BudgetAmount is the allocated share of the period
// budget; SpentAmount accumulates as evidence is collected.
type EvidenceItem struct {
	gorm.Model
	AnnualBudgetID uint           `json:"annualBudgetId" gorm:"index;not null"`
	CategoryID     uint           `json:"categoryId" gorm:"not null"`
	Category       BudgetCategory `json:"category" gorm:"foreignKey:CategoryID"`
	Name           string         `json:"name"`
	BudgetAmount   int64          `json:"budgetAmount"`
	SpentAmount    int64          `json:"spentAmount"`
	Status         string         `json:"status" gorm:"size:16;default:planned"`
	DueDate        time.Time      `json:"dueDate"`
}
