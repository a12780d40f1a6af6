package models

import (
	"time"

	"gorm.io/gorm"
)

// Project statuses. A project is created as draft or active and moves
// forward only; there is no status machine beyond these values.
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// Project is a multi-year R&D project. TotalBudget is the contracted total
// in minor currency units (won); it is supplied once at creation and never
// derived from the per-period rows.
type Project struct {
	gorm.Model
	Code        string    `json:"code" gorm:"uniqueIndex;size:40"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	TotalBudget int64     `json:"totalBudget"`
	Status      string    `json:"status" gorm:"size:16;default:active"`

	AnnualBudgets []AnnualBudget  `json:"annualBudgets,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Members       []ProjectMember `json:"members,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectMember is one researcher's assignment to a project.
// ParticipationRate is a percentage in (0, 100]; the sum of rates of all
// members active in the same fiscal period may not exceed 100.
type ProjectMember struct {
	gorm.Model
	ProjectID         uint      `json:"projectId" gorm:"index;not null"`
	PersonnelID       string    `json:"personnelId" gorm:"size:40"`
	Name              string    `json:"name"`
	Role              string    `json:"role" gorm:"size:40"`
	ParticipationRate float64   `json:"participationRate"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	MonthlyAmount     int64     `json:"monthlyAmount"`
}
