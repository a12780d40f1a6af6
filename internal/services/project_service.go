package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viakisun/vws-rnd/internal/budget"
	"github.com/viakisun/vws-rnd/models"
)

// ProjectService orchestrates project creation: it validates the request as
// a whole, then persists the project, its fiscal periods, members and
// (optionally) evidence items inside one transaction. Either every row is
// committed or none is.
type ProjectService struct {
	db        *gorm.DB
	evidence  *EvidenceService
	tolerance int64
}

func NewProjectService(db *gorm.DB, evidence *EvidenceService, tolerance int64) *ProjectService {
	return &ProjectService{db: db, evidence: evidence, tolerance: tolerance}
}

// CategoryWeightInput is one spending-category weight from a creation
// request. Weights drive the allocator only; they are not required to sum
// to 100 across a request.
type CategoryWeightInput struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// AnnualPeriodInput is the funding breakdown of one fiscal period as
// submitted at creation time. The period budget is the sum of its three
// funding sources.
type AnnualPeriodInput struct {
	PeriodNumber      int       `json:"periodNumber"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	GovernmentFunding int64     `json:"governmentFunding"`
	CompanyCash       int64     `json:"companyCash"`
	CompanyInKind     int64     `json:"companyInKind"`
}

// Budget is the period total as seen from the funding side.
func (p AnnualPeriodInput) Budget() int64 {
	return p.GovernmentFunding + p.CompanyCash + p.CompanyInKind
}

// MemberInput is one researcher assignment from a creation request.
type MemberInput struct {
	PersonnelID       string    `json:"personnelId"`
	Name              string    `json:"name"`
	Role              string    `json:"role"`
	ParticipationRate float64   `json:"participationRate"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	MonthlyAmount     int64     `json:"monthlyAmount"`
}

// EvidenceSettings controls optional evidence auto-generation at creation.
type EvidenceSettings struct {
	AutoGenerate     bool   `json:"autoGenerate"`
	NamingConvention string `json:"namingConvention"`
}

// CreateProjectRequest is the full input of the creation orchestrator.
type CreateProjectRequest struct {
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	StartDate        time.Time             `json:"startDate"`
	EndDate          time.Time             `json:"endDate"`
	TotalBudget      int64                 `json:"totalBudget"`
	AnnualPeriods    []AnnualPeriodInput   `json:"annualPeriods"`
	BudgetCategories []CategoryWeightInput `json:"budgetCategories"`
	Members          []MemberInput         `json:"members"`
	EvidenceSettings EvidenceSettings      `json:"evidenceSettings"`
}

// CreateProjectResult lists everything a committed creation persisted.
type CreateProjectResult struct {
	ProjectID   uint   `json:"projectId"`
	Code        string `json:"code"`
	BudgetIDs   []uint `json:"budgetIds"`
	MemberIDs   []uint `json:"memberIds"`
	EvidenceIDs []uint `json:"evidenceIds"`
}

// Create runs the full creation sequence. It returns the collected
// validation issues (and persists nothing) when the request is invalid,
// either up front or in the post-write consistency check; any other error
// means the transaction was rolled back for an unexpected reason.
func (s *ProjectService) Create(ctx context.Context, req *CreateProjectRequest) (*CreateProjectResult, []string, error) {
	if issues := s.validate(req); len(issues) > 0 {
		return nil, issues, nil
	}

	result := CreateProjectResult{
		BudgetIDs:   []uint{},
		MemberIDs:   []uint{},
		EvidenceIDs: []uint{},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project := models.Project{
			Code:        generateProjectCode(),
			Name:        req.Name,
			Description: req.Description,
			StartDate:   budget.DayStart(req.StartDate),
			EndDate:     budget.DayEnd(req.EndDate),
			TotalBudget: req.TotalBudget,
			Status:      models.ProjectStatusActive,
		}
		if err := tx.Create(&project).Error; err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		result.ProjectID = project.ID
		result.Code = project.Code

		// Periods go in before evidence: evidence rows need the period id.
		for i := range req.AnnualPeriods {
			p := req.AnnualPeriods[i]
			row := models.AnnualBudget{
				ProjectID:         project.ID,
				PeriodNumber:      p.PeriodNumber,
				StartDate:         budget.DayStart(p.StartDate),
				EndDate:           budget.DayEnd(p.EndDate),
				GovernmentFunding: p.GovernmentFunding,
				CompanyCash:       p.CompanyCash,
				CompanyInKind:     p.CompanyInKind,
			}
			for _, c := range req.BudgetCategories {
				key, _ := budget.NormalizeCategory(c.Name)
				setCategoryCash(&row, key, budget.Allocate(p.Budget(), c.Percentage))
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("create annual budget %d: %w", p.PeriodNumber, err)
			}
			result.BudgetIDs = append(result.BudgetIDs, row.ID)

			if req.EvidenceSettings.AutoGenerate {
				items, err := s.evidence.GenerateForPeriod(tx, &row, req.BudgetCategories, req.EvidenceSettings.NamingConvention)
				if err != nil {
					return fmt.Errorf("generate evidence for period %d: %w", p.PeriodNumber, err)
				}
				for _, item := range items {
					result.EvidenceIDs = append(result.EvidenceIDs, item.ID)
				}
			}
		}

		for _, m := range req.Members {
			member := models.ProjectMember{
				ProjectID:         project.ID,
				PersonnelID:       m.PersonnelID,
				Name:              m.Name,
				Role:              m.Role,
				ParticipationRate: m.ParticipationRate,
				StartDate:         budget.DayStart(m.StartDate),
				EndDate:           budget.DayEnd(m.EndDate),
				MonthlyAmount:     m.MonthlyAmount,
			}
			if err := tx.Create(&member).Error; err != nil {
				return fmt.Errorf("create project member: %w", err)
			}
			result.MemberIDs = append(result.MemberIDs, member.ID)
		}

		return s.postValidate(tx, &project)
	})

	if err != nil {
		var pce postCheckError
		if errors.As(err, &pce) {
			slog.Warn("project creation rolled back by post-check", "name", req.Name, "issue", pce.msg)
			return nil, []string{pce.msg}, nil
		}
		slog.Error("project creation rolled back", "name", req.Name, "error", err)
		return nil, nil, err
	}

	slog.Info("project created", "projectId", result.ProjectID, "code", result.Code,
		"budgets", len(result.BudgetIDs), "members", len(result.MemberIDs), "evidence", len(result.EvidenceIDs))
	return &result, nil, nil
}

// validate runs every pre-write check and collects all issues so the caller
// can surface them at once instead of one per round trip.
func (s *ProjectService) validate(req *CreateProjectRequest) []string {
	var issues []string

	if strings.TrimSpace(req.Name) == "" {
		issues = append(issues, "프로젝트명은 필수 입력 항목입니다.")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		issues = append(issues, "프로젝트 시작일과 종료일은 필수 입력 항목입니다.")
	} else if !budget.DayEnd(req.EndDate).After(budget.DayStart(req.StartDate)) {
		issues = append(issues, "프로젝트 종료일은 시작일보다 늦어야 합니다.")
	}
	if req.TotalBudget <= 0 {
		issues = append(issues, "총 사업비는 0보다 커야 합니다.")
	}

	if len(req.AnnualPeriods) == 0 {
		issues = append(issues, "연차별 예산이 최소 한 건 필요합니다.")
	} else {
		seen := make(map[int]bool, len(req.AnnualPeriods))
		var periodSum int64
		for _, p := range req.AnnualPeriods {
			if p.PeriodNumber < 1 {
				issues = append(issues, fmt.Sprintf("연차 번호(%d)가 올바르지 않습니다.", p.PeriodNumber))
			} else if seen[p.PeriodNumber] {
				issues = append(issues, fmt.Sprintf("%d차년도 예산이 중복 입력되었습니다.", p.PeriodNumber))
			}
			seen[p.PeriodNumber] = true
			periodSum += p.Budget()
		}
		if req.TotalBudget > 0 && !budget.WithinTolerance(periodSum, req.TotalBudget, s.tolerance) {
			issues = append(issues, fmt.Sprintf(
				"연차별 예산 합계(%d원)가 총 사업비(%d원)와 일치하지 않습니다.", periodSum, req.TotalBudget))
		}
	}

	for _, c := range req.BudgetCategories {
		if _, ok := budget.NormalizeCategory(c.Name); !ok {
			issues = append(issues, fmt.Sprintf("알 수 없는 예산 비목입니다: %s", c.Name))
		}
		if c.Percentage < 0 || c.Percentage > 100 {
			issues = append(issues, fmt.Sprintf("예산 비목 %s의 비율(%.1f%%)이 올바르지 않습니다.", c.Name, c.Percentage))
		}
	}

	periods := make([]budget.PeriodWindow, 0, len(req.AnnualPeriods))
	for _, p := range req.AnnualPeriods {
		periods = append(periods, budget.PeriodWindow{Number: p.PeriodNumber, Start: p.StartDate, End: p.EndDate})
	}
	members := make([]budget.MemberWindow, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, budget.MemberWindow{Name: m.Name, Rate: m.ParticipationRate, Start: m.StartDate, End: m.EndDate})
	}
	return append(issues, budget.ValidateParticipation(periods, members)...)
}

// postValidate re-reads the rows just written and checks that the persisted
// category costs still add up to the project total. A divergence here is as
// fatal as a pre-check failure and rolls the whole creation back.
func (s *ProjectService) postValidate(tx *gorm.DB, project *models.Project) error {
	var persisted []models.AnnualBudget
	if err := tx.Where("project_id = ?", project.ID).Find(&persisted).Error; err != nil {
		return fmt.Errorf("post-check read: %w", err)
	}
	var costSum int64
	for i := range persisted {
		costSum += persisted[i].CostTotal()
	}
	if !budget.WithinTolerance(costSum, project.TotalBudget, s.tolerance) {
		return postCheckError{msg: fmt.Sprintf(
			"저장된 비목별 사업비 합계(%d원)가 총 사업비(%d원)와 일치하지 않습니다.", costSum, project.TotalBudget)}
	}
	return nil
}

// Get returns one project with its periods and members preloaded.
func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Preload("AnnualBudgets", func(db *gorm.DB) *gorm.DB { return db.Order("period_number asc") }).
		Preload("Members").
		First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns a page of projects, newest first, plus the total row count.
func (s *ProjectService) List(ctx context.Context, offset, limit int) ([]models.Project, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var projects []models.Project
	err := s.db.WithContext(ctx).
		Order("id desc").Offset(offset).Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	if projects == nil {
		projects = make([]models.Project, 0)
	}
	return projects, total, nil
}

// Delete removes a project and everything hanging off it. The cascade is
// explicit so it also holds on databases where the FK constraint was not
// applied.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var budgetIDs []uint
		if err := tx.Model(&models.AnnualBudget{}).Where("project_id = ?", id).Pluck("id", &budgetIDs).Error; err != nil {
			return err
		}
		if len(budgetIDs) > 0 {
			if err := tx.Unscoped().Where("annual_budget_id IN ?", budgetIDs).Delete(&models.EvidenceItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("project_id = ?", id).Delete(&models.AnnualBudget{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&project).Error
	})
}

// generateProjectCode builds a human-scannable unique code. The date prefix
// keeps codes sortable; the uuid fragment keeps them unique without a
// sequence.
func generateProjectCode() string {
	return fmt.Sprintf("RND-%s-%s", time.Now().UTC().Format("20060102"), uuid.NewString()[:8])
}

// setCategoryCash routes an allocated amount into the cash column of the
// given category. Allocation always lands on the cash side; in-kind figures
// are entered later through the annual-budget flow.
func setCategoryCash(b *models.AnnualBudget, key string, amount int64) {
	switch key {
	case budget.CategoryPersonnel:
		b.PersonnelCash = amount
	case budget.CategoryMaterial:
		b.MaterialCash = amount
	case budget.CategoryActivity:
		b.ActivityCash = amount
	case budget.CategoryStipend:
		b.StipendCash = amount
	case budget.CategoryIndirect:
		b.IndirectCash = amount
	}
}
