package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viakisun/vws-rnd/internal/services"
)

// ProjectHandler exposes project creation and the thin CRUD around it.
type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type categoryWeightBody struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

type annualPeriodBody struct {
	PeriodNumber      int    `json:"periodNumber"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	GovernmentFunding int64  `json:"governmentFunding"`
	CompanyCash       int64  `json:"companyCash"`
	CompanyInKind     int64  `json:"companyInKind"`
}

type memberBody struct {
	PersonnelID       string  `json:"personnelId"`
	Name              string  `json:"name"`
	Role              string  `json:"role"`
	ParticipationRate float64 `json:"participationRate"`
	StartDate         string  `json:"startDate"`
	EndDate           string  `json:"endDate"`
	MonthlyAmount     int64   `json:"monthlyAmount"`
}

type createProjectBody struct {
	Name             string               `json:"name"`
	Description      string               `json:"description"`
	StartDate        string               `json:"startDate"`
	EndDate          string               `json:"endDate"`
	TotalBudget      int64                `json:"totalBudget"`
	AnnualPeriods    []annualPeriodBody   `json:"annualPeriods"`
	BudgetCategories []categoryWeightBody `json:"budgetCategories"`
	Members          []memberBody         `json:"members"`
	EvidenceSettings struct {
		AutoGenerate     bool   `json:"autoGenerate"`
		NamingConvention string `json:"namingConvention"`
	} `json:"evidenceSettings"`
}

// parseDate accepts the plain calendar form used by the UI and falls back
// to RFC 3339. A zero time is returned for an empty string so that the
// service layer can report the missing field together with everything else.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("날짜 형식이 올바르지 않습니다: %s", s)
	}
	return t, nil
}

// CreateProject handles POST /api/projects.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var body createProjectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "요청 본문이 올바르지 않습니다: " + err.Error()})
		return
	}

	req, err := body.toRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, issues, err := h.projects.Create(c.Request.Context(), req)
	if err != nil {
		slog.Error("프로젝트 생성 실패", "name", body.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "프로젝트 생성 중 오류가 발생했습니다."})
		return
	}
	if len(issues) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": issues})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"projectId":   result.ProjectID,
			"code":        result.Code,
			"budgetIds":   result.BudgetIDs,
			"memberIds":   result.MemberIDs,
			"evidenceIds": result.EvidenceIDs,
			"validation":  gin.H{"valid": true},
		},
	})
}

func (b *createProjectBody) toRequest() (*services.CreateProjectRequest, error) {
	req := services.CreateProjectRequest{
		Name:        b.Name,
		Description: b.Description,
		TotalBudget: b.TotalBudget,
	}
	var err error
	if req.StartDate, err = parseDate(b.StartDate); err != nil {
		return nil, err
	}
	if req.EndDate, err = parseDate(b.EndDate); err != nil {
		return nil, err
	}

	for _, p := range b.AnnualPeriods {
		in := services.AnnualPeriodInput{
			PeriodNumber:      p.PeriodNumber,
			GovernmentFunding: p.GovernmentFunding,
			CompanyCash:       p.CompanyCash,
			CompanyInKind:     p.CompanyInKind,
		}
		if in.StartDate, err = parseDate(p.StartDate); err != nil {
			return nil, err
		}
		if in.EndDate, err = parseDate(p.EndDate); err != nil {
			return nil, err
		}
		req.AnnualPeriods = append(req.AnnualPeriods, in)
	}

	for _, cw := range b.BudgetCategories {
		req.BudgetCategories = append(req.BudgetCategories, services.CategoryWeightInput{
			Name:       cw.Name,
			Percentage: cw.Percentage,
		})
	}

	for _, m := range b.Members {
		in := services.MemberInput{
			PersonnelID:       m.PersonnelID,
			Name:              m.Name,
			Role:              m.Role,
			ParticipationRate: m.ParticipationRate,
			MonthlyAmount:     m.MonthlyAmount,
		}
		if in.StartDate, err = parseDate(m.StartDate); err != nil {
			return nil, err
		}
		if in.EndDate, err = parseDate(m.EndDate); err != nil {
			return nil, err
		}
		req.Members = append(req.Members, in)
	}

	req.EvidenceSettings = services.EvidenceSettings{
		AutoGenerate:     b.EvidenceSettings.AutoGenerate,
		NamingConvention: b.EvidenceSettings.NamingConvention,
	}
	return &req, nil
}

// GetProject handles GET /api/projects/:id.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "프로젝트 ID가 올바르지 않습니다."})
		return
	}

	project, err := h.projects.Get(c.Request.Context(), uint(id))
	if err == services.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "프로젝트를 찾을 수 없습니다."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "프로젝트 조회 중 오류가 발생했습니다."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}

// ListProjects handles GET /api/projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	page, pageSize, offset := pageParams(c)

	projects, total, err := h.projects.List(c.Request.Context(), offset, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "프로젝트 목록 조회 중 오류가 발생했습니다."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    paginatedData(projects, total, page, pageSize),
	})
}

// DeleteProject handles DELETE /api/projects/:id.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "프로젝트 ID가 올바르지 않습니다."})
		return
	}

	err = h.projects.Delete(c.Request.Context(), uint(id))
	if err == services.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "프로젝트를 찾을 수 없습니다."})
		return
	}
	if err != nil {
		slog.Error("프로젝트 삭제 실패", "projectId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "프로젝트 삭제 중 오류가 발생했습니다."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "프로젝트가 삭제되었습니다."})
}
