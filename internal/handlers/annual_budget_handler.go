package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/viakisun/vws-rnd/internal/services"
)

// AnnualBudgetHandler exposes the per-period funding breakdown of a project.
// Reconciliation warnings from the service ride along in successful
// responses; they never turn a write into an error.
type AnnualBudgetHandler struct {
	budgets *services.AnnualBudgetService
}

func NewAnnualBudgetHandler(budgets *services.AnnualBudgetService) *AnnualBudgetHandler {
	return &AnnualBudgetHandler{budgets: budgets}
}

type periodFundingBody struct {
	PeriodNumber      int    `json:"periodNumber"`
	Year              int    `json:"year"` // legacy alias for periodNumber
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	GovernmentFunding int64  `json:"governmentFunding"`
	CompanyCash       int64  `json:"companyCash"`
	CompanyInKind     int64  `json:"companyInKind"`
}

func (b *periodFundingBody) toInput() (services.PeriodFundingInput, error) {
	in := services.PeriodFundingInput{
		PeriodNumber:      b.PeriodNumber,
		GovernmentFunding: b.GovernmentFunding,
		CompanyCash:       b.CompanyCash,
		CompanyInKind:     b.CompanyInKind,
	}
	if in.PeriodNumber == 0 {
		in.PeriodNumber = b.Year
	}
	var err error
	if in.StartDate, err = parseDate(b.StartDate); err != nil {
		return in, err
	}
	if in.EndDate, err = parseDate(b.EndDate); err != nil {
		return in, err
	}
	return in, nil
}

func projectIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "프로젝트 ID가 올바르지 않습니다."})
		return 0, false
	}
	return uint(id), true
}

// ListAnnualBudgets handles GET /api/projects/:id/annual-budgets.
func (h *AnnualBudgetHandler) ListAnnualBudgets(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	result, err := h.budgets.List(c.Request.Context(), projectID)
	if err == services.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "프로젝트를 찾을 수 없습니다."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "연차별 예산 조회 중 오류가 발생했습니다."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// ReplaceAnnualBudgets handles POST /api/projects/:id/annual-budgets. The
// submitted set replaces all stored periods; category costs recorded for a
// surviving period number are preserved.
func (h *AnnualBudgetHandler) ReplaceAnnualBudgets(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Budgets []periodFundingBody `json:"budgets"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "요청 본문이 올바르지 않습니다: " + err.Error()})
		return
	}
	if len(body.Budgets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "연차별 예산 데이터가 비어 있습니다."})
		return
	}

	inputs := make([]services.PeriodFundingInput, 0, len(body.Budgets))
	for i := range body.Budgets {
		in, err := body.Budgets[i].toInput()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		inputs = append(inputs, in)
	}

	result, err := h.budgets.ReplaceAll(c.Request.Context(), projectID, inputs)
	if err == services.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "프로젝트를 찾을 수 없습니다."})
		return
	}
	if err != nil {
		slog.Error("연차별 예산 저장 실패", "projectId", projectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "연차별 예산 저장 중 오류가 발생했습니다."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"message": "연차별 예산이 저장되었습니다.",
	})
}

// UpdateAnnualBudget handles PUT /api/projects/:id/annual-budgets: a
// funding-only update of one period.
func (h *AnnualBudgetHandler) UpdateAnnualBudget(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Year       int               `json:"year"`
		BudgetData periodFundingBody `json:"budgetData"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "요청 본문이 올바르지 않습니다: " + err.Error()})
		return
	}
	if body.Year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "연차(year)는 필수 입력 항목입니다."})
		return
	}

	in, err := body.BudgetData.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.budgets.UpdateOne(c.Request.Context(), projectID, body.Year, in)
	if err == services.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "해당 연차 예산을 찾을 수 없습니다."})
		return
	}
	if err != nil {
		slog.Error("연차별 예산 수정 실패", "projectId", projectID, "year", body.Year, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "연차별 예산 수정 중 오류가 발생했습니다."})
		return
	}

	data := gin.H{"budget": result.Budgets[0]}
	if len(result.Warnings) > 0 {
		data["warnings"] = result.Warnings
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// DeleteAnnualBudget handles DELETE /api/projects/:id/annual-budgets.
func (h *AnnualBudgetHandler) DeleteAnnualBudget(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Year int `json:"year"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "연차(year)는 필수 입력 항목입니다."})
		return
	}

	err := h.budgets.DeleteOne(c.Request.Context(), projectID, body.Year)
	if err == services.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "해당 연차 예산을 찾을 수 없습니다."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "연차별 예산 삭제 중 오류가 발생했습니다."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
