package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/viakisun/vws-rnd/internal/services"
)

// ExportHandler renders a project's annual budgets as an Excel workbook.
type ExportHandler struct {
	projects *services.ProjectService
	budgets  *services.AnnualBudgetService
}

func NewExportHandler(projects *services.ProjectService, budgets *services.AnnualBudgetService) *ExportHandler {
	return &ExportHandler{projects: projects, budgets: budgets}
}

// ExportAnnualBudgets handles GET /api/projects/:id/annual-budgets/export.
func (h *ExportHandler) ExportAnnualBudgets(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), projectID)
	if err == services.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "프로젝트를 찾을 수 없습니다."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "프로젝트 조회 중 오류가 발생했습니다."})
		return
	}

	list, err := h.budgets.List(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "연차별 예산 조회 중 오류가 발생했습니다."})
		return
	}

	f := excelize.NewFile()
	sheet := "연차별 사업비"
	index, err := f.NewSheet(sheet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "엑셀 파일 생성에 실패했습니다."})
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"연차", "시작일", "종료일",
		"정부지원금", "기업부담금(현금)", "기업부담금(현물)", "재원 합계",
		"인건비", "재료비", "연구활동비", "연구수당", "간접비", "비목 합계",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i := range list.Budgets {
		b := &list.Budgets[i]
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%d차년도", b.PeriodNumber))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b.StartDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), b.EndDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), b.GovernmentFunding)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), b.CompanyCash)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), b.CompanyInKind)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), b.FundingTotal())
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), b.PersonnelCash+b.PersonnelInKind)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), b.MaterialCash+b.MaterialInKind)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), b.ActivityCash+b.ActivityInKind)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), b.StipendCash+b.StipendInKind)
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), b.IndirectCash+b.IndirectInKind)
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), b.CostTotal())
	}

	totalRow := len(list.Budgets) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "합계")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", totalRow), list.Summary.GovernmentFunding)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), list.Summary.CompanyCash)
	f.SetCellValue(sheet, fmt.Sprintf("F%d", totalRow), list.Summary.CompanyInKind)
	f.SetCellValue(sheet, fmt.Sprintf("G%d", totalRow), list.Summary.TotalBudget)

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("엑셀 파일 직렬화 실패", "projectId", projectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "엑셀 파일 생성에 실패했습니다."})
		return
	}

	filename := fmt.Sprintf("%s-annual-budgets.xlsx", project.Code)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
