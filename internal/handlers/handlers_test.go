package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/viakisun/vws-rnd/config"
	"github.com/viakisun/vws-rnd/internal/handlers"
	"github.com/viakisun/vws-rnd/internal/routes"
	"github.com/viakisun/vws-rnd/internal/services"
	"github.com/viakisun/vws-rnd/models"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	evidence := services.NewEvidenceService()
	projectSvc := services.NewProjectService(db, evidence, 1000)
	budgetSvc := services.NewAnnualBudgetService(db, nil, 1000)

	r := routes.SetupRouter(routes.Handlers{
		Projects:      handlers.NewProjectHandler(projectSvc),
		AnnualBudgets: handlers.NewAnnualBudgetHandler(budgetSvc),
		Export:        handlers.NewExportHandler(projectSvc, budgetSvc),
	})
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "스마트팜 환경제어 고도화",
		"description": "다년도 정부과제",
		"startDate":   "2024-01-01",
		"endDate":     "2025-12-31",
		"totalBudget": 100_000_000,
		"annualPeriods": []map[string]interface{}{
			{
				"periodNumber": 1, "startDate": "2024-01-01", "endDate": "2024-12-31",
				"governmentFunding": 40_000_000, "companyCash": 5_000_000, "companyInKind": 5_000_000,
			},
			{
				"periodNumber": 2, "startDate": "2025-01-01", "endDate": "2025-12-31",
				"governmentFunding": 40_000_000, "companyCash": 5_000_000, "companyInKind": 5_000_000,
			},
		},
		"budgetCategories": []map[string]interface{}{
			{"name": "personnel", "percentage": 60},
			{"name": "material", "percentage": 20},
			{"name": "activity", "percentage": 15},
			{"name": "indirect", "percentage": 5},
		},
		"members": []map[string]interface{}{
			{
				"personnelId": "P-001", "name": "김연구", "role": "책임연구원",
				"participationRate": 60,
				"startDate":         "2024-01-01", "endDate": "2025-12-31",
				"monthlyAmount": 3_000_000,
			},
		},
	}
}

func createProject(t *testing.T, r *gin.Engine) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/projects", createBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ProjectID uint `json:"projectId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotZero(t, resp.Data.ProjectID)
	return resp.Data.ProjectID
}

func TestCreateProjectEndpoint(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/projects", createBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ProjectID   uint   `json:"projectId"`
			Code        string `json:"code"`
			BudgetIDs   []uint `json:"budgetIds"`
			MemberIDs   []uint `json:"memberIds"`
			EvidenceIDs []uint `json:"evidenceIds"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data.BudgetIDs, 2)
	assert.Len(t, resp.Data.MemberIDs, 1)
	assert.NotEmpty(t, resp.Data.Code)
}

func TestCreateProjectEndpointBudgetMismatch(t *testing.T) {
	r, db := newTestServer(t)

	body := createBody()
	periods := body["annualPeriods"].([]map[string]interface{})
	periods[0]["governmentFunding"] = 30_000_000 // periods now sum to 90M

	w := doJSON(t, r, http.MethodPost, "/api/projects", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0], "90000000")
	assert.Contains(t, resp.Errors[0], "100000000")

	var count int64
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected creation must persist nothing")
}

func TestAnnualBudgetList(t *testing.T) {
	r, _ := newTestServer(t)
	projectID := createProject(t, r)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/projects/%d/annual-budgets", projectID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Budgets []models.AnnualBudget  `json:"budgets"`
			Summary services.BudgetSummary `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Budgets, 2)
	assert.EqualValues(t, 100_000_000, resp.Data.Summary.TotalBudget)
}

func TestAnnualBudgetListUnknownProject(t *testing.T) {
	r, _ := newTestServer(t)
	w := doJSON(t, r, http.MethodGet, "/api/projects/999/annual-budgets", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnualBudgetReplaceAll(t *testing.T) {
	r, _ := newTestServer(t)
	projectID := createProject(t, r)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/annual-budgets", projectID), map[string]interface{}{
		"budgets": []map[string]interface{}{
			{
				"periodNumber": 1, "startDate": "2024-01-01", "endDate": "2024-12-31",
				"governmentFunding": 30_000_000,
			},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 30M funding vs the preserved 50M category costs: warnings present,
	// write committed anyway.
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Budgets    []models.AnnualBudget `json:"budgets"`
			Warnings   []string              `json:"warnings"`
			Mismatches []json.RawMessage     `json:"budgetMismatches"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data.Budgets, 1)
	assert.NotEmpty(t, resp.Data.Warnings)
	assert.NotEmpty(t, resp.Data.Mismatches)
}

func TestAnnualBudgetReplaceAllEmptyBody(t *testing.T) {
	r, _ := newTestServer(t)
	projectID := createProject(t, r)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/annual-budgets", projectID), map[string]interface{}{
		"budgets": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnnualBudgetUpdateOne(t *testing.T) {
	r, _ := newTestServer(t)
	projectID := createProject(t, r)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/projects/%d/annual-budgets", projectID), map[string]interface{}{
		"year": 1,
		"budgetData": map[string]interface{}{
			"governmentFunding": 40_000_000,
			"companyCash":       5_000_000,
			"companyInKind":     5_000_000,
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Budget   models.AnnualBudget `json:"budget"`
			Warnings []string            `json:"warnings"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 40_000_000, resp.Data.Budget.GovernmentFunding)
	// 50M funding against 50M costs: no warnings key expected.
	assert.Empty(t, resp.Data.Warnings)
}

func TestAnnualBudgetUpdateOneNotFound(t *testing.T) {
	r, _ := newTestServer(t)
	projectID := createProject(t, r)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/projects/%d/annual-budgets", projectID), map[string]interface{}{
		"year":       7,
		"budgetData": map[string]interface{}{"governmentFunding": 1},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnualBudgetDelete(t *testing.T) {
	r, _ := newTestServer(t)
	projectID := createProject(t, r)

	path := fmt.Sprintf("/api/projects/%d/annual-budgets", projectID)
	w := doJSON(t, r, http.MethodDelete, path, map[string]interface{}{"year": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, path, map[string]interface{}{"year": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportAnnualBudgets(t *testing.T) {
	r, _ := newTestServer(t)
	projectID := createProject(t, r)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/projects/%d/annual-budgets/export", projectID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestProjectGetAndDelete(t *testing.T) {
	r, _ := newTestServer(t)
	projectID := createProject(t, r)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/projects/%d", projectID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/projects/%d", projectID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/projects/%d", projectID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProjectsPagination(t *testing.T) {
	r, _ := newTestServer(t)
	createProject(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/projects?page=1&pageSize=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Rows        []models.Project `json:"rows"`
			TotalRows   int64            `json:"totalRows"`
			CurrentPage int              `json:"currentPage"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Rows, 1)
	assert.EqualValues(t, 1, resp.Data.TotalRows)
	assert.Equal(t, 1, resp.Data.CurrentPage)
}
