package main

import (
	"log/slog"
	"os"

	"github.com/viakisun/vws-rnd/config"
	"github.com/viakisun/vws-rnd/internal/handlers"
	"github.com/viakisun/vws-rnd/internal/routes"
	"github.com/viakisun/vws-rnd/internal/services"
)

func main() {
	cfg := config.Load()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		slog.Error("서버를 시작할 수 없습니다", "error", err)
		os.Exit(1)
	}
	rdb := config.ConnectRedis(cfg)

	evidenceService := services.NewEvidenceService()
	projectService := services.NewProjectService(db, evidenceService, cfg.Tolerance)
	budgetService := services.NewAnnualBudgetService(db, rdb, cfg.Tolerance)

	r := routes.SetupRouter(routes.Handlers{
		Projects:      handlers.NewProjectHandler(projectService),
		AnnualBudgets: handlers.NewAnnualBudgetHandler(budgetService),
		Export:        handlers.NewExportHandler(projectService, budgetService),
	})

	slog.Info("서버 시작", "port", cfg.Port, "tolerance", cfg.Tolerance)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("서버 종료", "error", err)
		os.Exit(1)
	}
}
