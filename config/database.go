package config

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/viakisun/vws-rnd/models"
)

// ConnectDB opens the Postgres connection and migrates the schema. The
// returned handle is passed explicitly into every service; there is no
// package-level connection.
func ConnectDB(cfg Config) (*gorm.DB, error) {
	if cfg.DBURL == "" {
		return nil, fmt.Errorf("DB_URL 환경변수가 설정되지 않았습니다")
	}

	db, err := gorm.Open(postgres.Open(cfg.DBURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("데이터베이스 연결 실패: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	slog.Info("데이터베이스 연결 성공")
	return db, nil
}

// Migrate applies the schema for every entity this service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Project{},
		&models.AnnualBudget{},
		&models.ProjectMember{},
		&models.BudgetCategory{},
		&models.EvidenceItem{},
	)
}
