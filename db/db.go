package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"Gin_postgres_redis_asset_lending/config"
	"Gin_postgres_redis_asset_lending/models"
)

func ConnectDB(cfg config.PostgresConfig, logger *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.Port,
		cfg.SSLMode,
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate models: %w", err)
	}
	logger.Info("database connected", zap.String("host", cfg.Host), zap.String("db", cfg.Name))
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Asset{}, &models.Borrower{}, &models.Loan{}, &models.Maintenance{}); err != nil {
		return err
	}

	// 未归还借用按物品查询（删除物品前的检查、库存核对）
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_by_asset
	  ON %s (asset_id, created_at DESC)
	  WHERE status IN ('Borrowed', 'Late');
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	// 维修记录最多关联一次某个 loan
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_per_loan
	  ON %s (loan_id)
	  WHERE loan_id IS NOT NULL;
	`, models.MaintenanceTable, models.MaintenanceTable)).Error; err != nil {
		return err
	}

	return nil
}
