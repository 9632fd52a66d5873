// app/bootstrap.go
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"Gin_postgres_redis_asset_lending/config"
	"Gin_postgres_redis_asset_lending/models"
)

// BootstrapFirstAdmin creates the configured admin account when the user table is empty.
func BootstrapFirstAdmin(ctx context.Context, cfg config.BootstrapConfig, backend Backend, logger *zap.Logger) error {
	n, err := backend.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil // 已经有用户，跳过
	}
	username := strings.TrimSpace(cfg.AdminUsername)
	if username == "" || cfg.AdminPassword == "" {
		logger.Warn("no users and no BOOTSTRAP_ADMIN_USERNAME/PASSWORD, nobody can log in")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := &models.User{
		Username:     username,
		DisplayName:  username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := backend.SaveUser(ctx, u); err != nil {
		return err
	}
	logger.Info("[BOOTSTRAP] first admin created", zap.String("username", u.Username), zap.String("user_id", u.ID))
	return nil
}

// SeedSampleData fills an empty inventory with the department's starter assets
// and borrowers. It does nothing when any asset already exists.
func SeedSampleData(ctx context.Context, backend Backend, logger *zap.Logger) error {
	existing, err := backend.ListAssets(ctx, models.AssetFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	assets := sampleAssets()
	for i := range assets {
		if err := backend.SaveAsset(ctx, &assets[i]); err != nil {
			return err
		}
	}
	borrowers := sampleBorrowers()
	for i := range borrowers {
		if err := backend.SaveBorrower(ctx, &borrowers[i]); err != nil {
			return err
		}
	}
	logger.Info("sample data seeded", zap.Int("assets", len(assets)), zap.Int("borrowers", len(borrowers)))
	return nil
}

func sampleAssets() []models.Asset {
	day := func(s string) *time.Time {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			panic(errors.New("bad sample date " + s))
		}
		return &t
	}
	asset := func(name string, cat models.Category, brand, bought string, price int64, notes string, qty int) models.Asset {
		return models.Asset{
			Name:              name,
			Category:          cat,
			Brand:             brand,
			PurchaseDate:      day(bought),
			PurchasePrice:     decimal.NewFromInt(price),
			Notes:             notes,
			TotalQuantity:     qty,
			AvailableQuantity: qty,
			Condition:         models.ConditionGood,
			Status:            models.AssetActive,
		}
	}
	return []models.Asset{
		asset("Canon EOS 80D", models.CategoryStudio, "Canon", "2024-01-15", 15000000, "Kamera DSLR untuk praktikum fotografi", 5),
		asset("Tripod Takara VIT-234", models.CategoryStudio, "Takara", "2024-02-10", 450000, "Tripod profesional", 10),
		asset(`MacBook Pro 14"`, models.CategoryIT, "Apple", "2024-03-20", 35000000, "Laptop untuk desain grafis", 3),
		asset("Wacom Intuos Pro", models.CategoryIT, "Wacom", "2024-01-05", 5000000, "Pen tablet untuk ilustrasi digital", 8),
		asset("Gunting Kertas Besar", models.CategoryATK, "Kenko", "2024-04-01", 35000, "Gunting untuk kerajinan tangan", 20),
		asset("Meja Gambar A2", models.CategoryFurniture, "Local", "2023-08-15", 1500000, "Meja gambar dengan lampu built-in", 15),
	}
}

func sampleBorrowers() []models.Borrower {
	class := func(s string) *string { return &s }
	return []models.Borrower{
		{Name: "Budi Santoso", Role: models.BorrowerStudent, Class: class("XII DKV 1")},
		{Name: "Ani Wulandari", Role: models.BorrowerStudent, Class: class("XII DKV 2")},
		{Name: "Dimas Pratama", Role: models.BorrowerStudent, Class: class("XI DKV 1")},
		{Name: "Siti Nurhaliza", Role: models.BorrowerStudent, Class: class("XI DKV 2")},
		{Name: "Pak Joko Widodo", Role: models.BorrowerTeacher},
		{Name: "Bu Sri Mulyani", Role: models.BorrowerTeacher},
	}
}
