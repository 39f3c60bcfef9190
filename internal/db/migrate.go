package db

import (
	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"github.com/freshplatter/platter-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.PlanPrice{},
		&model.Ingredient{},
		&model.Banner{},
		&model.Lead{},
		&model.CartItem{},
		&model.CartItemIngredient{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderItemIngredient{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedAdminUser()
}

// seedAdminUser creates the back-office admin account on first boot.
func seedAdminUser() error {
	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Admin user already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword("admin1234")
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        "admin@platter.local",
		PasswordHash: hash,
		Name:         "Platter Admin",
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("Admin user seeded", map[string]interface{}{
		"email": admin.Email,
	})
	return nil
}
