// seed-admin creates or updates the bootstrap super admin user.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/models"
	"github.com/codezana/generator-system-api/utils"
	"gorm.io/gorm"
)

const (
	adminName     = "super admin"
	adminPassword = "super@super"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	models.MigrateTable()

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	hashedStr := string(hashed)

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("name = ?", adminName).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Name:     adminName,
			Password: hashedStr,
			Role:     models.UserRoleSuperAdmin,
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create super admin: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created super admin: name=%q\n", adminName)
		return
	}

	if err := db.WithContext(ctx).Model(&models.User{}).Where("name = ?", adminName).Updates(map[string]any{
		"password": hashedStr,
		"role":     models.UserRoleSuperAdmin,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update super admin: %v\n", err)
		os.Exit(1)
	}
	_ = existing.RemoveInstanceRedis()
	fmt.Printf("Updated super admin: name=%q\n", adminName)
}
