package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alhamla/campaign-office/internal/auth"
	roleDatamodel "github.com/alhamla/campaign-office/internal/core/datamodel/role"
	userDatamodel "github.com/alhamla/campaign-office/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default roles and admin account",
	Long:  `Seed the database with the ADMIN and USER roles and an initial administrator account.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"activity_logs", "messages", "join_requests", "posts", "users", "roles"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		adminRoleID := ensureRole(db, "ADMIN", "مدير النظام", []string{auth.PermissionWildcard})
		ensureRole(db, "USER", "مستخدم", []string{
			"posts.read",
			"messages.read",
			"messages.send",
		})

		adminEmail := "admin@alhamla.org"
		var count int64
		if err := db.Model(&userDatamodel.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
			log.Fatalf("failed to check admin user: %v", err)
		}
		if count > 0 {
			fmt.Println("admin user already exists:", adminEmail)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("admin123456"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		admin := userDatamodel.User{
			ID:           uuid.NewString(),
			Email:        adminEmail,
			Username:     "admin",
			Name:         "مدير الحملة",
			PasswordHash: string(hash),
			RoleID:       adminRoleID,
			IsActive:     true,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("failed to insert admin user: %v", err)
		}
		fmt.Println("Seeded admin user:", adminEmail)
	},
}

func ensureRole(db *gorm.DB, name, nameAr string, permissions []string) string {
	var existing roleDatamodel.Role
	err := db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		fmt.Println("role already exists:", name)
		return existing.ID
	}

	r := roleDatamodel.Role{
		ID:          uuid.NewString(),
		Name:        name,
		NameAr:      nameAr,
		Permissions: auth.NormalizePermissions(permissions).Marshal(),
		IsActive:    true,
	}
	if err := db.Create(&r).Error; err != nil {
		log.Fatalf("failed to seed role %s: %v", name, err)
	}
	fmt.Println("Seeded role:", name)
	return r.ID
}
