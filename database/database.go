package database

import (
	"fmt"
	"log"
	"math/rand"

	config "github.com/moneylink/moneylink_job/configs"
	"github.com/moneylink/moneylink_job/models"
	"github.com/moneylink/moneylink_job/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
		// The task-completion dedup relies on mapping duplicate-key
		// violations to gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Link{},
		&models.TaskCompletion{},
		&models.Withdrawal{},
		&models.Referral{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
		return
	}

	adminName := config.Config("ADMIN_FULL_NAME")
	adminUser := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		FullName: &adminName,
		Role:     "admin",
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
		return
	}

	log.Println("✅ Admin user seeded successfully")
}

// SeedDemoTasks creates a handful of demo links owned by the admin so a fresh
// install has something on the dashboard. Rewards are randomized between
// $0.05 and $0.15 like the demo seeding in the web client.
func SeedDemoTasks(count int) {
	if count <= 0 {
		return
	}

	var existing int64
	if err := DB.Model(&models.Link{}).Count(&existing).Error; err != nil {
		log.Printf("Failed to count links, skipping demo seed: %v", err)
		return
	}
	if existing > 0 {
		return
	}

	var admin models.User
	if err := DB.Where("role = ?", "admin").First(&admin).Error; err != nil {
		log.Printf("No admin user found, skipping demo seed: %v", err)
		return
	}

	for i := 0; i < count; i++ {
		slug, err := utils.GenerateUniqueSlug(DB)
		if err != nil {
			log.Printf("Failed to generate slug for demo task: %v", err)
			return
		}

		reward := decimal.NewFromFloat(0.05 + rand.Float64()*0.1).Round(4)
		link := models.Link{
			UserID:       admin.ID,
			OriginalURL:  "https://google.com",
			Slug:         slug,
			RewardAmount: reward,
		}
		if err := DB.Create(&link).Error; err != nil {
			log.Printf("Failed to seed demo task: %v", err)
			return
		}
	}

	log.Printf("✅ Seeded %d demo task(s)", count)
}
