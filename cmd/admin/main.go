// Operator CLI for account management: seeds the first superadmin,
// promotes and deactivates accounts without going through the API.
package main

import (
	"fmt"
	"log"
	"os"

	"carwatch/backend/internal/config"
	"carwatch/backend/internal/models"
	"carwatch/backend/internal/storage"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create-superadmin":
		if len(os.Args) != 6 {
			fmt.Println("Usage: admin create-superadmin <name> <email> <phone> <password>")
			os.Exit(1)
		}
		if err := createSuperadmin(storageSvc, os.Args[2], os.Args[3], os.Args[4], os.Args[5]); err != nil {
			log.Fatalf("Error creating superadmin: %v", err)
		}
		fmt.Printf("Superadmin %s has been created.\n", os.Args[3])
	case "promote":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin promote <email>")
			os.Exit(1)
		}
		if err := setRole(storageSvc, os.Args[2], models.RoleAdmin); err != nil {
			log.Fatalf("Error promoting user: %v", err)
		}
		fmt.Printf("User %s is now an admin.\n", os.Args[2])
	case "demote":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin demote <email>")
			os.Exit(1)
		}
		if err := setRole(storageSvc, os.Args[2], models.RoleUser); err != nil {
			log.Fatalf("Error demoting user: %v", err)
		}
		fmt.Printf("User %s is now a regular user.\n", os.Args[2])
	case "deactivate":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin deactivate <email>")
			os.Exit(1)
		}
		if err := setActive(storageSvc, os.Args[2], false); err != nil {
			log.Fatalf("Error deactivating user: %v", err)
		}
		fmt.Printf("User %s has been deactivated.\n", os.Args[2])
	case "activate":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin activate <email>")
			os.Exit(1)
		}
		if err := setActive(storageSvc, os.Args[2], true); err != nil {
			log.Fatalf("Error activating user: %v", err)
		}
		fmt.Printf("User %s has been activated.\n", os.Args[2])
	case "stats":
		if err := printStats(storageSvc); err != nil {
			log.Fatalf("Error loading stats: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func printStats(s storage.Storage) error {
	stats, err := s.DashboardStats()
	if err != nil {
		return err
	}
	fmt.Printf("Users:   %d total, %d admins, %d new\n", stats.Users.Total, stats.Users.Admins, stats.Users.New)
	fmt.Printf("Cars:    %d total, %d stolen, %d found, %d new\n", stats.Cars.Total, stats.Cars.Stolen, stats.Cars.Found, stats.Cars.New)
	fmt.Printf("Reports: %d total, %d pending, %d confirmed, %d new\n", stats.Reports.Total, stats.Reports.Pending, stats.Reports.Confirmed, stats.Reports.New)
	return nil
}

func createSuperadmin(s storage.Storage, name, email, phone, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), config.BcryptCost)
	if err != nil {
		return err
	}
	return s.CreateUser(&models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	})
}

func setRole(s storage.Storage, email string, role models.Role) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}
	user.Role = role
	return s.SaveUser(user)
}

func setActive(s storage.Storage, email string, active bool) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}
	user.IsActive = active
	return s.SaveUser(user)
}
