// Command seedadmin creates an admin account directly in the database. It is
// the operator-side alternative to the unguarded register-admin endpoint.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"campusdesk/internal/config"
	"campusdesk/internal/db"
	"campusdesk/internal/model"
	"campusdesk/internal/repository"
)

func main() {
	username := flag.String("username", "Test Admin", "admin display name")
	email := flag.String("email", "test@admin.com", "admin email")
	password := flag.String("password", "password", "admin password")
	department := flag.String("department", "academic", "admin department")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	mongoDB, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	adminRepo := repository.NewAdminRepository(mongoDB)
	if err := adminRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("admin indexes: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	admin := &model.Admin{
		Username:   *username,
		Email:      strings.ToLower(strings.TrimSpace(*email)),
		Password:   string(hashed),
		Department: *department,
	}
	if err := adminRepo.Create(ctx, admin); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %s created for department %s", admin.Email, admin.Department)
}
