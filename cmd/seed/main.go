package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"stash/internal/items"
	"stash/internal/shared/config"
	"stash/internal/shared/database"
	"stash/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Stash Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order
func (s *Seeder) CleanDatabase() error {
	// Items reference users, so they go first
	tables := []string{
		"items",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedItems(userIDs); err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates a superuser, two regular users and one deactivated account
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("changethis"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key         string
		email       string
		fullName    string
		isActive    bool
		isSuperuser bool
	}{
		{"admin", "admin@stash.local", "Admin", true, true},
		{"alice", "alice@example.com", "Alice Carter", true, false},
		{"bob", "bob@example.com", "Bob Mercer", true, false},
		{"inactive", "dormant@example.com", "Dormant Account", false, false},
	}

	for _, userData := range usersData {
		fullName := userData.fullName
		user := users.User{
			ID:             uuid.New(),
			Email:          userData.email,
			HashedPassword: string(hashedPassword),
			FullName:       &fullName,
			IsActive:       userData.isActive,
			IsSuperuser:    userData.isSuperuser,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (superuser=%v, active=%v)\n", user.Email, user.IsSuperuser, user.IsActive)
	}

	return userIDs, nil
}

// SeedItems creates sample items for the regular users
func (s *Seeder) SeedItems(userIDs map[string]uuid.UUID) error {
	fmt.Println("  📦 Seeding items...")

	itemsData := []struct {
		owner       string
		title       string
		description string
	}{
		{"alice", "Grocery list", "Milk, eggs, flour, coffee"},
		{"alice", "Reading backlog", "Papers and books queued for the weekend"},
		{"alice", "Apartment fixes", ""},
		{"bob", "Trip packing list", "Passport, charger, hiking boots"},
		{"bob", "Recipe ideas", "Ramen from scratch, sourdough starter"},
	}

	for _, itemData := range itemsData {
		ownerID, ok := userIDs[itemData.owner]
		if !ok {
			return fmt.Errorf("unknown owner key %q", itemData.owner)
		}

		item := items.Item{
			ID:        uuid.New(),
			Title:     itemData.title,
			OwnerID:   ownerID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if itemData.description != "" {
			description := itemData.description
			item.Description = &description
		}

		if err := s.db.PostgreSQL.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to create item %s: %w", item.Title, err)
		}

		fmt.Printf("    ✅ Created item: %s (owner: %s)\n", item.Title, itemData.owner)
	}

	return nil
}
