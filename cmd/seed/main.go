package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"feedhub/internal/auth"
	"feedhub/internal/config"
	"feedhub/internal/db"
	"feedhub/internal/model"
	"feedhub/internal/repository"
)

// SeedUser is one fixture entry: a user plus the posts they own.
type SeedUser struct {
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	Password string     `json:"password"`
	Status   string     `json:"status"`
	Posts    []SeedPost `json:"posts"`
}

// SeedPost is one post fixture entry.
type SeedPost struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// defaultFixture is used when no fixture file is given.
var defaultFixture = []SeedUser{
	{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "alicepw",
		Status:   "exploring",
		Posts: []SeedPost{
			{Title: "Hello feed", Content: "My very first post on this feed.", ImageURL: "images/seed-hello.png"},
			{Title: "Second thoughts", Content: "Turns out writing posts is fun.", ImageURL: "images/seed-second.png"},
		},
	},
	{
		Email:    "bob@example.com",
		Name:     "Bob",
		Password: "bobpassword",
		Posts: []SeedPost{
			{Title: "Bob was here", Content: "Checking in from the seed script.", ImageURL: "images/seed-bob.png"},
		},
	},
}

func main() {
	fixturePath := flag.String("file", "", "path to a JSON fixture; built-in demo data when empty")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Post{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	fixture := defaultFixture
	if *fixturePath != "" {
		fixture, err = loadFixture(*fixturePath)
		if err != nil {
			log.Fatalf("Failed to load fixture: %v", err)
		}
		log.Printf("Loaded %d users from %s", len(fixture), *fixturePath)
	}

	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	hasher := auth.NewPasswordHasher()
	ctx := context.Background()

	log.Println("Seeding users and posts into database...")
	users, posts, err := seed(ctx, userRepo, postRepo, hasher, fixture)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users created: %d", users)
	log.Printf("  - Posts created: %d", posts)
}

// loadFixture reads seed users from a JSON file.
func loadFixture(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fixture []SeedUser
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return fixture, nil
}

// seed creates fixture users and their posts, skipping emails that already
// exist so the script can be re-run.
func seed(
	ctx context.Context,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	hasher *auth.PasswordHasher,
	fixture []SeedUser,
) (usersCreated, postsCreated int, err error) {
	for _, entry := range fixture {
		existing, err := userRepo.FindByEmail(ctx, entry.Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			return usersCreated, postsCreated, fmt.Errorf("check user %s: %w", entry.Email, err)
		}
		if existing != nil {
			log.Printf("Skipping existing user: %s", entry.Email)
			continue
		}

		digest, err := hasher.Hash(entry.Password)
		if err != nil {
			return usersCreated, postsCreated, fmt.Errorf("hash password for %s: %w", entry.Email, err)
		}

		user := &model.User{
			Email:        entry.Email,
			Name:         entry.Name,
			PasswordHash: digest,
			Status:       entry.Status,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return usersCreated, postsCreated, fmt.Errorf("create user %s: %w", entry.Email, err)
		}
		usersCreated++

		for _, p := range entry.Posts {
			post := &model.Post{
				Title:     p.Title,
				Content:   p.Content,
				ImageURL:  p.ImageURL,
				CreatorID: user.ID,
			}
			if err := postRepo.Create(ctx, post); err != nil {
				return usersCreated, postsCreated, fmt.Errorf("create post %q: %w", p.Title, err)
			}
			postsCreated++
		}
	}
	return usersCreated, postsCreated, nil
}
