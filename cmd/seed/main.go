// Command main runs the database seeder for Pauller.
package main

import (
	"flag"
	"log"

	"pauller/internal/config"
	"pauller/internal/database"
	"pauller/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPolls := flag.Int("polls", 100, "Number of polls to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Build entities without writing to the database")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Hash seed passwords with the minimum bcrypt cost (faster for large seeds)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d polls, clean=%v\n", *numUsers, *numPolls, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	_, err = database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB, seed.Options{
		NumUsers:   *numUsers,
		NumPolls:   *numPolls,
		SkipBcrypt: *skipBcrypt,
		DryRun:     *dryRun,
	})

	if *shouldClean && !*dryRun {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedAccounts(*numUsers)
	if err != nil {
		log.Fatalf("❌ Account seeding failed: %v", err)
	}
	if _, err := s.SeedPolls(users, *numPolls); err != nil {
		log.Fatalf("❌ Poll seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
