package seed

import (
	"fmt"
	"log"

	"pauller/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers int
	NumPolls int
	MaxDays  int
	// SkipBcrypt hashes seed passwords with the minimum bcrypt cost.
	SkipBcrypt bool
	DryRun     bool
}

// Seeder populates the database with demo accounts and polls.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll removes all seeded data. Polls go first because they reference
// users.
func (s *Seeder) ClearAll() error {
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Poll{}).Error; err != nil {
		return fmt.Errorf("failed to clear polls: %w", err)
	}
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	log.Println("✓ Existing data cleared")
	return nil
}

// SeedAccounts creates n regular accounts plus one well-known admin and one
// deactivated account so capability paths can be exercised right away.
func (s *Seeder) SeedAccounts(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n+2)

	admin, err := s.factory.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@pauller.local"
		u.IsAdmin = true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin account: %w", err)
	}
	users = append(users, admin)

	inactive, err := s.factory.CreateUser(func(u *models.User) {
		u.Username = "dormant"
		u.Email = "dormant@pauller.local"
		u.IsActive = false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create inactive account: %w", err)
	}
	users = append(users, inactive)

	for i := 0; i < n; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create user %d: %w", i, err)
		}
		users = append(users, user)
	}

	log.Printf("✓ %d accounts created", len(users))
	return users, nil
}

// SeedPolls creates n polls spread across the given authors with a mix of
// finished, open and scheduled voting windows.
func (s *Seeder) SeedPolls(users []*models.User, n int) ([]*models.Poll, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no authors to attach polls to")
	}

	polls := make([]*models.Poll, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		polls = append(polls, s.factory.BuildPoll(author))
	}

	if err := s.factory.CreatePollsBatch(polls); err != nil {
		return nil, fmt.Errorf("failed to create polls: %w", err)
	}

	log.Printf("✓ %d polls created", len(polls))
	return polls, nil
}
