// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"pauller/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Image:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		IsActive: true,
	}

	// Password handling: large seeds can drop to the minimum bcrypt cost,
	// but the stored value is always a real digest.
	cost := bcrypt.DefaultCost
	if f.opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), cost)
	user.HashedPassword = string(hashedPassword)

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPoll constructs a poll struct for the given author but does not
// persist it. Useful for batching.
func (f *Factory) BuildPoll(author *models.User, overrides ...func(*models.Poll)) *models.Poll {
	poll := &models.Poll{
		Title:       gofakeit.Question(),
		Description: gofakeit.Paragraph(1, 2, 6, "\n"),
		AuthorID:    author.ID,
		PollType:    f.randomPollType(),
		Anonymously: f.rng.Intn(4) == 0,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	poll.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	// Roughly a third of the polls are already finished, a third currently
	// open, and the rest scheduled for the future.
	switch f.rng.Intn(3) {
	case 0:
		poll.StartAt = poll.CreatedAt
		poll.FinishAt = poll.CreatedAt.Add(time.Duration(1+f.rng.Intn(6)) * 24 * time.Hour)
	case 1:
		poll.StartAt = time.Now().Add(-time.Duration(1+f.rng.Intn(48)) * time.Hour)
		poll.FinishAt = time.Now().Add(time.Duration(1+f.rng.Intn(14*24)) * time.Hour)
	default:
		poll.StartAt = time.Now().Add(time.Duration(1+f.rng.Intn(7*24)) * time.Hour)
		poll.FinishAt = poll.StartAt.Add(time.Duration(1+f.rng.Intn(14*24)) * time.Hour)
	}

	for _, override := range overrides {
		override(poll)
	}
	return poll
}

// CreatePollsBatch persists multiple polls in a single DB call when possible.
func (f *Factory) CreatePollsBatch(polls []*models.Poll) error {
	if f.opts.DryRun {
		for _, p := range polls {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePollsBatch: %d polls (no DB write)", len(polls))
		return nil
	}
	return f.db.Create(&polls).Error
}

func (f *Factory) randomPollType() string {
	types := []string{models.PollTypeSingle, models.PollTypeMultiple, models.PollTypeText}
	return types[f.rng.Intn(len(types))]
}
