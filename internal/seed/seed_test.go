package seed

import (
	"testing"
	"time"

	"pauller/internal/auth"
	"pauller/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Poll{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestSeedAccounts(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	users, err := s.SeedAccounts(5)
	require.NoError(t, err)
	assert.Len(t, users, 7, "5 regular accounts plus admin and dormant")

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.IsActive)

	var dormant models.User
	require.NoError(t, db.Where("username = ?", "dormant").First(&dormant).Error)
	assert.False(t, dormant.IsActive)
}

func TestCreateUser_PasswordIsAlwaysHashed(t *testing.T) {
	for _, skipBcrypt := range []bool{false, true} {
		f := NewFactory(nil, Options{DryRun: true, SkipBcrypt: skipBcrypt})

		user, err := f.CreateUser()
		require.NoError(t, err)
		assert.NotEqual(t, "password123", user.HashedPassword)
		assert.True(t, auth.VerifyPassword("password123", user.HashedPassword))
	}
}

func TestSeedPolls(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true, MaxDays: 30})

	users, err := s.SeedAccounts(3)
	require.NoError(t, err)

	polls, err := s.SeedPolls(users, 20)
	require.NoError(t, err)
	assert.Len(t, polls, 20)

	var count int64
	require.NoError(t, db.Model(&models.Poll{}).Count(&count).Error)
	assert.EqualValues(t, 20, count)

	for _, poll := range polls {
		assert.NotZero(t, poll.AuthorID)
		assert.NotEmpty(t, poll.Title)
		assert.True(t, poll.FinishAt.After(poll.StartAt), "voting window must have positive length")
		_, ok := models.NormalizePollType(poll.PollType)
		assert.True(t, ok, "generated poll type must be a known type")
	}
}

func TestSeedPolls_NoAuthors(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db, Options{})

	_, err := s.SeedPolls(nil, 5)
	assert.Error(t, err)
}

func TestClearAll(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	users, err := s.SeedAccounts(2)
	require.NoError(t, err)
	_, err = s.SeedPolls(users, 5)
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())

	var userCount, pollCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Poll{}).Count(&pollCount).Error)
	assert.Zero(t, userCount)
	assert.Zero(t, pollCount)
}

func TestFactory_DryRun(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true, SkipBcrypt: true})

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID, "dry run assigns synthetic IDs")

	polls := []*models.Poll{f.BuildPoll(user), f.BuildPoll(user)}
	require.NoError(t, f.CreatePollsBatch(polls))
	assert.NotZero(t, polls[0].ID)
	assert.NotEqual(t, polls[0].ID, polls[1].ID)

	var window time.Duration
	for _, p := range polls {
		window = p.FinishAt.Sub(p.StartAt)
		assert.Positive(t, window)
	}
}
