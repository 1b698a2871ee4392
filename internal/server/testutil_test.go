package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pauller/internal/auth"
	"pauller/internal/config"
	"pauller/internal/models"
	"pauller/internal/repository"
	"pauller/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testSecret   = "test_secret"
	testPassword = "password123"
)

// setupTestServer builds a Server over an in-memory sqlite database with the
// full route table mounted. The Prometheus middleware stays off so repeated
// test servers do not fight over collector registration.
func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A :memory: database exists per connection; concurrent requests must
	// share the one that was migrated.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Poll{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	pollRepo := repository.NewPollRepository(db)

	s := &Server{
		config: &config.Config{
			JWTSecret:     testSecret,
			TokenPrefix:   "Token",
			TokenTTLHours: 1,
		},
		db:             db,
		userRepo:       userRepo,
		pollRepo:       pollRepo,
		accountService: service.NewAccountService(userRepo),
		pollService:    service.NewPollService(pollRepo),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app, db
}

// createAccount persists an account with the shared test password.
func createAccount(t *testing.T, db *gorm.DB, username string, overrides ...func(*models.User)) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: string(hashed),
		IsActive:       true,
	}
	for _, override := range overrides {
		override(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// tokenFor mints a valid credential for the given username.
func tokenFor(t *testing.T, username string) string {
	t.Helper()
	token, err := auth.IssueToken(username, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// createPoll persists a poll with the given voting window.
func createPoll(t *testing.T, db *gorm.DB, authorID uint, title string, startAt, finishAt time.Time) *models.Poll {
	t.Helper()
	poll := &models.Poll{
		Title:    title,
		AuthorID: authorID,
		StartAt:  startAt,
		FinishAt: finishAt,
		PollType: models.PollTypeSingle,
	}
	require.NoError(t, db.Create(poll).Error)
	return poll
}

// decodeJSON decodes a response body into out.
func decodeJSON(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}

// doRequest runs a JSON request through the app and decodes the response body
// into out when out is non-nil.
func doRequest(t *testing.T, app *fiber.App, method, target, token string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}
