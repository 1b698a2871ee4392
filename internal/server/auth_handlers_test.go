package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"pauller/internal/auth"
	"pauller/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userResponse struct {
	User userEnvelope `json:"user"`
}

func TestSignup(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestServer(t)

	var body userResponse
	resp := doRequest(t, app, http.MethodPost, "/api/users/signup", "", fiber.Map{
		"username": "newcomer",
		"email":    "newcomer@example.com",
		"password": "password123",
	}, &body)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "newcomer", body.User.Username)
	assert.Equal(t, "newcomer@example.com", body.User.Email)
	require.NotEmpty(t, body.User.Token)

	subject, err := auth.DecodeToken(body.User.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "newcomer", subject)

	var stored models.User
	require.NoError(t, db.Where("username = ?", "newcomer").First(&stored).Error)
	assert.True(t, stored.IsActive)
	assert.False(t, stored.IsAdmin)
	assert.NotEqual(t, "password123", stored.HashedPassword)
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()

	_, app, _ := setupTestServer(t)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{name: "Missing fields", body: fiber.Map{"username": "someone"}},
		{name: "Short username", body: fiber.Map{"username": "ab", "email": "a@example.com", "password": "password123"}},
		{name: "Bad email", body: fiber.Map{"username": "someone", "email": "not-an-email", "password": "password123"}},
		{name: "Short password", body: fiber.Map{"username": "someone", "email": "a@example.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body models.ErrorResponse
			resp := doRequest(t, app, http.MethodPost, "/api/users/signup", "", tt.body, &body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION_ERROR", body.Code)
		})
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestServer(t)
	createAccount(t, db, "taken")

	var body models.ErrorResponse
	resp := doRequest(t, app, http.MethodPost, "/api/users/signup", "", fiber.Map{
		"username": "taken",
		"email":    "other@example.com",
		"password": "password123",
	}, &body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "USERNAME_TAKEN", body.Code)
	assert.Equal(t, models.MsgUsernameTaken, body.Error)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestServer(t)
	createAccount(t, db, "original")

	var body models.ErrorResponse
	resp := doRequest(t, app, http.MethodPost, "/api/users/signup", "", fiber.Map{
		"username": "different",
		"email":    "original@example.com",
		"password": "password123",
	}, &body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMAIL_TAKEN", body.Code)
	assert.Equal(t, models.MsgEmailTaken, body.Error)
}

func TestSignup_ConcurrentSameUsername(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestServer(t)

	// Two signups race for the same username; the store's unique constraint
	// decides the winner, so exactly one succeeds.
	statuses := make(chan int, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()

			payload, err := json.Marshal(fiber.Map{
				"username": "contested",
				"email":    email,
				"password": "password123",
			})
			if err != nil {
				statuses <- 0
				return
			}
			req := httptest.NewRequest(http.MethodPost, "/api/users/signup", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			if err != nil {
				statuses <- 0
				return
			}
			defer func() { _ = resp.Body.Close() }()
			statuses <- resp.StatusCode
		}(fmt.Sprintf("contested%d@example.com", i))
	}
	wg.Wait()
	close(statuses)

	var created, rejected int
	for status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			rejected++
		default:
			t.Fatalf("unexpected status %d", status)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, rejected)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "contested").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestServer(t)
	createAccount(t, db, "returning")

	tests := []struct {
		name  string
		login string
	}{
		{name: "By username", login: "returning"},
		{name: "By email", login: "returning@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body userResponse
			resp := doRequest(t, app, http.MethodPost, "/api/users/login", "", fiber.Map{
				"email_or_login": tt.login,
				"password":       testPassword,
			}, &body)

			assert.Equal(t, http.StatusCreated, resp.StatusCode)
			assert.Equal(t, "returning", body.User.Username)
			require.NotEmpty(t, body.User.Token)

			subject, err := auth.DecodeToken(body.User.Token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, "returning", subject)
		})
	}
}

func TestLogin_Incorrect(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestServer(t)
	createAccount(t, db, "victim")

	tests := []struct {
		name string
		body fiber.Map
	}{
		{name: "Wrong password", body: fiber.Map{"email_or_login": "victim", "password": "wrong-password"}},
		{name: "Unknown account", body: fiber.Map{"email_or_login": "nobody", "password": testPassword}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body models.ErrorResponse
			resp := doRequest(t, app, http.MethodPost, "/api/users/login", "", tt.body, &body)

			// Unknown account and wrong password are indistinguishable.
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "INCORRECT_LOGIN_INPUT", body.Code)
			assert.Equal(t, models.MsgIncorrectLoginInput, body.Error)
			assert.Empty(t, body.Details)
		})
	}
}

func TestLogin_DeactivatedAccountStillLogsIn(t *testing.T) {
	t.Parallel()

	// Deactivation removes the active capability but does not block login;
	// the account can still read active polls.
	_, app, db := setupTestServer(t)
	createAccount(t, db, "dormant", func(u *models.User) { u.IsActive = false })

	var body userResponse
	resp := doRequest(t, app, http.MethodPost, "/api/users/login", "", fiber.Map{
		"email_or_login": "dormant",
		"password":       testPassword,
	}, &body)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body.User.Token)
}
