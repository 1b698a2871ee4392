package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{name: "Valid simple", username: "alice", valid: true},
		{name: "Valid with separators", username: "alice_b-c", valid: true},
		{name: "Too short", username: "ab", valid: false},
		{name: "Too long", username: strings.Repeat("a", 31), valid: false},
		{name: "Illegal characters", username: "alice!", valid: false},
		{name: "Spaces", username: "alice b", valid: false},
		{name: "Leading underscore", username: "_alice", valid: false},
		{name: "Trailing hyphen", username: "alice-", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{name: "Valid", email: "alice@example.com", valid: true},
		{name: "Valid with plus", email: "alice+polls@example.co.uk", valid: true},
		{name: "Missing at", email: "alice.example.com", valid: false},
		{name: "Missing domain", email: "alice@", valid: false},
		{name: "Missing TLD", email: "alice@example", valid: false},
		{name: "Too long", email: strings.Repeat("a", 250) + "@e.com", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("password123"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129)))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", 128)))
}
