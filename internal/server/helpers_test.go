package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	var gotLimit, gotOffset int
	app.Get("/page", func(c *fiber.Ctx) error {
		gotLimit, gotOffset = parsePagination(c)
		return c.SendStatus(http.StatusOK)
	})

	tests := []struct {
		name           string
		query          string
		expectedLimit  int
		expectedOffset int
	}{
		{name: "Defaults", query: "", expectedLimit: defaultPageLimit, expectedOffset: 0},
		{name: "Explicit", query: "?limit=5&offset=10", expectedLimit: 5, expectedOffset: 10},
		{name: "Limit clamped to max", query: "?limit=5000", expectedLimit: maxPageLimit, expectedOffset: 0},
		{name: "Zero limit falls back", query: "?limit=0", expectedLimit: defaultPageLimit, expectedOffset: 0},
		{name: "Negative values fall back", query: "?limit=-3&offset=-7", expectedLimit: defaultPageLimit, expectedOffset: 0},
		{name: "Garbage falls back", query: "?limit=abc&offset=xyz", expectedLimit: defaultPageLimit, expectedOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/page"+tt.query, nil), -1)
			require.NoError(t, err)
			_ = resp.Body.Close()

			assert.Equal(t, tt.expectedLimit, gotLimit)
			assert.Equal(t, tt.expectedOffset, gotOffset)
		})
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	var gotID uint
	var gotErr error
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		gotID, gotErr = parseID(c, "id")
		if gotErr != nil {
			return nil
		}
		return c.SendStatus(http.StatusOK)
	})

	t.Run("Valid", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/42", nil), -1)
		require.NoError(t, err)
		_ = resp.Body.Close()

		require.NoError(t, gotErr)
		assert.EqualValues(t, 42, gotID)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	for _, raw := range []string{"abc", "0", "-5", "1.5"} {
		t.Run("Invalid "+raw, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+raw, nil), -1)
			require.NoError(t, err)
			_ = resp.Body.Close()

			assert.ErrorIs(t, gotErr, errResponseWritten)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
