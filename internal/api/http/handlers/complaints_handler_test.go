package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
)

func captureListQuery(t *testing.T, target string) service.ListInput {
	t.Helper()

	var got service.ListInput
	app := fiber.New()
	app.Get("/complaints", func(c *fiber.Ctx) error {
		got = parseListQuery(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestParseListQuery_Defaults(t *testing.T) {
	got := captureListQuery(t, "/complaints")

	assert.Equal(t, "createdAt", got.SortBy)
	assert.Equal(t, "desc", got.SortOrder)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 10, got.Limit)
	assert.Nil(t, got.Status)
	assert.Nil(t, got.Priority)
	assert.Nil(t, got.Category)
	assert.Nil(t, got.Search)
}

func TestParseListQuery_AllParams(t *testing.T) {
	got := captureListQuery(t,
		"/complaints?status=In%20Progress&priority=High&category=Billing&search=premium&sortBy=priority&sortOrder=asc&page=3&limit=25")

	require.NotNil(t, got.Status)
	assert.Equal(t, domain.StatusInProgress, *got.Status)
	require.NotNil(t, got.Priority)
	assert.Equal(t, domain.PriorityHigh, *got.Priority)
	require.NotNil(t, got.Category)
	assert.Equal(t, domain.CategoryBilling, *got.Category)
	require.NotNil(t, got.Search)
	assert.Equal(t, "premium", *got.Search)
	assert.Equal(t, "priority", got.SortBy)
	assert.Equal(t, "asc", got.SortOrder)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 25, got.Limit)
}

func TestParseListQuery_BadPaginationFallsBack(t *testing.T) {
	got := captureListQuery(t, "/complaints?page=zero&limit=-5")

	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 10, got.Limit)
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 7, parseInt("7", 1))
	assert.Equal(t, 1, parseInt("", 1))
	assert.Equal(t, 1, parseInt("abc", 1))
	assert.Equal(t, 1, parseInt("0", 1))
	assert.Equal(t, 1, parseInt("-3", 1))
}
