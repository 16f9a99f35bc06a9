package library

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"library-manager/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *Repository) {
	db := setupTestDB(t)
	feature := NewFeature(db, zap.NewNop())
	require.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, feature.service.repo
}

func TestHandleGetEntry(t *testing.T) {
	app, repo := setupTestApp(t)
	ctx := context.Background()

	entry := seedEntry(t, repo, reconcile.Entry{Source: 1, URL: "/a", Title: "A", Favorite: true})
	require.NoError(t, repo.SaveEpisodes(ctx, []reconcile.Episode{{EntryID: entry.ID, URL: "/a/1", Number: 1}}))
	cat, err := repo.CreateCategory(ctx, "Reading", 0)
	require.NoError(t, err)
	require.NoError(t, repo.SetEntryCategories(ctx, entry.ID, []int64{cat.ID}))

	t.Run("Found", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/library/1", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body EntryDetail
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "A", body.Entry.Title)
		assert.Len(t, body.Episodes, 1)
		assert.Len(t, body.Categories, 1)
		assert.Empty(t, body.Tracks)
	})

	t.Run("Not found", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/library/42", nil))
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("Bad id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/library/abc", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestHandleListFavorites(t *testing.T) {
	app, repo := setupTestApp(t)
	seedEntry(t, repo, reconcile.Entry{Source: 1, URL: "/a", Favorite: true})
	seedEntry(t, repo, reconcile.Entry{Source: 1, URL: "/b"})

	resp, err := app.Test(httptest.NewRequest("GET", "/library", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body []reconcile.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "/a", body[0].URL)
}

func TestLoader_DisabledWithoutDB(t *testing.T) {
	feature := NewFeature(nil, zap.NewNop())
	assert.Equal(t, "library", feature.Name())
	assert.False(t, feature.IsEnabled())
}
