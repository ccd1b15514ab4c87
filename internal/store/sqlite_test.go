package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serendib-labs/mapleads/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "mapleads.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func testParams() model.SearchParameters {
	loc := model.NewResolvedLocation(6.9271, 79.8612)
	loc.City = "Colombo"
	return model.SearchParameters{
		Query:      "pharmacy",
		Location:   loc,
		RadiusKM:   5,
		MaxResults: 120,
	}
}

func TestSQLiteRunLifecycle(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testParams())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusRunning, got.Status)
	assert.Equal(t, "pharmacy", got.Parameters.Query)
	require.NotNil(t, got.Parameters.Location)
	assert.Equal(t, "Colombo", got.Parameters.Location.City)
	assert.Nil(t, got.Result)

	result := model.NewSearchResult(testParams())
	result.AddBusiness(model.Business{
		Name: "Perera Pharmacy",
		PhoneNumbers: []model.PhoneNumber{
			{Number: "+94712345678", IsMobile: true, Validated: true},
		},
		ExtractedAt: time.Now().UTC(),
	})

	require.NoError(t, s.CompleteRun(ctx, run.ID, result))

	got, err = s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 1, got.Result.TotalFound)
	assert.Equal(t, "+94712345678", got.Result.Businesses[0].PhoneNumbers[0].Number)
}

func TestSQLiteCompleteRunFailedResult(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testParams())
	require.NoError(t, err)

	result := model.NewSearchResult(testParams())
	result.Success = false
	result.Error = "captcha wall"

	require.NoError(t, s.CompleteRun(ctx, run.ID, result))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "captcha wall", got.Result.Error)
}

func TestSQLiteRunNotFound(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.GetRun(ctx, "nope")
	assert.Error(t, err)

	err = s.UpdateRunStatus(ctx, "nope", model.RunStatusRunning)
	assert.Error(t, err)

	err = s.CompleteRun(ctx, "nope", model.NewSearchResult(testParams()))
	assert.Error(t, err)
}

func TestSQLiteListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, testParams())
	require.NoError(t, err)

	other := testParams()
	other.Query = "bakery"
	second, err := s.CreateRun(ctx, other)
	require.NoError(t, err)
	require.NoError(t, s.UpdateRunStatus(ctx, second.ID, model.RunStatusComplete))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byStatus, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusQueued})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, first.ID, byStatus[0].ID)

	byQuery, err := s.ListRuns(ctx, RunFilter{Query: "bakery"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, second.ID, byQuery[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteSaveBusinesses(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testParams())
	require.NoError(t, err)

	loc := model.NewResolvedLocation(6.93, 79.87)
	loc.District = "Colombo"
	rating := 4.5
	businesses := []model.Business{
		{
			Name: "Perera Pharmacy",
			PhoneNumbers: []model.PhoneNumber{
				{Number: "+94712345678", IsMobile: true, Validated: true},
			},
			Location:    loc,
			Rating:      &rating,
			ExtractedAt: time.Now().UTC(),
		},
		{
			Name: "No Frills Hardware",
			PhoneNumbers: []model.PhoneNumber{
				{Number: "+94112345678", Validated: true, Region: "Colombo"},
			},
			ExtractedAt: time.Now().UTC(),
		},
	}

	n, err := s.SaveBusinesses(ctx, run.ID, businesses)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.SaveBusinesses(ctx, run.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLiteResultCache(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	params := testParams()
	key := CacheKey(params)

	miss, err := s.GetCachedResult(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, miss)

	result := model.NewSearchResult(params)
	result.AddBusiness(model.Business{Name: "Cafe X"})

	require.NoError(t, s.SetCachedResult(ctx, key, result, time.Hour))

	hit, err := s.GetCachedResult(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, 1, hit.TotalFound)
	assert.Equal(t, "Cafe X", hit.Businesses[0].Name)
}

func TestSQLiteResultCacheExpiry(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	key := CacheKey(testParams())
	result := model.NewSearchResult(testParams())

	require.NoError(t, s.SetCachedResult(ctx, key, result, -time.Hour))

	miss, err := s.GetCachedResult(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, miss)

	deleted, err := s.DeleteExpiredResults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}
