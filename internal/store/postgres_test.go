package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serendib-labs/mapleads/internal/model"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgresCreateRun(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "pharmacy", "queued", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), testParams())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateRunStatusNotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("running", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateRunStatus(context.Background(), "missing", model.RunStatusRunning)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteRunStatusMapping(t *testing.T) {
	s, mock := newMockPostgres(t)

	failed := model.NewSearchResult(testParams())
	failed.Success = false
	failed.Error = "session crashed"

	mock.ExpectExec("UPDATE runs SET result").
		WithArgs(pgxmock.AnyArg(), "failed", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.CompleteRun(context.Background(), "run-1", failed))

	ok := model.NewSearchResult(testParams())
	mock.ExpectExec("UPDATE runs SET result").
		WithArgs(pgxmock.AnyArg(), "complete", pgxmock.AnyArg(), "run-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.CompleteRun(context.Background(), "run-2", ok))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveBusinesses(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectCopyFrom(pgx.Identifier{"businesses"}, businessColumns).WillReturnResult(2)

	businesses := []model.Business{
		{
			Name: "Perera Pharmacy",
			PhoneNumbers: []model.PhoneNumber{
				{Number: "+94712345678", IsMobile: true, Validated: true},
			},
			ExtractedAt: time.Now().UTC(),
		},
		{
			Name: "Cafe X",
			PhoneNumbers: []model.PhoneNumber{
				{Number: "+94112345678", Validated: true, Region: "Colombo"},
			},
			ExtractedAt: time.Now().UTC(),
		},
	}

	n, err := s.SaveBusinesses(context.Background(), "run-1", businesses)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetCachedResult(t *testing.T) {
	s, mock := newMockPostgres(t)

	result := model.NewSearchResult(testParams())
	result.AddBusiness(model.Business{Name: "Cafe X"})
	payload := `{"parameters":{"query":"pharmacy","radius_km":5,"max_results":120},"businesses":[{"name":"Cafe X","phone_numbers":null,"extracted_at":"0001-01-01T00:00:00Z"}],"total_found":1,"success":true,"search_time_seconds":0}`

	mock.ExpectQuery("SELECT result FROM result_cache").
		WithArgs("key-1").
		WillReturnRows(pgxmock.NewRows([]string{"result"}).AddRow([]byte(payload)))

	hit, err := s.GetCachedResult(context.Background(), "key-1")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, 1, hit.TotalFound)

	mock.ExpectQuery("SELECT result FROM result_cache").
		WithArgs("key-2").
		WillReturnError(pgx.ErrNoRows)

	miss, err := s.GetCachedResult(context.Background(), "key-2")
	require.NoError(t, err)
	assert.Nil(t, miss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetCachedResult(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO result_cache").
		WithArgs(pgxmock.AnyArg(), "key-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SetCachedResult(context.Background(), "key-1", model.NewSearchResult(testParams()), time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteExpiredResults(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("DELETE FROM result_cache").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpiredResults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
