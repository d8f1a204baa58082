package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/repository"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/pkg/errors"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestRunRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunRepository(db, zap.NewNop())

	run := domain.NewRunReport(true)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_runs")).
		WithArgs(run.ID, run.StartedAt, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepository_FinishUnknownRun(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunRepository(db, zap.NewNop())

	run := domain.NewRunReport(false)
	run.Finish(nil)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sync_runs")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Finish(context.Background(), run)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunRepository(db, zap.NewNop())

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM sync_runs WHERE id = $1")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestRunRepository_ListRecent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunRepository(db, zap.NewNop())

	started := time.Date(2026, 10, 1, 6, 0, 0, 0, time.UTC)
	finished := started.Add(3 * time.Minute)
	id1, id2 := uuid.New(), uuid.New()
	rows := sqlmock.NewRows([]string{
		"id", "started_at", "finished_at", "dry_run", "processed", "created", "updated",
		"skipped", "failed", "unmatched", "aborted", "abort_error",
	}).
		AddRow(id1.String(), started, finished, false, 10, 2, 5, 0, 1, 2, false, nil).
		AddRow(id2.String(), started.Add(-time.Hour), nil, false, 0, 0, 0, 0, 0, 0, true, "snapshot failed")

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY started_at DESC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(rows)

	runs, err := repo.ListRecent(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, id1, runs[0].ID)
	assert.Equal(t, 5, runs[0].Updated)
	assert.Equal(t, 3*time.Minute, runs[0].Duration())

	assert.True(t, runs[1].Aborted)
	assert.Equal(t, "snapshot failed", runs[1].AbortError)
	assert.True(t, runs[1].FinishedAt.IsZero())
}

func TestRunItemRepository_CreateBatch(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunItemRepository(db, zap.NewNop())

	runID := uuid.New()
	items := []domain.ItemResult{
		{EAN: "111", Outcome: domain.OutcomeCreated, Action: domain.ActionCreate, ListingID: "gid://shopify/Product/1", Quantity: 5, Price: decimal.RequireFromString("9.90")},
		{EAN: "222", Outcome: domain.OutcomeUnmatched, Error: "no supplier record for EAN 222"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_run_items")).
		WithArgs(
			sqlmock.AnyArg(), runID, 1, "111", "created", "CREATE", "gid://shopify/Product/1", 5, items[0].Price, "", sqlmock.AnyArg(),
			sqlmock.AnyArg(), runID, 2, "222", "unmatched", "", "", 0, items[1].Price, "no supplier record for EAN 222", sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateBatch(context.Background(), runID, items))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunItemRepository_CreateBatchEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunItemRepository(db, zap.NewNop())

	require.NoError(t, repo.CreateBatch(context.Background(), uuid.New(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildItemInsert_Placeholders(t *testing.T) {
	query, args := buildItemInsert(uuid.New(), 500, make([]domain.ItemResult, 2), time.Now())
	assert.Contains(t, query, "($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11), ($12,")
	assert.Contains(t, query, "$22)")
	require.Len(t, args, 22)
	assert.Equal(t, 501, args[2])
	assert.Equal(t, 502, args[13])
}

func TestLedger_GetLoadsItems(t *testing.T) {
	db, mock := newMock(t)
	ledger := repository.NewLedger(NewRepositories(db, nil))

	id := uuid.New()
	started := time.Date(2026, 10, 1, 6, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sync_runs WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "started_at", "finished_at", "dry_run", "processed", "created", "updated",
			"skipped", "failed", "unmatched", "aborted", "abort_error",
		}).AddRow(id.String(), started, started, false, 1, 0, 1, 0, 0, 0, false, nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM sync_run_items")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"ean", "outcome", "action", "listing_id", "quantity", "price", "error"}).
			AddRow("333", "updated", "UPDATE", "gid://shopify/Product/3", 20, "14.50", ""))

	run, err := ledger.Get(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, run.Items, 1)
	assert.Equal(t, domain.OutcomeUpdated, run.Items[0].Outcome)
	assert.Equal(t, domain.ActionUpdate, run.Items[0].Action)
	assert.True(t, run.Items[0].Price.Equal(decimal.RequireFromString("14.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
