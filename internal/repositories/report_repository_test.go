package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	reportExistsSQL = regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM user_reports WHERE reporter_id=$1 AND reported_user_id=$2)`)
	reportInsertSQL = regexp.QuoteMeta(`INSERT INTO user_reports (reporter_id, reported_user_id, reason)`)
	reportCountSQL  = regexp.QuoteMeta(`SELECT COUNT(*) FROM user_reports WHERE reported_user_id=$1`)
	banUserSQL      = regexp.QuoteMeta(`UPDATE users SET is_banned=TRUE WHERE id=$1`)
)

func reportRow(id int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "reporter_id", "reported_user_id", "reason", "created_at"}).
		AddRow(id, int64(1), int64(2), nil, time.Now())
}

func TestFileReportCommitsBelowThreshold(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(reportExistsSQL).WithArgs(int64(1), int64(2)).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(reportInsertSQL).WithArgs(int64(1), int64(2), sqlmock.AnyArg()).WillReturnRows(reportRow(7))
	mock.ExpectQuery(reportCountSQL).WithArgs(int64(2)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	filed, err := NewReportRepo(db).FileReport(context.Background(), 1, 2, nil, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(7), filed.Report.ID)
	assert.Equal(t, 3, filed.Count)
	assert.False(t, filed.Banned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileReportBansInsideTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(reportExistsSQL).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(reportInsertSQL).WillReturnRows(reportRow(10))
	mock.ExpectQuery(reportCountSQL).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectExec(banUserSQL).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	filed, err := NewReportRepo(db).FileReport(context.Background(), 1, 2, nil, 10)

	require.NoError(t, err)
	assert.True(t, filed.Banned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileReportBanFailureRollsBackReport(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(reportExistsSQL).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(reportInsertSQL).WillReturnRows(reportRow(10))
	mock.ExpectQuery(reportCountSQL).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectExec(banUserSQL).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err := NewReportRepo(db).FileReport(context.Background(), 1, 2, nil, 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ban user")
	// rollback instead of commit: the report row is gone and the reporter can retry
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileReportDuplicate(t *testing.T) {
	t.Run("existing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(reportExistsSQL).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := NewReportRepo(db).FileReport(context.Background(), 1, 2, nil, 10)

		assert.ErrorIs(t, err, ErrAlreadyReported)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent insert", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(reportExistsSQL).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(reportInsertSQL).WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
		mock.ExpectRollback()

		_, err := NewReportRepo(db).FileReport(context.Background(), 1, 2, nil, 10)

		assert.ErrorIs(t, err, ErrAlreadyReported)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFileReportBanMissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(reportExistsSQL).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(reportInsertSQL).WillReturnRows(reportRow(12))
	mock.ExpectQuery(reportCountSQL).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectExec(banUserSQL).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := NewReportRepo(db).FileReport(context.Background(), 1, 2, nil, 10)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
