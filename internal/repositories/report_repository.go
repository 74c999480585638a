package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"connectibles/internal/models"
)

var ErrAlreadyReported = errors.New("user already reported by reporter")

// uniqueViolation is the Postgres SQLSTATE for a UNIQUE constraint failure.
const uniqueViolation = "23505"

// FiledReport is the committed outcome of one report.
type FiledReport struct {
	Report models.UserReport
	Count  int
	Banned bool
}

// ReportRepository stores user reports. Reports are never updated.
type ReportRepository interface {
	FileReport(ctx context.Context, reporterID int64, reportedID int64, reason *string, banAt int) (FiledReport, error)
}

type ReportRepo struct {
	db *sqlx.DB
}

func NewReportRepo(db *sqlx.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// FileReport inserts the report, counts every report against reportedID and
// bans the user once the count reaches banAt, all in one transaction. A
// duplicate (reporter, reported) pair yields ErrAlreadyReported and nothing
// is written.
func (r *ReportRepo) FileReport(ctx context.Context, reporterID int64, reportedID int64, reason *string, banAt int) (filed FiledReport, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return FiledReport{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var exists bool
	if err = tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM user_reports WHERE reporter_id=$1 AND reported_user_id=$2)`, reporterID, reportedID); err != nil {
		return FiledReport{}, fmt.Errorf("check report: %w", err)
	}
	if exists {
		return FiledReport{}, ErrAlreadyReported
	}

	if err = tx.GetContext(ctx, &filed.Report, `INSERT INTO user_reports (reporter_id, reported_user_id, reason) VALUES ($1, $2, $3)
        RETURNING id, reporter_id, reported_user_id, reason, created_at`, reporterID, reportedID, reason); err != nil {
		// lost the race against a concurrent report from the same reporter
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return FiledReport{}, ErrAlreadyReported
		}
		return FiledReport{}, fmt.Errorf("insert report: %w", err)
	}

	if err = tx.GetContext(ctx, &filed.Count, `SELECT COUNT(*) FROM user_reports WHERE reported_user_id=$1`, reportedID); err != nil {
		return FiledReport{}, fmt.Errorf("count reports: %w", err)
	}

	if filed.Count >= banAt {
		res, execErr := tx.ExecContext(ctx, `UPDATE users SET is_banned=TRUE WHERE id=$1`, reportedID)
		if execErr != nil {
			return FiledReport{}, fmt.Errorf("ban user: %w", execErr)
		}
		if err = requireRow(res, ErrUserNotFound); err != nil {
			return FiledReport{}, err
		}
		filed.Banned = true
	}

	if err = tx.Commit(); err != nil {
		return FiledReport{}, err
	}
	return filed, nil
}
