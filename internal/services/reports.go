package services

import (
	"context"
	"errors"
	"fmt"

	"connectibles/internal/apperr"
	"connectibles/internal/models"
	"connectibles/internal/moderation"
	"connectibles/internal/observability"
	"connectibles/internal/repositories"
)

// ReportService files reports and escalates on the running count.
type ReportService struct {
	users    repositories.UserRepository
	reports  repositories.ReportRepository
	notifier Notifier
}

func NewReportService(users repositories.UserRepository, reports repositories.ReportRepository, notifier Notifier) *ReportService {
	return &ReportService{users: users, reports: reports, notifier: notifier}
}

type ReportResult struct {
	Count  int    `json:"count"`
	Action string `json:"action"`
}

// ReportUser records one report per (reporter, target) and applies the
// escalation for the new total. Storage runs in one transaction, so a failure
// leaves no report behind and the reporter may retry.
func (s *ReportService) ReportUser(ctx context.Context, reporterID, targetID int64, reason *string) (ReportResult, error) {
	if reporterID == targetID {
		return ReportResult{}, apperr.SelfReport
	}
	if _, err := loadUser(ctx, s.users, targetID); err != nil {
		return ReportResult{}, err
	}
	filed, err := s.reports.FileReport(ctx, reporterID, targetID, reason, moderation.BanThreshold)
	switch {
	case errors.Is(err, repositories.ErrAlreadyReported):
		return ReportResult{}, apperr.AlreadyReported
	case errors.Is(err, repositories.ErrUserNotFound):
		return ReportResult{}, apperr.UserNotFound
	case err != nil:
		return ReportResult{}, fmt.Errorf("file report: %w", err)
	}

	// The report, count and ban are committed; only side effects remain.
	count := filed.Count
	level := moderation.Escalate(count)
	switch level {
	case moderation.GentleWarning, moderation.StrongWarning, moderation.FinalWarning:
		s.notifier.Notify(targetID, models.NotificationWarning, level.Message(), nil)
	case moderation.Ban:
		s.notifier.Notify(targetID, models.NotificationBan, level.Message(), nil)
		observability.Emit(ctx, observability.RouteUserBanned, "moderation", "user_banned", "", map[string]any{
			"user_id":      targetID,
			"report_count": count,
		})
	}
	observability.IncReport(level.String())
	return ReportResult{Count: count, Action: level.String()}, nil
}
