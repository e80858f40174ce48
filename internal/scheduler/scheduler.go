// Package scheduler runs the daily consumable inspection scan.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"vehicle-alert-service/internal/models"
	"vehicle-alert-service/internal/producer"
)

// dueSoonWindow is how far ahead the scan looks, inclusive.
const dueSoonWindow = 7 * 24 * time.Hour

// UserDirectory lists every known user.
type UserDirectory interface {
	GetAllUserIDs(ctx context.Context) ([]string, error)
}

// OverviewSource yields a user's consumable overview.
type OverviewSource interface {
	GetConsumableOverview(ctx context.Context, userID string) (models.ConsumableOverview, error)
}

// Scheduler pushes a due-soon alert to every user whose nearest replacement
// date falls within the next seven days. It runs once per day at midnight in
// the configured time zone.
type Scheduler struct {
	users      UserDirectory
	overviews  OverviewSource
	dispatcher producer.Dispatcher
	location   *time.Location
	logger     *logrus.Logger
}

// New constructs a Scheduler running in the named time zone.
func New(users UserDirectory, overviews OverviewSource, dispatcher producer.Dispatcher, timezone string, logger *logrus.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %s: %w", timezone, err)
	}
	return &Scheduler{
		users:      users,
		overviews:  overviews,
		dispatcher: dispatcher,
		location:   loc,
		logger:     logger,
	}, nil
}

// Run sleeps until each next local midnight and then scans all users. It
// returns when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Infof("Consumable inspection scheduler started: tz=%s", s.location)
	for {
		now := time.Now().In(s.location)
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location).AddDate(0, 0, 1)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Infof("Consumable inspection scheduler stopped")
			return
		case <-timer.C:
			s.RunOnce(ctx, time.Now().In(s.location))
		}
	}
}

// RunOnce scans every user once, using today as the window start. A failure
// or skip for one user never aborts the rest.
func (s *Scheduler) RunOnce(ctx context.Context, today time.Time) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.location)
	windowEnd := today.Add(dueSoonWindow)

	userIDs, err := s.users.GetAllUserIDs(ctx)
	if err != nil {
		s.logger.Errorf("Failed to list users for inspection scan: %v", err)
		return
	}
	s.logger.Infof("Inspection scan started: users=%d", len(userIDs))

	for _, userID := range userIDs {
		overview, err := s.overviews.GetConsumableOverview(ctx, userID)
		if err != nil {
			s.logger.Warnf("Failed to load consumable overview for user_id=%s: %v", userID, err)
			continue
		}
		if overview.NextDueDate == "" {
			continue
		}

		dueDate, err := time.ParseInLocation("20060102", overview.NextDueDate, s.location)
		if err != nil {
			s.logger.Warnf("Unparsable next due date for user_id=%s: %q", userID, overview.NextDueDate)
			continue
		}

		if dueDate.Before(today) || dueDate.After(windowEnd) {
			continue
		}

		a := models.Alert{
			ID:        uuid.NewString(),
			UserID:    userID,
			Type:      models.TypeConsumableDueSoon,
			Title:     "차량점검",
			Message:   "가장 가까운 교체 예정일: " + models.FormatShortDate(overview.NextDueDate),
			CreatedAt: time.Now(),
		}
		s.dispatcher.Push(ctx, a)
	}
}
