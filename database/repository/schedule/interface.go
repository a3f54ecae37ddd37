package scheduleRepo

import (
	"context"
	"errors"
	"time"

	"salonbook/models"
)

var ErrNotFound = errors.New("resource not found")

// ScheduleRepository reads resources, their weekly working windows and one-off blocked times.
type ScheduleRepository interface {
	GetResource(ctx context.Context, resourceID string) (*models.Resource, error)
	ListResources(ctx context.Context, salonID string) ([]models.Resource, error)
	// GetWorkingWindow returns nil, nil when the resource does not work on that weekday.
	GetWorkingWindow(ctx context.Context, resourceID string, weekday time.Weekday) (*models.WorkingWindow, error)
	GetBlockedTimes(ctx context.Context, resourceID, date string) ([]models.BlockedTime, error)
	EnsureIndexes() error
}
