package notification

import (
	"context"
	"errors"
	"time"

	"salonbook/models"
	"salonbook/services/events"
	"salonbook/services/tasks"
	"salonbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderQueue is the part of *asynq.Client the dispatcher needs.
type ReminderQueue interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher publishes committed appointment changes and schedules customer reminders.
// It never returns an error to the booking engine; failures are logged.
type Dispatcher struct {
	Publisher events.Publisher
	Queue     ReminderQueue
	LeadTime  time.Duration
	Location  *time.Location
	Clock     func() time.Time
	Logger    *zap.Logger
}

func (d *Dispatcher) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

func (d *Dispatcher) Notify(ctx context.Context, eventType models.EventType, appt models.Appointment) {
	logger := d.Logger.With(zap.String("event", string(eventType)), zap.String("appointmentId", appt.ID))

	if d.Publisher != nil {
		ev := events.AppointmentEvent(eventType, appt, d.now())
		if err := d.Publisher.Publish(ctx, string(eventType), ev); err != nil {
			logger.Error("failed to publish appointment event", zap.Error(err))
		}
	}

	if eventType == models.EventAppointmentStatus || !appt.Status.Occupying() {
		return
	}
	d.scheduleReminder(ctx, logger, appt)
}

func (d *Dispatcher) scheduleReminder(ctx context.Context, logger *zap.Logger, appt models.Appointment) {
	if d.Queue == nil {
		return
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	startsAt, err := utils.DateAt(appt.Date, appt.Start, loc)
	if err != nil {
		logger.Error("cannot compute reminder time", zap.Error(err))
		return
	}
	fireAt := startsAt.Add(-d.LeadTime)
	if !fireAt.After(d.now()) {
		logger.Debug("reminder time already passed", zap.Time("fireAt", fireAt))
		return
	}

	task, opts, err := tasks.NewReminderTask(models.ReminderPayload{
		AppointmentID:    appt.ID,
		ResourceID:       appt.ResourceID,
		Customer:         appt.Customer,
		Date:             appt.Date,
		StartTime:        utils.FormatClock(appt.Start),
		ConfirmationCode: appt.ConfirmationCode,
		FireAt:           fireAt,
	})
	if err != nil {
		logger.Error("failed to build reminder task", zap.Error(err))
		return
	}
	if _, err := d.Queue.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return
		}
		logger.Error("failed to enqueue reminder", zap.Error(err))
		return
	}
	logger.Info("reminder scheduled", zap.Time("fireAt", fireAt))
}
