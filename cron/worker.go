package cron

import (
	"context"
	"errors"
	"fmt"

	"salonbook/config"
	"salonbook/database/repository"
	"salonbook/models"
	"salonbook/services/events"
	"salonbook/services/tasks"
	"salonbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RoutingReminderDue is the routing key used when a reminder fires.
const RoutingReminderDue = "appointment.reminder_due"

// ReminderLookup is the read access the reminder handler needs.
type ReminderLookup interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
}

// StartReminderWorker runs the asynq server that processes appointment reminders.
// The returned server must be shut down by the caller.
func StartReminderWorker(appointments ReminderLookup, publisher events.Publisher, logger *zap.Logger) (*asynq.Server, error) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAppointmentReminder, HandleReminder(appointments, publisher, logger))

	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start reminder worker: %w", err)
	}
	logger.Info("reminder worker started", zap.String("redis", redisOpts.Addr), zap.Int("db", redisOpts.DB))
	return srv, nil
}

// HandleReminder loads the appointment behind a reminder and publishes a reminder_due event if the
// appointment still occupies the slot the reminder was scheduled for.
func HandleReminder(appointments ReminderLookup, publisher events.Publisher, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseReminderTask(task)
		if err != nil {
			logger.Error("dropping reminder", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		log := logger.With(zap.String("appointmentId", p.AppointmentID))

		appt, err := appointments.GetByID(ctx, p.AppointmentID)
		if err != nil {
			if errors.Is(err, repository.ErrAppointmentNotFound) {
				log.Info("reminder for deleted appointment skipped")
				return nil
			}
			return err
		}
		if !appt.Status.Occupying() {
			log.Info("reminder skipped", zap.String("status", string(appt.Status)))
			return nil
		}
		if appt.Date != p.Date || utils.FormatClock(appt.Start) != p.StartTime || appt.ResourceID != p.ResourceID {
			log.Info("reminder superseded by reschedule")
			return nil
		}

		log.Info("reminder due",
			zap.String("date", appt.Date),
			zap.String("start", p.StartTime),
			zap.String("customerId", appt.Customer.CustomerID),
		)
		if publisher == nil {
			return nil
		}
		return publisher.Publish(ctx, RoutingReminderDue, p)
	}
}
