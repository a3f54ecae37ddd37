package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"salonbook/models"

	"github.com/hibiken/asynq"
)

const TypeAppointmentReminder = "appointment:reminder"

// NewReminderTask builds a reminder task for one appointment. The task id covers the appointment,
// its resource, date and fire time, so any reschedule enqueues a fresh task.
func NewReminderTask(payload models.ReminderPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(payload.FireAt),
		asynq.TaskID(ReminderTaskID(payload)),
		asynq.MaxRetry(5),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

// ReminderTaskID is the dedupe key for a reminder.
func ReminderTaskID(p models.ReminderPayload) string {
	return fmt.Sprintf("reminder:%s:%s:%s:%d", p.AppointmentID, p.ResourceID, p.Date, p.FireAt.Unix())
}

func ParseReminderTask(task *asynq.Task) (models.ReminderPayload, error) {
	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid reminder payload: %w", err)
	}
	if p.AppointmentID == "" {
		return p, fmt.Errorf("reminder payload has no appointmentId")
	}
	return p, nil
}
