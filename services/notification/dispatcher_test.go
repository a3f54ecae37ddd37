package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonbook/models"
	"salonbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type fakePublisher struct {
	keys []string
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.keys = append(p.keys, routingKey)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

type fakeQueue struct {
	tasks []*asynq.Task
	ids   map[string]bool
	err   error
}

// EnqueueContext rejects a repeated task id the way the asynq client does.
func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	var id string
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt {
			id, _ = o.Value().(string)
		}
	}
	if id != "" {
		if q.ids == nil {
			q.ids = make(map[string]bool)
		}
		if q.ids[id] {
			return nil, asynq.ErrTaskIDConflict
		}
		q.ids[id] = true
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: id}, nil
}

func newDispatcher(pub *fakePublisher, queue *fakeQueue) *Dispatcher {
	return &Dispatcher{
		Publisher: pub,
		Queue:     queue,
		LeadTime:  24 * time.Hour,
		Location:  time.UTC,
		Clock:     func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) },
		Logger:    zap.NewNop(),
	}
}

func appointment(date string, start int, status models.AppointmentStatus) models.Appointment {
	return models.Appointment{ID: "appt-1", ResourceID: "stylist-a", Date: date, Start: start, End: start + 30, Status: status}
}

func TestNotifyCreatedSchedulesReminder(t *testing.T) {
	pub, queue := &fakePublisher{}, &fakeQueue{}
	d := newDispatcher(pub, queue)

	d.Notify(context.Background(), models.EventAppointmentCreated, appointment("2024-06-03", 600, models.StatusPending))

	if len(pub.keys) != 1 || pub.keys[0] != string(models.EventAppointmentCreated) {
		t.Fatalf("unexpected published keys %v", pub.keys)
	}
	if len(queue.tasks) != 1 {
		t.Fatalf("expected one reminder, got %d", len(queue.tasks))
	}
	p, err := tasks.ParseReminderTask(queue.tasks[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	if !p.FireAt.Equal(want) || p.StartTime != "10:00" {
		t.Fatalf("unexpected reminder %+v", p)
	}
}

func TestNotifyRescheduleToAnotherResource(t *testing.T) {
	pub, queue := &fakePublisher{}, &fakeQueue{}
	d := newDispatcher(pub, queue)

	appt := appointment("2024-06-03", 600, models.StatusConfirmed)
	d.Notify(context.Background(), models.EventAppointmentCreated, appt)
	appt.ResourceID = "stylist-b"
	d.Notify(context.Background(), models.EventAppointmentRescheduled, appt)

	if len(queue.tasks) != 2 {
		t.Fatalf("expected a second reminder after the move, got %d", len(queue.tasks))
	}
	p, err := tasks.ParseReminderTask(queue.tasks[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ResourceID != "stylist-b" || p.StartTime != "10:00" {
		t.Fatalf("unexpected reminder %+v", p)
	}

	d.Notify(context.Background(), models.EventAppointmentRescheduled, appt)
	if len(queue.tasks) != 2 {
		t.Fatalf("an unchanged appointment must not enqueue twice, got %d", len(queue.tasks))
	}
}

func TestNotifySkipsReminder(t *testing.T) {
	cases := []struct {
		name  string
		event models.EventType
		appt  models.Appointment
	}{
		{"status change", models.EventAppointmentStatus, appointment("2024-06-03", 600, models.StatusConfirmed)},
		{"cancelled", models.EventAppointmentRescheduled, appointment("2024-06-03", 600, models.StatusCancelled)},
		{"lead time already passed", models.EventAppointmentCreated, appointment("2024-06-02", 420, models.StatusPending)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pub, queue := &fakePublisher{}, &fakeQueue{}
			newDispatcher(pub, queue).Notify(context.Background(), tc.event, tc.appt)
			if len(queue.tasks) != 0 {
				t.Fatalf("expected no reminder, got %d", len(queue.tasks))
			}
			if len(pub.keys) != 1 {
				t.Fatalf("the event should still be published, got %v", pub.keys)
			}
		})
	}
}

func TestNotifySwallowsFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	queue := &fakeQueue{err: errors.New("redis down")}
	d := newDispatcher(pub, queue)

	d.Notify(context.Background(), models.EventAppointmentCreated, appointment("2024-06-03", 600, models.StatusPending))

	if len(pub.keys) != 1 {
		t.Fatalf("expected a publish attempt, got %v", pub.keys)
	}
}

func TestNotifyWithoutCollaborators(t *testing.T) {
	d := &Dispatcher{Logger: zap.NewNop()}
	d.Notify(context.Background(), models.EventAppointmentCreated, appointment("2024-06-03", 600, models.StatusPending))
}
