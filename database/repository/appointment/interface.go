package appointmentRepo

import (
	"context"
	"errors"

	"salonbook/models"
)

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrVersionConflict = errors.New("appointment was modified concurrently")
)

// CalendarTx is the view of one resource's day inside an atomic calendar unit.
// Reads observe writes made earlier in the same unit.
type CalendarTx interface {
	// BookedIntervals returns the occupying intervals of the calendar.
	BookedIntervals(ctx context.Context) ([]models.BookedInterval, error)
	Insert(ctx context.Context, appt *models.Appointment) error
	// Move rewrites an existing appointment onto this calendar, guarded by its version.
	Move(ctx context.Context, appt *models.Appointment, expectedVersion int) error
}

// AppointmentRepository persists appointments. Writes that create or move occupancy go through
// RunInCalendar so the overlap check and the write commit together.
type AppointmentRepository interface {
	// RunInCalendar runs fn atomically with respect to every other unit on the same resource and date.
	// Nothing fn wrote is kept when it returns an error.
	RunInCalendar(ctx context.Context, resourceID, date string, fn func(ctx context.Context, tx CalendarTx) error) error
	GetBookedIntervals(ctx context.Context, resourceID, date string) ([]models.BookedInterval, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	GetByConfirmationCode(ctx context.Context, code string) (*models.Appointment, error)
	// SaveStatus persists status fields when the stored version still equals expectedVersion.
	SaveStatus(ctx context.Context, appt *models.Appointment, expectedVersion int) error
	DeleteMany(ctx context.Context, ids []string) error
	ListBySeries(ctx context.Context, seriesRef string) ([]models.Appointment, error)
	ListByGroup(ctx context.Context, groupRef string) ([]models.Appointment, error)
}
