package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/database/repository"
	"salonbook/models"
	"salonbook/utils"

	"go.uber.org/zap"
)

// allowedTransitions lists the forward moves; cancelled and no_show are reachable from any non-terminal status.
var allowedTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPending:   {models.StatusConfirmed},
	models.StatusConfirmed: {models.StatusCheckedIn},
	models.StatusCheckedIn: {models.StatusCompleted},
}

// CanTransition reports whether an appointment may move from one status to another.
func CanTransition(from, to models.AppointmentStatus) bool {
	if from.Terminal() || !to.Valid() {
		return false
	}
	if to == models.StatusCancelled || to == models.StatusNoShow {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func applyStatus(appt *models.Appointment, to models.AppointmentStatus, reason string, at time.Time) {
	appt.Status = to
	appt.UpdatedAt = at
	switch to {
	case models.StatusConfirmed:
		appt.ConfirmedAt = &at
	case models.StatusCheckedIn:
		appt.CheckedInAt = &at
	case models.StatusCompleted:
		appt.CompletedAt = &at
	case models.StatusCancelled:
		appt.CancelledAt = &at
		appt.CancellationReason = reason
	case models.StatusNoShow:
		appt.NoShowAt = &at
	}
}

func (e *DefaultBookingEngine) loadAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := e.Appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, newError(CodeAppointmentNotFound, "appointment %s not found", id)
		}
		return nil, fmt.Errorf("failed to load appointment %s: %w", id, err)
	}
	return appt, nil
}

func (e *DefaultBookingEngine) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	return e.loadAppointment(ctx, id)
}

func (e *DefaultBookingEngine) GetByConfirmationCode(ctx context.Context, code string) (*models.Appointment, error) {
	appt, err := e.Appointments.GetByConfirmationCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, newError(CodeAppointmentNotFound, "no appointment with confirmation code %s", code)
		}
		return nil, fmt.Errorf("failed to load appointment by code: %w", err)
	}
	return appt, nil
}

// UpdateStatus moves an appointment through its lifecycle. Cancelled and no_show free the interval
// at once because only occupying statuses are read back by the resolver and the guard.
func (e *DefaultBookingEngine) UpdateStatus(ctx context.Context, id string, to models.AppointmentStatus, reason string) (*models.Appointment, error) {
	if !to.Valid() {
		return nil, validationError("unknown status %q", to)
	}

	const maxAttempts = 3
	for attempt := 1; ; attempt++ {
		appt, err := e.loadAppointment(ctx, id)
		if err != nil {
			return nil, err
		}
		from := appt.Status
		if !CanTransition(from, to) {
			return nil, newError(CodeInvalidTransition, "cannot change appointment %s from %s to %s", id, from, to)
		}

		expected := appt.Version
		applyStatus(appt, to, reason, e.now())
		err = e.Appointments.SaveStatus(ctx, appt, expected)
		if errors.Is(err, repository.ErrVersionConflict) && attempt < maxAttempts {
			e.log().Debug("status update raced, retrying", zap.String("appointmentId", id), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save status: %w", err)
		}

		e.log().Info("appointment status changed",
			zap.String("appointmentId", id),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		e.notify(ctx, models.EventAppointmentStatus, *appt)
		return appt, nil
	}
}

// RescheduleRequest moves an appointment. An empty ResourceID keeps the current resource.
type RescheduleRequest struct {
	Date       string
	Start      int
	ResourceID string
}

// Reschedule moves a pending or confirmed appointment through the conflict guard on the target
// calendar. The appointment's own interval is ignored so it may shift within its current slot.
func (e *DefaultBookingEngine) Reschedule(ctx context.Context, id string, req RescheduleRequest) (*models.Appointment, error) {
	if _, err := utils.ParseDate(req.Date); err != nil {
		return nil, validationError("%v", err)
	}
	if req.Start < 0 || req.Start >= 24*60 {
		return nil, validationError("start time must be within the day")
	}

	appt, err := e.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.StatusPending && appt.Status != models.StatusConfirmed {
		return nil, newError(CodeInvalidTransition, "cannot reschedule a %s appointment", appt.Status)
	}
	resourceID := req.ResourceID
	if resourceID == "" {
		resourceID = appt.ResourceID
	}
	if resourceID != appt.ResourceID {
		if _, err := e.getResource(ctx, resourceID); err != nil {
			return nil, err
		}
	}
	if err := e.rejectPast(req.Date, req.Start); err != nil {
		return nil, err
	}

	duration := appt.End - appt.Start
	if req.Start+duration > 24*60 {
		return nil, validationError("appointment would run past midnight")
	}
	delta := req.Start - appt.Start
	moved := *appt
	moved.ResourceID = resourceID
	moved.Date = req.Date
	moved.Start = req.Start
	moved.End = req.Start + duration
	moved.UpdatedAt = e.now()
	moved.Services = make([]models.AppointmentService, len(appt.Services))
	for i, item := range appt.Services {
		item.Start += delta
		item.End += delta
		moved.Services[i] = item
	}

	err = e.guardedWrite(ctx, resourceID, req.Date, req.Start, duration, appt.ID, func(ctx context.Context, tx repository.CalendarTx) error {
		return tx.Move(ctx, &moved, appt.Version)
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, newError(CodeInvalidTransition, "appointment %s changed while rescheduling", id)
		}
		return nil, err
	}

	e.log().Info("appointment rescheduled",
		zap.String("appointmentId", id),
		zap.String("fromDate", appt.Date),
		zap.String("toDate", moved.Date),
		zap.String("start", utils.FormatClock(moved.Start)),
	)
	e.notify(ctx, models.EventAppointmentRescheduled, moved)
	return &moved, nil
}

// CancelSeries cancels every instance of a series that has not reached a terminal status.
func (e *DefaultBookingEngine) CancelSeries(ctx context.Context, seriesRef, reason string) ([]models.Appointment, error) {
	appts, err := e.Appointments.ListBySeries(ctx, seriesRef)
	if err != nil {
		return nil, fmt.Errorf("failed to list series %s: %w", seriesRef, err)
	}
	if len(appts) == 0 {
		return nil, newError(CodeAppointmentNotFound, "series %s not found", seriesRef)
	}

	cancelled := []models.Appointment{}
	for _, a := range appts {
		if a.Status.Terminal() {
			continue
		}
		updated, err := e.UpdateStatus(ctx, a.ID, models.StatusCancelled, reason)
		if err != nil {
			if CodeOf(err) == CodeInvalidTransition {
				continue
			}
			return cancelled, err
		}
		cancelled = append(cancelled, *updated)
	}
	return cancelled, nil
}
