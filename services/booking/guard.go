package booking

import (
	"context"
	"errors"
	"fmt"

	"salonbook/database/repository"
	"salonbook/services/availability"
	"salonbook/services/lock"
	"salonbook/utils"

	"go.uber.org/zap"
)

// guardedWrite re-checks [start, start+duration) against the latest calendar and runs write in the
// same atomic unit. The appointment named by excludeID is ignored so it can be moved within its own day.
// A window that is not free fails with SLOT_TAKEN; no other slot is substituted.
func (e *DefaultBookingEngine) guardedWrite(
	ctx context.Context,
	resourceID, date string,
	start, duration int,
	excludeID string,
	write func(ctx context.Context, tx repository.CalendarTx) error,
) error {
	logger := e.log().With(
		zap.String("resourceId", resourceID),
		zap.String("date", date),
		zap.String("start", utils.FormatClock(start)),
		zap.Int("duration", duration),
	)

	weekday, err := utils.Weekday(date)
	if err != nil {
		return validationError("%v", err)
	}
	window, err := e.Schedules.GetWorkingWindow(ctx, resourceID, weekday)
	if err != nil {
		return fmt.Errorf("failed to load working window: %w", err)
	}
	blocked, err := e.Schedules.GetBlockedTimes(ctx, resourceID, date)
	if err != nil {
		return fmt.Errorf("failed to load blocked times: %w", err)
	}

	if e.Locker != nil {
		release, err := e.Locker.Acquire(ctx, lock.CalendarKey(e.Settings.LockPrefix, resourceID, date))
		if err != nil {
			if errors.Is(err, lock.ErrNotAcquired) {
				logger.Warn("calendar lock contention")
			}
			return fmt.Errorf("failed to lock calendar: %w", err)
		}
		defer release()
	}

	return e.Appointments.RunInCalendar(ctx, resourceID, date, func(ctx context.Context, tx repository.CalendarTx) error {
		booked, err := tx.BookedIntervals(ctx)
		if err != nil {
			return fmt.Errorf("failed to re-read booked intervals: %w", err)
		}
		if excludeID != "" {
			kept := booked[:0:0]
			for _, b := range booked {
				if b.AppointmentID != excludeID {
					kept = append(kept, b)
				}
			}
			booked = kept
		}

		busy := availability.BusyIntervals(booked, blocked, e.Settings.Buffer)
		verdict, err := availability.Fits(window, busy, start, duration)
		if err != nil {
			return validationError("%v", err)
		}
		if verdict != availability.Free {
			logger.Info("conflict guard rejected window", zap.String("reason", string(verdict)))
			return newError(CodeSlotTaken, "%s at %s on %s is no longer available: %s",
				resourceID, utils.FormatClock(start), date, verdict)
		}
		return write(ctx, tx)
	})
}

