package models

import (
	"errors"
	"time"
)

// Resource is a bookable stylist, chair or room.
type Resource struct {
	ID        string    `bson:"id" json:"id"`
	SalonID   string    `bson:"salonId" json:"salonId"`
	Name      string    `bson:"name" json:"name"`
	Kind      string    `bson:"kind,omitempty" json:"kind,omitempty"` // "staff", "chair", "room"
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// WorkingWindow is a resource's recurring weekly availability for one weekday.
// Start, End and the break bounds are minutes from midnight.
type WorkingWindow struct {
	ResourceID string `bson:"resourceId" json:"resourceId"`
	DayOfWeek  int    `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday
	Start      int    `bson:"start" json:"start"`
	End        int    `bson:"end" json:"end"`
	BreakStart *int   `bson:"breakStart,omitempty" json:"breakStart,omitempty"`
	BreakEnd   *int   `bson:"breakEnd,omitempty" json:"breakEnd,omitempty"`
}

var (
	ErrWindowBounds = errors.New("working window start must be before end")
	ErrBreakBounds  = errors.New("break must lie inside the working window")
)

func (w WorkingWindow) HasBreak() bool {
	return w.BreakStart != nil && w.BreakEnd != nil
}

// Validate checks 0 <= start < end <= 1440 and that a break, if any, lies within [start, end).
func (w WorkingWindow) Validate() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return errors.New("day of week must be between 0 and 6")
	}
	if w.Start < 0 || w.End > 24*60 || w.Start >= w.End {
		return ErrWindowBounds
	}
	if w.BreakStart == nil && w.BreakEnd == nil {
		return nil
	}
	if !w.HasBreak() {
		return ErrBreakBounds
	}
	if *w.BreakStart >= *w.BreakEnd || *w.BreakStart < w.Start || *w.BreakEnd > w.End {
		return ErrBreakBounds
	}
	return nil
}

type BlockedType string

const (
	BlockedVacation    BlockedType = "vacation"
	BlockedSick        BlockedType = "sick"
	BlockedTraining    BlockedType = "training"
	BlockedMeeting     BlockedType = "meeting"
	BlockedBreak       BlockedType = "break"
	BlockedMaintenance BlockedType = "maintenance"
	BlockedOther       BlockedType = "other"
)

// BlockedTime removes a one-off range from a resource's day.
type BlockedTime struct {
	ID         string      `bson:"id" json:"id"`
	ResourceID string      `bson:"resourceId" json:"resourceId"`
	Date       string      `bson:"date" json:"date"`
	Start      int         `bson:"start" json:"start"`
	End        int         `bson:"end" json:"end"`
	Type       BlockedType `bson:"type" json:"type"`
	Reason     string      `bson:"reason,omitempty" json:"reason,omitempty"`
}

// BookedInterval is the occupied range of an appointment on a resource's calendar.
type BookedInterval struct {
	ResourceID    string            `bson:"resourceId" json:"resourceId"`
	Date          string            `bson:"date" json:"date"`
	Start         int               `bson:"start" json:"start"`
	End           int               `bson:"end" json:"end"`
	AppointmentID string            `bson:"id" json:"appointmentId"`
	Status        AppointmentStatus `bson:"status" json:"status"`
}

// Overlaps reports whether [start, end) intersects the interval. Touching ranges do not overlap.
func (b BookedInterval) Overlaps(start, end int) bool {
	return start < b.End && end > b.Start
}
