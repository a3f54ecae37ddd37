package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/config"
	"salonbook/database/repository"
	"salonbook/models"
	"salonbook/services/availability"
	"salonbook/services/lock"
	"salonbook/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BookingEngine is the surface the HTTP handlers depend on.
type BookingEngine interface {
	Availability(ctx context.Context, q AvailabilityQuery) ([]models.ResourceAvailability, error)
	GroupAvailability(ctx context.Context, q GroupAvailabilityQuery) ([]int, error)
	Book(ctx context.Context, req BookingRequest) (*models.Appointment, error)
	BookSeries(ctx context.Context, req BookingRequest, settings models.RecurringSettings) (*models.SeriesResult, error)
	BookGroup(ctx context.Context, req GroupRequest) (*models.GroupBooking, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	GetByConfirmationCode(ctx context.Context, code string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, to models.AppointmentStatus, reason string) (*models.Appointment, error)
	Reschedule(ctx context.Context, id string, req RescheduleRequest) (*models.Appointment, error)
	CancelSeries(ctx context.Context, seriesRef, reason string) ([]models.Appointment, error)
}

// Notifier receives committed appointment changes. Implementations must not fail the booking.
type Notifier interface {
	Notify(ctx context.Context, eventType models.EventType, appt models.Appointment)
}

// Settings are the tunables of the engine.
type Settings struct {
	Granularity              int
	Buffer                   int
	AutoConfirm              bool
	TaxRate                  decimal.Decimal
	DepositRate              decimal.Decimal
	Currency                 string
	MaxSeriesInstances       int
	DefaultSeriesOccurrences int
	SeriesConcurrency        int
	LockPrefix               string
	Location                 *time.Location
}

func DefaultSettings() Settings {
	return Settings{
		Granularity:              30,
		TaxRate:                  decimal.RequireFromString("0.10"),
		DepositRate:              decimal.Zero,
		Currency:                 "USD",
		MaxSeriesInstances:       365,
		DefaultSeriesOccurrences: 52,
		SeriesConcurrency:        4,
		LockPrefix:               utils.CalendarLockPrefix,
		Location:                 time.UTC,
	}
}

// SettingsFromConfig maps the loaded configuration onto Settings, keeping defaults for unset values.
func SettingsFromConfig(cfg config.Config) Settings {
	s := DefaultSettings()
	if cfg.SlotGranularityMinutes > 0 {
		s.Granularity = cfg.SlotGranularityMinutes
	}
	if cfg.BufferMinutes > 0 {
		s.Buffer = cfg.BufferMinutes
	}
	s.AutoConfirm = cfg.AutoConfirm
	s.TaxRate = decimal.NewFromFloat(cfg.TaxRate)
	s.DepositRate = decimal.NewFromFloat(cfg.DepositRate)
	if cfg.Currency != "" {
		s.Currency = cfg.Currency
	}
	if cfg.MaxSeriesInstances > 0 {
		s.MaxSeriesInstances = cfg.MaxSeriesInstances
	}
	if cfg.DefaultSeriesOccurrences > 0 {
		s.DefaultSeriesOccurrences = cfg.DefaultSeriesOccurrences
	}
	if cfg.SeriesConcurrency > 0 {
		s.SeriesConcurrency = cfg.SeriesConcurrency
	}
	s.Location = config.Location()
	return s
}

// DefaultBookingEngine implements BookingEngine on top of the repositories and a calendar locker.
type DefaultBookingEngine struct {
	Schedules    repository.ScheduleRepository
	Catalogue    repository.CatalogueRepository
	Appointments repository.AppointmentRepository
	Locker       lock.Locker
	Notifier     Notifier
	Settings     Settings
	Logger       *zap.Logger
	Clock        func() time.Time
}

func (e *DefaultBookingEngine) now() time.Time {
	loc := e.Settings.Location
	if loc == nil {
		loc = time.UTC
	}
	if e.Clock != nil {
		return e.Clock().In(loc)
	}
	return time.Now().In(loc)
}

func (e *DefaultBookingEngine) log() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *DefaultBookingEngine) notify(ctx context.Context, eventType models.EventType, appt models.Appointment) {
	if e.Notifier == nil {
		return
	}
	e.Notifier.Notify(ctx, eventType, appt)
}

// pastCutoff returns the earliest start minute still bookable on date. allPast is true when the
// whole date lies before today in the salon time zone.
func (e *DefaultBookingEngine) pastCutoff(date string) (cutoff int, allPast bool) {
	now := e.now()
	today := utils.FormatDate(now)
	switch {
	case date < today:
		return 0, true
	case date == today:
		return now.Hour()*60 + now.Minute(), false
	default:
		return 0, false
	}
}

func (e *DefaultBookingEngine) getResource(ctx context.Context, resourceID string) (*models.Resource, error) {
	res, err := e.Schedules.GetResource(ctx, resourceID)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return nil, newError(CodeResourceNotFound, "resource %s not found", resourceID)
		}
		return nil, fmt.Errorf("failed to load resource %s: %w", resourceID, err)
	}
	return res, nil
}

// calendar is the read-side snapshot of one resource's day.
type calendar struct {
	window *models.WorkingWindow
	busy   []availability.Interval
}

func (e *DefaultBookingEngine) loadCalendar(ctx context.Context, resourceID, date string) (*calendar, error) {
	weekday, err := utils.Weekday(date)
	if err != nil {
		return nil, validationError("%v", err)
	}
	window, err := e.Schedules.GetWorkingWindow(ctx, resourceID, weekday)
	if err != nil {
		return nil, fmt.Errorf("failed to load working window: %w", err)
	}
	if window == nil {
		return &calendar{}, nil
	}
	booked, err := e.Appointments.GetBookedIntervals(ctx, resourceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked intervals: %w", err)
	}
	blocked, err := e.Schedules.GetBlockedTimes(ctx, resourceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocked times: %w", err)
	}
	return &calendar{window: window, busy: availability.BusyIntervals(booked, blocked, e.Settings.Buffer)}, nil
}
