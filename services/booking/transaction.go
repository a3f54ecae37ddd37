package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonbook/database/repository"
	"salonbook/models"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ServiceRequest struct {
	ServiceID string `json:"serviceId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// BookingRequest is a request to book one appointment.
type BookingRequest struct {
	ResourceID  string
	Date        string
	Start       int
	Services    []ServiceRequest
	Customer    models.CustomerInfo
	Notes       string
	AutoConfirm *bool

	// Filled in by the engine and the series and group coordinators.
	salonID   string
	seriesRef string
	groupRef  string
}

func (r BookingRequest) validate() error {
	if strings.TrimSpace(r.ResourceID) == "" {
		return validationError("resourceId is required")
	}
	if _, err := utils.ParseDate(r.Date); err != nil {
		return validationError("%v", err)
	}
	if r.Start < 0 || r.Start >= 24*60 {
		return validationError("start time must be within the day")
	}
	if strings.TrimSpace(r.Customer.CustomerID) == "" {
		return validationError("customer.customerId is required")
	}
	return validateServices(r.Services)
}

func validateServices(services []ServiceRequest) error {
	if len(services) == 0 {
		return validationError("at least one service is required")
	}
	for _, s := range services {
		if strings.TrimSpace(s.ServiceID) == "" {
			return validationError("serviceId is required")
		}
		if s.Quantity < 0 {
			return validationError("quantity for %s must not be negative", s.ServiceID)
		}
	}
	return nil
}

// resolveSelections looks the requested services up in the catalogue.
func (e *DefaultBookingEngine) resolveSelections(ctx context.Context, services []ServiceRequest) ([]models.ServiceSelection, error) {
	ids := make([]string, len(services))
	for i, s := range services {
		ids[i] = s.ServiceID
	}
	found, err := e.Catalogue.GetServices(ctx, ids)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, validationError("%v", err)
		}
		return nil, fmt.Errorf("failed to load services: %w", err)
	}

	selections := make([]models.ServiceSelection, len(services))
	for i, svc := range found {
		if svc.DurationMinutes <= 0 {
			return nil, validationError("service %s has no duration", svc.ID)
		}
		selections[i] = models.ServiceSelection{
			ServiceID:           svc.ID,
			Name:                svc.Name,
			DurationMinutes:     svc.DurationMinutes,
			Price:               svc.Price,
			Quantity:            services[i].Quantity,
			SlotIntervalMinutes: svc.SlotIntervalMinutes,
		}
	}
	return selections, nil
}

func (e *DefaultBookingEngine) granularityFor(selections []models.ServiceSelection) int {
	if len(selections) > 0 && selections[0].SlotIntervalMinutes > 0 {
		return selections[0].SlotIntervalMinutes
	}
	if e.Settings.Granularity > 0 {
		return e.Settings.Granularity
	}
	return 30
}

func (e *DefaultBookingEngine) rejectPast(date string, start int) error {
	cutoff, allPast := e.pastCutoff(date)
	if allPast || start < cutoff {
		return validationError("cannot book %s %s in the past", date, utils.FormatClock(start))
	}
	return nil
}

// Book validates the request, resolves its services and commits one appointment through the guard.
func (e *DefaultBookingEngine) Book(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := e.rejectPast(req.Date, req.Start); err != nil {
		return nil, err
	}
	res, err := e.getResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	req.salonID = res.SalonID
	selections, err := e.resolveSelections(ctx, req.Services)
	if err != nil {
		return nil, err
	}
	appt, err := e.bookResolved(ctx, req, selections)
	if err != nil {
		return nil, err
	}
	e.notify(ctx, models.EventAppointmentCreated, *appt)
	return appt, nil
}

// bookResolved runs the transactional steps for an already validated request.
// It does not notify; callers decide when the appointment is final.
func (e *DefaultBookingEngine) bookResolved(ctx context.Context, req BookingRequest, selections []models.ServiceSelection) (*models.Appointment, error) {
	logger := e.log().With(
		zap.String("resourceId", req.ResourceID),
		zap.String("date", req.Date),
		zap.String("start", utils.FormatClock(req.Start)),
	)

	duration := models.TotalDuration(selections)
	if duration <= 0 {
		return nil, validationError("selected services have no duration")
	}
	if req.Start+duration > 24*60 {
		return nil, validationError("appointment would run past midnight")
	}

	status := models.StatusPending
	autoConfirm := e.Settings.AutoConfirm
	if req.AutoConfirm != nil {
		autoConfirm = *req.AutoConfirm
	}
	now := e.now()
	if autoConfirm {
		status = models.StatusConfirmed
	}

	pricer := Pricer{TaxRate: e.Settings.TaxRate, DepositRate: e.Settings.DepositRate, Currency: e.Settings.Currency}
	items, price := pricer.Quote(req.Start, selections)

	appt := &models.Appointment{
		ID:               uuid.New().String(),
		SalonID:          req.salonID,
		ResourceID:       req.ResourceID,
		Customer:         req.Customer,
		Date:             req.Date,
		Start:            req.Start,
		End:              req.Start + duration,
		Status:           status,
		ConfirmationCode: NewConfirmationCode(now),
		Services:         items,
		Price:            price,
		GroupRef:         req.groupRef,
		SeriesRef:        req.seriesRef,
		Notes:            req.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if autoConfirm {
		appt.ConfirmedAt = &now
	}

	err := e.guardedWrite(ctx, req.ResourceID, req.Date, req.Start, duration, "", func(ctx context.Context, tx repository.CalendarTx) error {
		return tx.Insert(ctx, appt)
	})
	if err != nil {
		logger.Info("booking not committed", zap.Error(err))
		return nil, err
	}

	logger.Info("appointment booked",
		zap.String("appointmentId", appt.ID),
		zap.String("confirmationCode", appt.ConfirmationCode),
		zap.String("status", string(appt.Status)),
	)
	return appt, nil
}
