package handlers

import (
	"time"

	"salonbook/models"
	"salonbook/services/booking"
	"salonbook/utils"
)

// Wire types. Times of day travel as "HH:MM"; internally they are minutes from midnight.

type serviceInput struct {
	ServiceID string `json:"serviceId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// toServiceRequests merges the plain serviceIds list (quantity one each) with explicit services entries.
func toServiceRequests(ids []string, in []serviceInput) []booking.ServiceRequest {
	out := make([]booking.ServiceRequest, 0, len(ids)+len(in))
	for _, id := range ids {
		out = append(out, booking.ServiceRequest{ServiceID: id, Quantity: 1})
	}
	for _, s := range in {
		out = append(out, booking.ServiceRequest{ServiceID: s.ServiceID, Quantity: s.Quantity})
	}
	return out
}

type availabilityInput struct {
	SalonID     string         `json:"salonId"`
	ResourceID  string         `json:"resourceId"`
	Date        string         `json:"date" binding:"required"`
	ServiceIDs  []string       `json:"serviceIds"`
	Services    []serviceInput `json:"services" binding:"dive"`
	Granularity int            `json:"granularity"`
}

type resourceSlots struct {
	ResourceID          string   `json:"resourceId"`
	AvailableStartTimes []string `json:"availableStartTimes"`
}

type memberInput struct {
	ResourceID   string              `json:"resourceId" binding:"required"`
	ServiceIDs   []string            `json:"serviceIds"`
	Services     []serviceInput      `json:"services" binding:"dive"`
	CustomerInfo models.CustomerInfo `json:"customerInfo"`
}

func toMembers(in []memberInput) []booking.GroupMemberRequest {
	out := make([]booking.GroupMemberRequest, len(in))
	for i, m := range in {
		out[i] = booking.GroupMemberRequest{
			ResourceID: m.ResourceID,
			Services:   toServiceRequests(m.ServiceIDs, m.Services),
			Customer:   m.CustomerInfo,
		}
	}
	return out
}

type groupAvailabilityInput struct {
	Date         string        `json:"date" binding:"required"`
	GroupMembers []memberInput `json:"groupMembers" binding:"required,dive"`
}

// bookingInput covers single, recurring and group bookings. Recurring and group are mutually exclusive.
// For a group, customerInfo is the primary contact and startTime is optional.
type bookingInput struct {
	ResourceID        string                    `json:"resourceId"`
	Date              string                    `json:"date" binding:"required"`
	StartTime         string                    `json:"startTime"`
	ServiceIDs        []string                  `json:"serviceIds"`
	Services          []serviceInput            `json:"services" binding:"dive"`
	CustomerInfo      models.CustomerInfo       `json:"customerInfo"`
	Notes             string                    `json:"notes"`
	AutoConfirm       *bool                     `json:"autoConfirm"`
	RecurringSettings *models.RecurringSettings `json:"recurringSettings"`
	GroupMembers      []memberInput             `json:"groupMembers" binding:"dive"`
}

type statusInput struct {
	Status models.AppointmentStatus `json:"status" binding:"required"`
	Reason string                   `json:"reason"`
}

type rescheduleInput struct {
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"startTime" binding:"required"`
	ResourceID string `json:"resourceId"`
}

type cancelSeriesInput struct {
	Reason string `json:"reason"`
}

type lineItemView struct {
	ServiceID       string       `json:"serviceId"`
	Name            string       `json:"name"`
	DurationMinutes int          `json:"durationMinutes"`
	Quantity        int          `json:"quantity"`
	UnitPrice       models.Money `json:"unitPrice"`
	Price           models.Money `json:"price"`
	StartTime       string       `json:"startTime"`
	EndTime         string       `json:"endTime"`
	Order           int          `json:"order"`
}

type appointmentView struct {
	ID                 string                   `json:"id"`
	SalonID            string                   `json:"salonId,omitempty"`
	ResourceID         string                   `json:"resourceId"`
	Customer           models.CustomerInfo      `json:"customer"`
	Date               string                   `json:"date"`
	StartTime          string                   `json:"startTime"`
	EndTime            string                   `json:"endTime"`
	Status             models.AppointmentStatus `json:"status"`
	ConfirmationCode   string                   `json:"confirmationCode"`
	Services           []lineItemView           `json:"services"`
	Price              models.PriceBreakdown    `json:"price"`
	GroupRef           string                   `json:"groupRef,omitempty"`
	SeriesRef          string                   `json:"seriesRef,omitempty"`
	Notes              string                   `json:"notes,omitempty"`
	CancellationReason string                   `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time                `json:"createdAt"`
	UpdatedAt          time.Time                `json:"updatedAt"`
	ConfirmedAt        *time.Time               `json:"confirmedAt,omitempty"`
	CheckedInAt        *time.Time               `json:"checkedInAt,omitempty"`
	CompletedAt        *time.Time               `json:"completedAt,omitempty"`
	CancelledAt        *time.Time               `json:"cancelledAt,omitempty"`
	NoShowAt           *time.Time               `json:"noShowAt,omitempty"`
}

func toView(a models.Appointment) appointmentView {
	items := make([]lineItemView, len(a.Services))
	for i, s := range a.Services {
		items[i] = lineItemView{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Quantity:        s.Quantity,
			UnitPrice:       s.UnitPrice,
			Price:           s.Price,
			StartTime:       utils.FormatClock(s.Start),
			EndTime:         utils.FormatClock(s.End),
			Order:           s.Order,
		}
	}
	return appointmentView{
		ID:                 a.ID,
		SalonID:            a.SalonID,
		ResourceID:         a.ResourceID,
		Customer:           a.Customer,
		Date:               a.Date,
		StartTime:          utils.FormatClock(a.Start),
		EndTime:            utils.FormatClock(a.End),
		Status:             a.Status,
		ConfirmationCode:   a.ConfirmationCode,
		Services:           items,
		Price:              a.Price,
		GroupRef:           a.GroupRef,
		SeriesRef:          a.SeriesRef,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
		ConfirmedAt:        a.ConfirmedAt,
		CheckedInAt:        a.CheckedInAt,
		CompletedAt:        a.CompletedAt,
		CancelledAt:        a.CancelledAt,
		NoShowAt:           a.NoShowAt,
	}
}

func toViews(appts []models.Appointment) []appointmentView {
	out := make([]appointmentView, len(appts))
	for i, a := range appts {
		out[i] = toView(a)
	}
	return out
}

func confirmationCodes(appts []models.Appointment) []string {
	codes := make([]string, len(appts))
	for i, a := range appts {
		codes[i] = a.ConfirmationCode
	}
	return codes
}
