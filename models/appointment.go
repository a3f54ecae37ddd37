package models

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCheckedIn AppointmentStatus = "checked_in"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// OccupyingStatuses are the statuses whose intervals block the calendar.
var OccupyingStatuses = []AppointmentStatus{StatusPending, StatusConfirmed, StatusCheckedIn, StatusCompleted}

func (s AppointmentStatus) Occupying() bool {
	for _, o := range OccupyingStatuses {
		if s == o {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type CustomerInfo struct {
	CustomerID string `bson:"customerId" json:"customerId"`
	Name       string `bson:"name,omitempty" json:"name,omitempty"`
	Email      string `bson:"email,omitempty" json:"email,omitempty"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// AppointmentService is a line item; services run back to back in Order.
type AppointmentService struct {
	ServiceID       string `bson:"serviceId" json:"serviceId"`
	Name            string `bson:"name" json:"name"`
	DurationMinutes int    `bson:"durationMinutes" json:"durationMinutes"`
	Quantity        int    `bson:"quantity" json:"quantity"`
	UnitPrice       Money  `bson:"unitPrice" json:"unitPrice"`
	Price           Money  `bson:"price" json:"price"`
	Start           int    `bson:"start" json:"start"`
	End             int    `bson:"end" json:"end"`
	Order           int    `bson:"order" json:"order"`
}

type PriceBreakdown struct {
	Subtotal Money  `bson:"subtotal" json:"subtotal"`
	Tax      Money  `bson:"tax" json:"tax"`
	Discount Money  `bson:"discount" json:"discount"`
	Tip      Money  `bson:"tip" json:"tip"`
	Total    Money  `bson:"total" json:"total"`
	Deposit  Money  `bson:"deposit" json:"deposit"`
	Currency string `bson:"currency" json:"currency"`
}

type Appointment struct {
	ID                 string               `bson:"id" json:"id"`
	SalonID            string               `bson:"salonId,omitempty" json:"salonId,omitempty"`
	ResourceID         string               `bson:"resourceId" json:"resourceId"`
	Customer           CustomerInfo         `bson:"customer" json:"customer"`
	Date               string               `bson:"date" json:"date"`
	Start              int                  `bson:"start" json:"start"`
	End                int                  `bson:"end" json:"end"`
	Status             AppointmentStatus    `bson:"status" json:"status"`
	ConfirmationCode   string               `bson:"confirmationCode" json:"confirmationCode"`
	Services           []AppointmentService `bson:"services" json:"services"`
	Price              PriceBreakdown       `bson:"price" json:"price"`
	GroupRef           string               `bson:"groupRef,omitempty" json:"groupRef,omitempty"`
	SeriesRef          string               `bson:"seriesRef,omitempty" json:"seriesRef,omitempty"`
	Notes              string               `bson:"notes,omitempty" json:"notes,omitempty"`
	CancellationReason string               `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
	ConfirmedAt        *time.Time           `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	CheckedInAt        *time.Time           `bson:"checkedInAt,omitempty" json:"checkedInAt,omitempty"`
	CompletedAt        *time.Time           `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt        *time.Time           `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	NoShowAt           *time.Time           `bson:"noShowAt,omitempty" json:"noShowAt,omitempty"`
	Version            int                  `bson:"version" json:"version"`
}

func (a *Appointment) Interval() BookedInterval {
	return BookedInterval{
		ResourceID:    a.ResourceID,
		Date:          a.Date,
		Start:         a.Start,
		End:           a.End,
		AppointmentID: a.ID,
		Status:        a.Status,
	}
}
