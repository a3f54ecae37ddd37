package models

import "time"

// ReminderPayload is the body of a scheduled appointment reminder task.
type ReminderPayload struct {
	AppointmentID    string       `json:"appointmentId"`
	ResourceID       string       `json:"resourceId"`
	Customer         CustomerInfo `json:"customer"`
	Date             string       `json:"date"`
	StartTime        string       `json:"startTime"`
	ConfirmationCode string       `json:"confirmationCode"`
	FireAt           time.Time    `json:"fireAt"`
}

type EventType string

const (
	EventAppointmentCreated     EventType = "appointment.created"
	EventAppointmentStatus      EventType = "appointment.status_changed"
	EventAppointmentRescheduled EventType = "appointment.rescheduled"
)

// AppointmentEvent is published for notification and payment collaborators.
type AppointmentEvent struct {
	Type        EventType   `json:"type"`
	Appointment Appointment `json:"appointment"`
	OccurredAt  time.Time   `json:"occurredAt"`
}
