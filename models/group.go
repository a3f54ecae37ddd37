package models

type GroupBooking struct {
	GroupRef       string        `json:"groupRef"`
	Date           string        `json:"date"`
	Start          int           `json:"start"`
	PrimaryContact CustomerInfo  `json:"primaryContact"`
	Members        []Appointment `json:"members"`
}
