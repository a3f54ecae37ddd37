package handlers

import (
	"salonbook/services/booking"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers so routes can be registered without knowing the engine.
type HandlerBundle struct {
	// Availability endpoints
	AvailabilityHandler      gin.HandlerFunc
	GroupAvailabilityHandler gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler    gin.HandlerFunc
	GetBookingHandler       gin.HandlerFunc
	GetBookingByCodeHandler gin.HandlerFunc
	UpdateStatusHandler     gin.HandlerFunc
	RescheduleHandler       gin.HandlerFunc
	CancelSeriesHandler     gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

func NewHandlerBundle(engine booking.BookingEngine) *HandlerBundle {
	h := &BookingHandler{Engine: engine}
	return &HandlerBundle{
		AvailabilityHandler:      h.AvailabilityHandler,
		GroupAvailabilityHandler: h.GroupAvailabilityHandler,
		CreateBookingHandler:     h.CreateBookingHandler,
		GetBookingHandler:        h.GetBookingHandler,
		GetBookingByCodeHandler:  h.GetBookingByCodeHandler,
		UpdateStatusHandler:      h.UpdateStatusHandler,
		RescheduleHandler:        h.RescheduleHandler,
		CancelSeriesHandler:      h.CancelSeriesHandler,
		HealthHandler:            HealthHandler,
	}
}
