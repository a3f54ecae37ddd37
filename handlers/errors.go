package handlers

import (
	"net/http"

	"salonbook/services/booking"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps booking error codes onto HTTP statuses.
func statusFor(code booking.ErrorCode) int {
	switch code {
	case booking.CodeValidation:
		return http.StatusBadRequest
	case booking.CodeResourceNotFound, booking.CodeAppointmentNotFound:
		return http.StatusNotFound
	case booking.CodeSlotTaken, booking.CodeNoCommonSlot, booking.CodeInvalidTransition:
		return http.StatusConflict
	case booking.CodeCancelled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := booking.CodeOf(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		getLogger(c).Error("booking request failed", zap.Error(err))
		utils.JSONError(c, status, string(code), "Internal Server Error", "An unexpected error occurred. Please try again later.")
		return
	}
	utils.JSONError(c, status, string(code), booking.MessageOf(err), "")
}

func respondBindError(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, string(booking.CodeValidation), "Invalid request payload", err.Error())
}
