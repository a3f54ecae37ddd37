package handlers

import (
	"net/http"

	"salonbook/services/booking"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Engine booking.BookingEngine
}

func parseStart(c *gin.Context, value string) (int, bool) {
	start, err := utils.ParseClock(value)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, string(booking.CodeValidation), "Invalid startTime", err.Error())
		return 0, false
	}
	return start, true
}

// AvailabilityHandler lists free start times for one resource or every resource of a salon.
func (h *BookingHandler) AvailabilityHandler(c *gin.Context) {
	var req availabilityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.Engine.Availability(c.Request.Context(), booking.AvailabilityQuery{
		SalonID:     req.SalonID,
		ResourceID:  req.ResourceID,
		Date:        req.Date,
		Services:    toServiceRequests(req.ServiceIDs, req.Services),
		Granularity: req.Granularity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resources := make([]resourceSlots, len(result))
	for i, r := range result {
		resources[i] = resourceSlots{ResourceID: r.ResourceID, AvailableStartTimes: utils.FormatClocks(r.Starts)}
	}
	resp := gin.H{"date": req.Date, "resources": resources}
	if req.ResourceID != "" && len(resources) == 1 {
		resp["availableStartTimes"] = resources[0].AvailableStartTimes
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) GroupAvailabilityHandler(c *gin.Context) {
	var req groupAvailabilityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	starts, err := h.Engine.GroupAvailability(c.Request.Context(), booking.GroupAvailabilityQuery{
		Date:    req.Date,
		Members: toMembers(req.GroupMembers),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": req.Date, "commonStartTimes": utils.FormatClocks(starts)})
}

// CreateBookingHandler books a single appointment, a recurring series or a group.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := getLogger(c)

	var req bookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.RecurringSettings != nil && len(req.GroupMembers) > 0 {
		utils.JSONError(c, http.StatusBadRequest, string(booking.CodeValidation), "A booking cannot be both recurring and a group", "")
		return
	}

	if len(req.GroupMembers) > 0 {
		h.createGroup(c, req)
		return
	}

	start, ok := parseStart(c, req.StartTime)
	if !ok {
		return
	}
	bookingReq := booking.BookingRequest{
		ResourceID:  req.ResourceID,
		Date:        req.Date,
		Start:       start,
		Services:    toServiceRequests(req.ServiceIDs, req.Services),
		Customer:    req.CustomerInfo,
		Notes:       req.Notes,
		AutoConfirm: req.AutoConfirm,
	}

	if req.RecurringSettings != nil {
		result, err := h.Engine.BookSeries(c.Request.Context(), bookingReq, *req.RecurringSettings)
		if err != nil {
			respondError(c, err)
			return
		}
		logger.Info("series booked", zap.String("seriesRef", result.SeriesRef), zap.Int("created", len(result.Created)))
		c.JSON(http.StatusCreated, gin.H{
			"seriesRef":         result.SeriesRef,
			"created":           toViews(result.Created),
			"failed":            result.Failed,
			"confirmationCodes": confirmationCodes(result.Created),
		})
		return
	}

	appt, err := h.Engine.Book(c.Request.Context(), bookingReq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": toView(*appt), "confirmationCode": appt.ConfirmationCode})
}

func (h *BookingHandler) createGroup(c *gin.Context, req bookingInput) {
	groupReq := booking.GroupRequest{
		Date:           req.Date,
		Members:        toMembers(req.GroupMembers),
		PrimaryContact: req.CustomerInfo,
		Notes:          req.Notes,
		AutoConfirm:    req.AutoConfirm,
	}
	if req.StartTime != "" {
		start, ok := parseStart(c, req.StartTime)
		if !ok {
			return
		}
		groupReq.Start = &start
	}

	group, err := h.Engine.BookGroup(c.Request.Context(), groupReq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"groupRef":          group.GroupRef,
		"date":              group.Date,
		"startTime":         utils.FormatClock(group.Start),
		"primaryContact":    group.PrimaryContact,
		"appointments":      toViews(group.Members),
		"confirmationCodes": confirmationCodes(group.Members),
	})
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	appt, err := h.Engine.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": toView(*appt)})
}

func (h *BookingHandler) GetBookingByCodeHandler(c *gin.Context) {
	appt, err := h.Engine.GetByConfirmationCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": toView(*appt)})
}

func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	var req statusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	appt, err := h.Engine.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": toView(*appt)})
}

func (h *BookingHandler) RescheduleHandler(c *gin.Context) {
	var req rescheduleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	start, ok := parseStart(c, req.StartTime)
	if !ok {
		return
	}

	appt, err := h.Engine.Reschedule(c.Request.Context(), c.Param("id"), booking.RescheduleRequest{
		Date:       req.Date,
		Start:      start,
		ResourceID: req.ResourceID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": toView(*appt)})
}

func (h *BookingHandler) CancelSeriesHandler(c *gin.Context) {
	var req cancelSeriesInput
	// The body is optional.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	cancelled, err := h.Engine.CancelSeries(c.Request.Context(), c.Param("seriesRef"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seriesRef": c.Param("seriesRef"), "cancelled": toViews(cancelled)})
}

// HealthHandler reports the last dependency probe.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

