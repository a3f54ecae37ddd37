package booking

import (
	"context"
	"sort"
	"strings"

	"salonbook/models"
	"salonbook/services/availability"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GroupMemberRequest struct {
	ResourceID string
	Services   []ServiceRequest
	Customer   models.CustomerInfo
}

// GroupRequest books several resources at one shared start time. Start is optional; when nil the
// earliest common start is used.
type GroupRequest struct {
	Date           string
	Start          *int
	Members        []GroupMemberRequest
	PrimaryContact models.CustomerInfo
	Notes          string
	AutoConfirm    *bool
}

type GroupAvailabilityQuery struct {
	Date    string
	Members []GroupMemberRequest
}

type resolvedMember struct {
	req        GroupMemberRequest
	salonID    string
	selections []models.ServiceSelection
}

func validateMembers(date string, members []GroupMemberRequest) error {
	if _, err := utils.ParseDate(date); err != nil {
		return validationError("%v", err)
	}
	if len(members) == 0 {
		return validationError("a group booking needs at least one member")
	}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if strings.TrimSpace(m.ResourceID) == "" {
			return validationError("every member needs a resourceId")
		}
		if seen[m.ResourceID] {
			return validationError("resource %s appears more than once in the group", m.ResourceID)
		}
		seen[m.ResourceID] = true
		if err := validateServices(m.Services); err != nil {
			return err
		}
	}
	return nil
}

func (e *DefaultBookingEngine) resolveMembers(ctx context.Context, members []GroupMemberRequest) ([]resolvedMember, error) {
	out := make([]resolvedMember, 0, len(members))
	for _, m := range members {
		res, err := e.getResource(ctx, m.ResourceID)
		if err != nil {
			return nil, err
		}
		selections, err := e.resolveSelections(ctx, m.Services)
		if err != nil {
			return nil, err
		}
		out = append(out, resolvedMember{req: m, salonID: res.SalonID, selections: selections})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].req.ResourceID < out[j].req.ResourceID })
	return out, nil
}

func groupDuration(members []resolvedMember) int {
	sets := make([][]models.ServiceSelection, len(members))
	for i, m := range members {
		sets[i] = m.selections
	}
	return models.MaxDurationOf(sets...)
}

// commonStarts intersects every member's availability computed at the group's longest duration.
func (e *DefaultBookingEngine) commonStarts(ctx context.Context, date string, members []resolvedMember) ([]int, error) {
	duration := groupDuration(members)
	granularity := e.granularityFor(members[0].selections)
	cutoff, allPast := e.pastCutoff(date)
	if allPast {
		return []int{}, nil
	}

	lists := make([][]int, 0, len(members))
	for _, m := range members {
		cal, err := e.loadCalendar(ctx, m.req.ResourceID, date)
		if err != nil {
			return nil, err
		}
		starts, err := availability.Resolve(models.SlotRequest{
			ResourceID:       m.req.ResourceID,
			Date:             date,
			RequiredDuration: duration,
			Granularity:      granularity,
		}, cal.window, cal.busy)
		if err != nil {
			return nil, validationError("%v", err)
		}
		lists = append(lists, dropBefore(starts, cutoff))
	}
	return availability.Intersect(lists...), nil
}

// GroupAvailability returns the start times at which every member resource is free.
func (e *DefaultBookingEngine) GroupAvailability(ctx context.Context, q GroupAvailabilityQuery) ([]int, error) {
	if err := validateMembers(q.Date, q.Members); err != nil {
		return nil, err
	}
	members, err := e.resolveMembers(ctx, q.Members)
	if err != nil {
		return nil, err
	}
	return e.commonStarts(ctx, q.Date, members)
}

// BookGroup commits every member at one start time or none of them. Members are committed one at a
// time in resource order; if any commit fails, the siblings already created are deleted.
func (e *DefaultBookingEngine) BookGroup(ctx context.Context, req GroupRequest) (*models.GroupBooking, error) {
	if err := validateMembers(req.Date, req.Members); err != nil {
		return nil, err
	}
	for _, m := range req.Members {
		if strings.TrimSpace(m.Customer.CustomerID) == "" && strings.TrimSpace(req.PrimaryContact.CustomerID) == "" {
			return nil, validationError("member %s needs a customer or the group a primary contact", m.ResourceID)
		}
	}
	members, err := e.resolveMembers(ctx, req.Members)
	if err != nil {
		return nil, err
	}

	groupRef := uuid.New().String()
	logger := e.log().With(zap.String("groupRef", groupRef), zap.String("date", req.Date))

	var start int
	if req.Start != nil {
		start = *req.Start
		if err := e.rejectPast(req.Date, start); err != nil {
			return nil, err
		}
		if err := e.checkGroupStart(ctx, req.Date, start, members); err != nil {
			return nil, err
		}
	} else {
		common, err := e.commonStarts(ctx, req.Date, members)
		if err != nil {
			return nil, err
		}
		if len(common) == 0 {
			return nil, newError(CodeNoCommonSlot, "no common start time for %d resources on %s", len(members), req.Date)
		}
		start = common[0]
	}
	logger.Info("booking group", zap.String("start", utils.FormatClock(start)), zap.Int("members", len(members)))

	created := make([]models.Appointment, 0, len(members))
	for _, m := range members {
		customer := m.req.Customer
		if strings.TrimSpace(customer.CustomerID) == "" {
			customer = req.PrimaryContact
		}
		appt, err := e.bookResolved(ctx, BookingRequest{
			ResourceID:  m.req.ResourceID,
			Date:        req.Date,
			Start:       start,
			Services:    m.req.Services,
			Customer:    customer,
			Notes:       req.Notes,
			AutoConfirm: req.AutoConfirm,
			salonID:     m.salonID,
			groupRef:    groupRef,
		}, m.selections)
		if err != nil {
			e.compensateGroup(ctx, logger, created)
			return nil, err
		}
		created = append(created, *appt)
	}

	for _, appt := range created {
		e.notify(ctx, models.EventAppointmentCreated, appt)
	}
	return &models.GroupBooking{
		GroupRef:       groupRef,
		Date:           req.Date,
		Start:          start,
		PrimaryContact: req.PrimaryContact,
		Members:        created,
	}, nil
}

// checkGroupStart verifies a caller-chosen start against every member before anything is written.
func (e *DefaultBookingEngine) checkGroupStart(ctx context.Context, date string, start int, members []resolvedMember) error {
	duration := groupDuration(members)
	for _, m := range members {
		cal, err := e.loadCalendar(ctx, m.req.ResourceID, date)
		if err != nil {
			return err
		}
		verdict, err := availability.Fits(cal.window, cal.busy, start, duration)
		if err != nil {
			return validationError("%v", err)
		}
		if verdict != availability.Free {
			return newError(CodeNoCommonSlot, "%s is not free at %s on %s: %s",
				m.req.ResourceID, utils.FormatClock(start), date, verdict)
		}
	}
	return nil
}

// compensateGroup removes already committed siblings. It ignores caller cancellation so a
// cancelled request cannot leave a partial group behind.
func (e *DefaultBookingEngine) compensateGroup(ctx context.Context, logger *zap.Logger, created []models.Appointment) {
	if len(created) == 0 {
		return
	}
	ids := make([]string, len(created))
	for i, a := range created {
		ids[i] = a.ID
	}
	if err := e.Appointments.DeleteMany(context.WithoutCancel(ctx), ids); err != nil {
		logger.Error("failed to roll back group members", zap.Strings("appointmentIds", ids), zap.Error(err))
		return
	}
	logger.Info("rolled back group members", zap.Strings("appointmentIds", ids))
}

func dropBefore(starts []int, cutoff int) []int {
	i := sort.SearchInts(starts, cutoff)
	return starts[i:]
}
