package booking

import (
	"context"
	"strings"

	"salonbook/models"
	"salonbook/services/availability"
	"salonbook/utils"

	"golang.org/x/sync/errgroup"
)

// AvailabilityQuery asks for free start times for one resource, or every active resource of a salon.
type AvailabilityQuery struct {
	SalonID     string
	ResourceID  string
	Date        string
	Services    []ServiceRequest
	Granularity int
}

// Availability is a read against a snapshot; it never reserves anything. "No slots" is an empty list, not an error.
func (e *DefaultBookingEngine) Availability(ctx context.Context, q AvailabilityQuery) ([]models.ResourceAvailability, error) {
	if _, err := utils.ParseDate(q.Date); err != nil {
		return nil, validationError("%v", err)
	}
	if strings.TrimSpace(q.ResourceID) == "" && strings.TrimSpace(q.SalonID) == "" {
		return nil, validationError("resourceId or salonId is required")
	}
	if q.Granularity < 0 {
		return nil, validationError("granularity must be positive")
	}
	if err := validateServices(q.Services); err != nil {
		return nil, err
	}
	selections, err := e.resolveSelections(ctx, q.Services)
	if err != nil {
		return nil, err
	}

	var resources []models.Resource
	if q.ResourceID != "" {
		res, err := e.getResource(ctx, q.ResourceID)
		if err != nil {
			return nil, err
		}
		resources = []models.Resource{*res}
	} else {
		resources, err = e.Schedules.ListResources(ctx, q.SalonID)
		if err != nil {
			return nil, err
		}
	}

	req := models.SlotRequest{
		Date:             q.Date,
		RequiredDuration: models.TotalDuration(selections),
		Granularity:      q.Granularity,
	}
	if req.Granularity == 0 {
		req.Granularity = e.granularityFor(selections)
	}
	cutoff, allPast := e.pastCutoff(q.Date)

	out := make([]models.ResourceAvailability, len(resources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, res := range resources {
		g.Go(func() error {
			out[i] = models.ResourceAvailability{ResourceID: res.ID, Starts: []int{}}
			if allPast {
				return nil
			}
			cal, err := e.loadCalendar(gctx, res.ID, q.Date)
			if err != nil {
				return err
			}
			r := req
			r.ResourceID = res.ID
			starts, err := availability.Resolve(r, cal.window, cal.busy)
			if err != nil {
				return validationError("%v", err)
			}
			out[i].Starts = dropBefore(starts, cutoff)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
