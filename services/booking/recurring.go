package booking

import (
	"context"
	"sort"
	"time"

	"salonbook/models"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxSeriesHorizon bounds a series: every date falls before the anniversary of the first one.
const maxSeriesHorizon = 1 // years

// ExpandDates turns settings into the ordered candidate dates of a series starting at first.
// Count and EndDate bound the series; with neither, defaultCount occurrences are generated.
// Dates on or after the first date's anniversary are never produced. The result is never empty on success.
func ExpandDates(first string, rs models.RecurringSettings, maxInstances, defaultCount int) ([]string, error) {
	start, err := utils.ParseDate(first)
	if err != nil {
		return nil, validationError("%v", err)
	}
	interval := rs.Interval
	if interval == 0 {
		interval = 1
	}
	if interval < 0 {
		return nil, validationError("recurrence interval must be positive")
	}
	if rs.Count < 0 {
		return nil, validationError("recurrence count must not be negative")
	}
	if maxInstances > 0 && rs.Count > maxInstances {
		return nil, validationError("recurrence count %d exceeds the maximum of %d", rs.Count, maxInstances)
	}

	horizon := start.AddDate(maxSeriesHorizon, 0, 0)
	last := horizon.AddDate(0, 0, -1)
	if rs.EndDate != "" {
		end, err := utils.ParseDate(rs.EndDate)
		if err != nil {
			return nil, validationError("invalid endDate: %v", err)
		}
		if end.Before(start) {
			return nil, validationError("endDate %s is before the first date %s", rs.EndDate, first)
		}
		if !end.Before(horizon) {
			return nil, validationError("endDate %s must be before %s, one year after %s",
				rs.EndDate, utils.FormatDate(horizon), first)
		}
		last = end
	}
	count := rs.Count
	if count == 0 && rs.EndDate == "" {
		count = defaultCount
	}

	days := make([]int, 0, len(rs.DaysOfWeek))
	for _, d := range rs.DaysOfWeek {
		if d < 0 || d > 6 {
			return nil, validationError("daysOfWeek values must be between 0 and 6")
		}
		days = append(days, d)
	}
	sort.Ints(days)

	var dates []string
	emit := func(d time.Time) bool {
		if d.After(last) {
			return false
		}
		if count > 0 && len(dates) >= count {
			return false
		}
		dates = append(dates, utils.FormatDate(d))
		return true
	}

	switch rs.Frequency {
	case models.FrequencyDaily:
		for d := start; emit(d); d = d.AddDate(0, 0, interval) {
		}
	case models.FrequencyWeekly, models.FrequencyBiweekly:
		step := interval
		if rs.Frequency == models.FrequencyBiweekly {
			step = interval * 2
		}
		if len(days) == 0 {
			days = []int{int(start.Weekday())}
		}
		weekStart := start.AddDate(0, 0, -int(start.Weekday()))
	weeks:
		for w := weekStart; !w.After(last); w = w.AddDate(0, 0, 7*step) {
			for _, dow := range days {
				d := w.AddDate(0, 0, dow)
				if d.Before(start) {
					continue
				}
				if !emit(d) {
					break weeks
				}
			}
		}
	case models.FrequencyMonthly:
		dom := rs.DayOfMonth
		if dom == 0 {
			dom = start.Day()
		}
		if dom < 1 || dom > 31 {
			return nil, validationError("dayOfMonth must be between 1 and 31")
		}
		for m := 0; ; m += interval {
			monthStart := time.Date(start.Year(), start.Month()+time.Month(m), 1, 0, 0, 0, 0, time.UTC)
			if monthStart.After(last) {
				break
			}
			d := monthStart.AddDate(0, 0, min(dom, daysIn(monthStart))-1)
			if d.Before(start) {
				continue
			}
			if !emit(d) {
				break
			}
		}
	default:
		return nil, validationError("unsupported frequency %q", rs.Frequency)
	}

	if len(dates) == 0 {
		return nil, validationError("recurrence produces no dates")
	}
	if maxInstances > 0 && len(dates) > maxInstances {
		return nil, validationError("recurrence produces %d dates, more than the maximum of %d", len(dates), maxInstances)
	}
	return dates, nil
}

func daysIn(monthStart time.Time) int {
	return monthStart.AddDate(0, 1, -1).Day()
}

// BookSeries books one appointment per expanded date, independently of each other.
// A date that cannot be booked is reported in Failed; the call only errors when the request itself is invalid.
func (e *DefaultBookingEngine) BookSeries(ctx context.Context, req BookingRequest, rs models.RecurringSettings) (*models.SeriesResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := e.rejectPast(req.Date, req.Start); err != nil {
		return nil, err
	}
	dates, err := ExpandDates(req.Date, rs, e.Settings.MaxSeriesInstances, e.Settings.DefaultSeriesOccurrences)
	if err != nil {
		return nil, err
	}
	res, err := e.getResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	selections, err := e.resolveSelections(ctx, req.Services)
	if err != nil {
		return nil, err
	}

	seriesRef := uuid.New().String()
	logger := e.log().With(zap.String("seriesRef", seriesRef), zap.String("resourceId", req.ResourceID))
	logger.Info("booking series", zap.Int("dates", len(dates)), zap.String("frequency", string(rs.Frequency)))

	type outcome struct {
		appt *models.Appointment
		err  error
	}
	outcomes := make([]outcome, len(dates))

	var g errgroup.Group
	limit := e.Settings.SeriesConcurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, date := range dates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = outcome{err: err}
				return nil
			}
			instance := req
			instance.Date = date
			instance.salonID = res.SalonID
			instance.seriesRef = seriesRef
			appt, err := e.bookResolved(ctx, instance, selections)
			outcomes[i] = outcome{appt: appt, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := &models.SeriesResult{SeriesRef: seriesRef, Created: []models.Appointment{}, Failed: []models.SeriesFailure{}}
	for i, o := range outcomes {
		if o.err != nil {
			reason := MessageOf(o.err)
			if CodeOf(o.err) == CodeCancelled {
				reason = "cancelled"
			}
			result.Failed = append(result.Failed, models.SeriesFailure{
				Date:      dates[i],
				ErrorCode: string(CodeOf(o.err)),
				Reason:    reason,
			})
			continue
		}
		result.Created = append(result.Created, *o.appt)
	}
	for _, appt := range result.Created {
		e.notify(context.WithoutCancel(ctx), models.EventAppointmentCreated, appt)
	}

	logger.Info("series booked", zap.Int("created", len(result.Created)), zap.Int("failed", len(result.Failed)))
	return result, nil
}
