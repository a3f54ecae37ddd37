// Package memstore is an in-process implementation of the schedule, catalogue and appointment
// repositories. It backs STORE_DRIVER=memory and the service tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	appointmentRepo "salonbook/database/repository/appointment"
	catalogueRepo "salonbook/database/repository/catalogue"
	scheduleRepo "salonbook/database/repository/schedule"
	"salonbook/models"
)

type calendarKey struct {
	resourceID string
	date       string
}

type windowKey struct {
	resourceID string
	weekday    time.Weekday
}

// Store keeps everything in maps guarded by mu. Calendar units additionally hold a per-calendar mutex.
type Store struct {
	mu           sync.RWMutex
	resources    map[string]models.Resource
	windows      map[windowKey]models.WorkingWindow
	blocked      map[calendarKey][]models.BlockedTime
	services     map[string]models.Service
	appointments map[string]models.Appointment

	calMu     sync.Mutex
	calendars map[calendarKey]*sync.Mutex

	// OnCommit, when set, runs after a calendar unit has applied its writes.
	OnCommit func(resourceID, date string)
}

func New() *Store {
	return &Store{
		resources:    make(map[string]models.Resource),
		windows:      make(map[windowKey]models.WorkingWindow),
		blocked:      make(map[calendarKey][]models.BlockedTime),
		services:     make(map[string]models.Service),
		appointments: make(map[string]models.Appointment),
		calendars:    make(map[calendarKey]*sync.Mutex),
	}
}

// Seeding helpers.

func (s *Store) PutResource(r models.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.ID] = r
}

func (s *Store) PutWorkingWindow(w models.WorkingWindow) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[windowKey{w.ResourceID, time.Weekday(w.DayOfWeek)}] = w
	return nil
}

func (s *Store) PutBlockedTime(b models.BlockedTime) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := calendarKey{b.ResourceID, b.Date}
	s.blocked[k] = append(s.blocked[k], b)
}

func (s *Store) PutService(svc models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
}

// PutAppointment stores an appointment directly, bypassing the calendar check.
func (s *Store) PutAppointment(a models.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[a.ID] = a
}

// Count returns the number of stored appointments.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.appointments)
}

// ScheduleRepository.

func (s *Store) GetResource(_ context.Context, resourceID string) (*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[resourceID]
	if !ok || !r.Active {
		return nil, scheduleRepo.ErrNotFound
	}
	return &r, nil
}

func (s *Store) ListResources(_ context.Context, salonID string) ([]models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Resource
	for _, r := range s.resources {
		if r.SalonID == salonID && r.Active {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetWorkingWindow(_ context.Context, resourceID string, weekday time.Weekday) (*models.WorkingWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[windowKey{resourceID, weekday}]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (s *Store) GetBlockedTimes(_ context.Context, resourceID, date string) ([]models.BlockedTime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.BlockedTime(nil), s.blocked[calendarKey{resourceID, date}]...), nil
}

func (s *Store) EnsureIndexes() error { return nil }

// CatalogueRepository.

func (s *Store) GetServices(_ context.Context, ids []string) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := s.services[id]
		if !ok || !svc.Active {
			return nil, fmt.Errorf("%w: %s", catalogueRepo.ErrNotFound, id)
		}
		out = append(out, svc)
	}
	return out, nil
}

// AppointmentRepository.

func (s *Store) calendarLock(k calendarKey) *sync.Mutex {
	s.calMu.Lock()
	defer s.calMu.Unlock()
	m, ok := s.calendars[k]
	if !ok {
		m = &sync.Mutex{}
		s.calendars[k] = m
	}
	return m
}

func (s *Store) RunInCalendar(ctx context.Context, resourceID, date string, fn func(ctx context.Context, tx appointmentRepo.CalendarTx) error) error {
	k := calendarKey{resourceID, date}
	lock := s.calendarLock(k)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{store: s, key: k}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.commit(); err != nil {
		return err
	}
	if s.OnCommit != nil {
		s.OnCommit(resourceID, date)
	}
	return nil
}

func (s *Store) occupying(k calendarKey) []models.BookedInterval {
	var out []models.BookedInterval
	for _, a := range s.appointments {
		if a.ResourceID == k.resourceID && a.Date == k.date && a.Status.Occupying() {
			out = append(out, a.Interval())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (s *Store) GetBookedIntervals(_ context.Context, resourceID, date string) ([]models.BookedInterval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.occupying(calendarKey{resourceID, date}), nil
}

func (s *Store) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	return &a, nil
}

func (s *Store) GetByConfirmationCode(_ context.Context, code string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.ConfirmationCode == code {
			return &a, nil
		}
	}
	return nil, appointmentRepo.ErrNotFound
}

func (s *Store) SaveStatus(_ context.Context, appt *models.Appointment, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.appointments[appt.ID]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return appointmentRepo.ErrVersionConflict
	}
	cur.Status = appt.Status
	cur.CancellationReason = appt.CancellationReason
	cur.ConfirmedAt = appt.ConfirmedAt
	cur.CheckedInAt = appt.CheckedInAt
	cur.CompletedAt = appt.CompletedAt
	cur.CancelledAt = appt.CancelledAt
	cur.NoShowAt = appt.NoShowAt
	cur.UpdatedAt = appt.UpdatedAt
	cur.Version = expectedVersion + 1
	s.appointments[appt.ID] = cur
	appt.Version = cur.Version
	return nil
}

func (s *Store) DeleteMany(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.appointments, id)
	}
	return nil
}

func (s *Store) listWhere(match func(models.Appointment) bool) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Appointment
	for _, a := range s.appointments {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ResourceID < out[j].ResourceID
	})
	return out
}

func (s *Store) ListBySeries(_ context.Context, seriesRef string) ([]models.Appointment, error) {
	return s.listWhere(func(a models.Appointment) bool { return a.SeriesRef == seriesRef }), nil
}

func (s *Store) ListByGroup(_ context.Context, groupRef string) ([]models.Appointment, error) {
	return s.listWhere(func(a models.Appointment) bool { return a.GroupRef == groupRef }), nil
}

type memWrite struct {
	appt            models.Appointment
	expectedVersion int
	move            bool
}

// memTx stages writes and applies them only when the unit's function succeeds.
type memTx struct {
	store   *Store
	key     calendarKey
	pending []memWrite
}

func (tx *memTx) BookedIntervals(_ context.Context) ([]models.BookedInterval, error) {
	tx.store.mu.RLock()
	current := tx.store.occupying(tx.key)
	tx.store.mu.RUnlock()

	staged := make(map[string]bool, len(tx.pending))
	for _, w := range tx.pending {
		staged[w.appt.ID] = true
	}
	out := make([]models.BookedInterval, 0, len(current)+len(tx.pending))
	for _, b := range current {
		if !staged[b.AppointmentID] {
			out = append(out, b)
		}
	}
	for _, w := range tx.pending {
		if w.appt.Status.Occupying() {
			out = append(out, w.appt.Interval())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (tx *memTx) check(appt *models.Appointment) error {
	if appt.ResourceID != tx.key.resourceID || appt.Date != tx.key.date {
		return fmt.Errorf("appointment %s belongs to %s/%s, not calendar %s/%s",
			appt.ID, appt.ResourceID, appt.Date, tx.key.resourceID, tx.key.date)
	}
	return nil
}

func (tx *memTx) Insert(_ context.Context, appt *models.Appointment) error {
	if err := tx.check(appt); err != nil {
		return err
	}
	tx.pending = append(tx.pending, memWrite{appt: *appt})
	return nil
}

func (tx *memTx) Move(_ context.Context, appt *models.Appointment, expectedVersion int) error {
	if err := tx.check(appt); err != nil {
		return err
	}
	appt.Version = expectedVersion + 1
	tx.pending = append(tx.pending, memWrite{appt: *appt, expectedVersion: expectedVersion, move: true})
	return nil
}

func (tx *memTx) commit() error {
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range tx.pending {
		cur, exists := s.appointments[w.appt.ID]
		if w.move {
			if !exists {
				return appointmentRepo.ErrNotFound
			}
			if cur.Version != w.expectedVersion {
				return appointmentRepo.ErrVersionConflict
			}
			continue
		}
		if exists {
			return fmt.Errorf("duplicate appointment id %s", w.appt.ID)
		}
		for _, a := range s.appointments {
			if a.ConfirmationCode == w.appt.ConfirmationCode {
				return fmt.Errorf("duplicate confirmation code %s", a.ConfirmationCode)
			}
		}
	}
	for _, w := range tx.pending {
		s.appointments[w.appt.ID] = w.appt
	}
	return nil
}
