package repository

import (
	"fmt"

	appointmentRepo "salonbook/database/repository/appointment"
	catalogueRepo "salonbook/database/repository/catalogue"
	scheduleRepo "salonbook/database/repository/schedule"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the ScheduleRepository interface and constructor.
type ScheduleRepository = scheduleRepo.ScheduleRepository

var NewMongoScheduleRepo = scheduleRepo.NewMongoScheduleRepo

// Re-export the CatalogueRepository interface, constructor and cache.
type CatalogueRepository = catalogueRepo.CatalogueRepository

var (
	NewMongoCatalogueRepo = catalogueRepo.NewMongoCatalogueRepo
	NewCachedCatalogue    = catalogueRepo.NewCachedCatalogue
)

// Re-export the AppointmentRepository interface and constructor.
type (
	AppointmentRepository = appointmentRepo.AppointmentRepository
	CalendarTx            = appointmentRepo.CalendarTx
)

var NewMongoAppointmentRepo = appointmentRepo.NewMongoAppointmentRepo

var (
	ErrResourceNotFound    = scheduleRepo.ErrNotFound
	ErrServiceNotFound     = catalogueRepo.ErrNotFound
	ErrAppointmentNotFound = appointmentRepo.ErrNotFound
	ErrVersionConflict     = appointmentRepo.ErrVersionConflict
)

// Store bundles the repositories the booking engine reads and writes.
type Store struct {
	Schedules    ScheduleRepository
	Catalogue    CatalogueRepository
	Appointments AppointmentRepository
}

// NewMongoStore builds the Mongo-backed repositories and makes sure their indexes exist.
func NewMongoStore(db *mongo.Database) (*Store, error) {
	schedules := scheduleRepo.NewMongoScheduleRepo(db)
	catalogue := catalogueRepo.NewMongoCatalogueRepo(db)
	appointments := appointmentRepo.NewMongoAppointmentRepo(db)

	for name, ensure := range map[string]func() error{
		"schedule":    schedules.EnsureIndexes,
		"catalogue":   catalogue.EnsureIndexes,
		"appointment": appointments.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			return nil, fmt.Errorf("failed to ensure %s indexes: %w", name, err)
		}
	}
	return &Store{Schedules: schedules, Catalogue: catalogue, Appointments: appointments}, nil
}
