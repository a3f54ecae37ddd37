package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	client       *mongo.Client
	apptColl     *mongo.Collection
	calendarColl *mongo.Collection
}

func NewMongoAppointmentRepo(db *mongo.Database) *MongoAppointmentRepo {
	return &MongoAppointmentRepo{
		client:       db.Client(),
		apptColl:     db.Collection("appointments"),
		calendarColl: db.Collection("calendars"),
	}
}

func occupyingFilter(resourceID, date string) bson.M {
	return bson.M{
		"resourceId": resourceID,
		"date":       date,
		"status":     bson.M{"$in": models.OccupyingStatuses},
	}
}

func (r *MongoAppointmentRepo) findIntervals(ctx context.Context, filter bson.M) ([]models.BookedInterval, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start", Value: 1}}).
		SetProjection(bson.M{"id": 1, "resourceId": 1, "date": 1, "start": 1, "end": 1, "status": 1})
	cursor, err := r.apptColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked intervals: %w", err)
	}
	defer cursor.Close(ctx)

	var intervals []models.BookedInterval
	if err := cursor.All(ctx, &intervals); err != nil {
		return nil, fmt.Errorf("failed to decode booked intervals: %w", err)
	}
	return intervals, nil
}

func (r *MongoAppointmentRepo) GetBookedIntervals(ctx context.Context, resourceID, date string) ([]models.BookedInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.findIntervals(ctx, occupyingFilter(resourceID, date))
}

func (r *MongoAppointmentRepo) findOne(ctx context.Context, filter bson.M) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.apptColl.FindOne(ctx, filter).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoAppointmentRepo) GetByConfirmationCode(ctx context.Context, code string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"confirmationCode": code})
}

func (r *MongoAppointmentRepo) list(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}, {Key: "resourceId", Value: 1}})
	cursor, err := r.apptColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

func (r *MongoAppointmentRepo) ListBySeries(ctx context.Context, seriesRef string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"seriesRef": seriesRef})
}

func (r *MongoAppointmentRepo) ListByGroup(ctx context.Context, groupRef string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"groupRef": groupRef})
}

func (r *MongoAppointmentRepo) SaveStatus(ctx context.Context, appt *models.Appointment, expectedVersion int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": appt.ID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"status":             appt.Status,
			"cancellationReason": appt.CancellationReason,
			"confirmedAt":        appt.ConfirmedAt,
			"checkedInAt":        appt.CheckedInAt,
			"completedAt":        appt.CompletedAt,
			"cancelledAt":        appt.CancelledAt,
			"noShowAt":           appt.NoShowAt,
			"updatedAt":          appt.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.apptColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	appt.Version = expectedVersion + 1
	return nil
}

func (r *MongoAppointmentRepo) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.apptColl.DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("failed to delete appointments: %w", err)
	}
	return nil
}
