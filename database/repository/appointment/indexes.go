package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the appointments and calendars collections.
func (r *MongoAppointmentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "confirmationCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_confirmation_code"),
		},
		// Primary read pattern of the resolver and the guard.
		{
			Keys:    bson.D{{Key: "resourceId", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("resource_date_status_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "seriesRef", Value: 1}},
			Options: options.Index().SetName("series_ref_idx").SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "groupRef", Value: 1}},
			Options: options.Index().SetName("group_ref_idx").SetSparse(true),
		},
	}
	if _, err := r.apptColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}

	_, err := r.calendarColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "resourceId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("resource_date_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create calendar indexes: %w", err)
	}
	return nil
}
