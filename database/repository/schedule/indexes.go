package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on the resource, window and blocked time collections.
func (r *mongoScheduleRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.resourceColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "salonId", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("salon_active_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create resource indexes: %w", err)
	}

	// One window per resource and weekday.
	_, err = r.windowColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "resourceId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("resource_weekday_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create working window indexes: %w", err)
	}

	_, err = r.blockedColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "resourceId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetName("resource_date_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create blocked time indexes: %w", err)
	}
	return nil
}
