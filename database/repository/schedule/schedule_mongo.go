package scheduleRepo

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

type mongoScheduleRepo struct {
	resourceColl *mongo.Collection
	windowColl   *mongo.Collection
	blockedColl  *mongo.Collection
}

func NewMongoScheduleRepo(db *mongo.Database) ScheduleRepository {
	return &mongoScheduleRepo{
		resourceColl: db.Collection("resources"),
		windowColl:   db.Collection("working_windows"),
		blockedColl:  db.Collection("blocked_times"),
	}
}

func (r *mongoScheduleRepo) GetResource(ctx context.Context, resourceID string) (*models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Resource
	err := r.resourceColl.FindOne(ctx, bson.M{"id": resourceID, "active": true}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch resource %s: %w", resourceID, err)
	}
	return &res, nil
}

func (r *mongoScheduleRepo) ListResources(ctx context.Context, salonID string) ([]models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.resourceColl.Find(ctx, bson.M{"salonId": salonID, "active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources for salon %s: %w", salonID, err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return resources, nil
}

func (r *mongoScheduleRepo) GetWorkingWindow(ctx context.Context, resourceID string, weekday time.Weekday) (*models.WorkingWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var w models.WorkingWindow
	err := r.windowColl.FindOne(ctx, bson.M{"resourceId": resourceID, "dayOfWeek": int(weekday)}).Decode(&w)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch working window: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("stored working window for %s on %s is invalid: %w", resourceID, weekday, err)
	}
	return &w, nil
}

func (r *mongoScheduleRepo) GetBlockedTimes(ctx context.Context, resourceID, date string) ([]models.BlockedTime, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.blockedColl.Find(ctx, bson.M{"resourceId": resourceID, "date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blocked times: %w", err)
	}
	defer cursor.Close(ctx)

	var blocked []models.BlockedTime
	if err := cursor.All(ctx, &blocked); err != nil {
		return nil, fmt.Errorf("failed to decode blocked times: %w", err)
	}
	return blocked, nil
}
