package catalogueRepo

import (
	"context"
	"fmt"
	"time"

	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCatalogueRepo implements CatalogueRepository using MongoDB.
type MongoCatalogueRepo struct {
	coll *mongo.Collection
}

func NewMongoCatalogueRepo(db *mongo.Database) *MongoCatalogueRepo {
	return &MongoCatalogueRepo{coll: db.Collection("services")}
}

func (r *MongoCatalogueRepo) GetServices(ctx context.Context, ids []string) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}, "active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch services: %w", err)
	}
	defer cursor.Close(ctx)

	var found []models.Service
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return orderByIDs(ids, found)
}

// EnsureIndexes creates the unique service id index.
func (r *MongoCatalogueRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
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
		return fmt.Errorf("failed to create service indexes: %w", err)
	}
	return nil
}

func orderByIDs(ids []string, found []models.Service) ([]models.Service, error) {
	byID := make(map[string]models.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	out := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		out = append(out, s)
	}
	return out, nil
}
