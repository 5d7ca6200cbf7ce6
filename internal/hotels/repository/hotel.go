package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	hotelserrors "stayhub/internal/hotels/errors"
	"stayhub/pkg/config"
	"stayhub/pkg/model"
)

const (
	HotelCollection = "Hotels"
	RoomCollection  = "Rooms"
)

type HotelRepository interface {
	Create(ctx context.Context, hotel *model.Hotel) error
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
	FindByOwner(ctx context.Context, ownerID string) (*model.Hotel, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Hotel, error)
}

type mongoHotelRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHotelRepository(cfg *config.Config) HotelRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHotelRepository{
		cfg:        cfg,
		collection: db.Collection(HotelCollection),
	}
}

// withTimeout bounds a store call unless the context already carries a
// tighter deadline or belongs to a transaction session.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	hotel.CreatedAt = now
	hotel.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, hotel)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return hotelserrors.ErrOwnerHasHotel
		}
		return fmt.Errorf("failed to create hotel: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		hotel.ID = oid.Hex()
	}
	return nil
}

func (r *mongoHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", hotelserrors.ErrInvalidID, id)
	}

	var hotel model.Hotel
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&hotel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hotelserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find hotel: %w", err)
	}

	return &hotel, nil
}

func (r *mongoHotelRepository) FindByOwner(ctx context.Context, ownerID string) (*model.Hotel, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var hotel model.Hotel
	err := r.collection.FindOne(ctx, bson.M{"owner": ownerID}).Decode(&hotel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hotelserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find hotel by owner: %w", err)
	}

	return &hotel, nil
}

func (r *mongoHotelRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Hotel, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, oid)
	}
	if len(objectIDs) == 0 {
		return map[string]*model.Hotel{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find hotels: %w", err)
	}
	defer cursor.Close(ctx)

	var hotels []*model.Hotel
	if err = cursor.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}

	byID := make(map[string]*model.Hotel, len(hotels))
	for _, hotel := range hotels {
		byID[hotel.ID] = hotel
	}
	return byID, nil
}
