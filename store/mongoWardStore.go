package store

import (
	"context"
	"time"

	"wardwatch-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWardStore implements WardStore on a MongoDB collection.
type MongoWardStore struct {
	coll *mongo.Collection
}

func NewMongoWardStore(coll *mongo.Collection) *MongoWardStore {
	return &MongoWardStore{coll: coll}
}

// EnsureWardIndex creates a unique partial index so that at most one active
// ward exists per ward number.
func EnsureWardIndex(coll *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "wardNumber", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"isActive": true}),
	}

	_, err := coll.Indexes().CreateOne(ctx, indexModel)
	return err
}

func activeWard(wardNumber int) bson.M {
	return bson.M{"wardNumber": wardNumber, "isActive": true}
}

func (s *MongoWardStore) Create(ctx context.Context, w models.Ward) (models.Ward, error) {
	if err := validationError(w.Validate()); err != nil {
		return models.Ward{}, err
	}

	count, err := s.coll.CountDocuments(ctx, activeWard(w.WardNumber))
	if err != nil {
		return models.Ward{}, err
	}
	if count > 0 {
		return models.Ward{}, ErrDuplicateWard
	}

	now := time.Now()
	w.ID = primitive.NewObjectID()
	w.IsActive = true
	w.CreatedAt = now
	w.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, w); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Ward{}, ErrDuplicateWard
		}
		return models.Ward{}, err
	}
	return w, nil
}

func (s *MongoWardStore) Update(ctx context.Context, wardNumber int, patch models.WardPatch) (models.Ward, error) {
	current, err := s.Get(ctx, wardNumber)
	if err != nil {
		return models.Ward{}, err
	}

	patched := patch.Apply(current)
	if err := validationError(patched.Validate()); err != nil {
		return models.Ward{}, err
	}
	patched.UpdatedAt = time.Now()

	after := options.After
	opts := options.FindOneAndReplace().SetReturnDocument(after)

	var updated models.Ward
	err = s.coll.FindOneAndReplace(ctx, activeWard(wardNumber), patched, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return models.Ward{}, ErrNotFound
	}
	if err != nil {
		return models.Ward{}, err
	}
	return updated, nil
}

func (s *MongoWardStore) Get(ctx context.Context, wardNumber int) (models.Ward, error) {
	var w models.Ward
	err := s.coll.FindOne(ctx, activeWard(wardNumber)).Decode(&w)
	if err == mongo.ErrNoDocuments {
		return models.Ward{}, ErrNotFound
	}
	if err != nil {
		return models.Ward{}, err
	}
	return w, nil
}

func (s *MongoWardStore) List(ctx context.Context) ([]models.Ward, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "wardNumber", Value: 1}})

	cursor, err := s.coll.Find(ctx, bson.M{"isActive": true}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	wards := []models.Ward{}
	if err := cursor.All(ctx, &wards); err != nil {
		return nil, err
	}
	return wards, nil
}

func (s *MongoWardStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}
