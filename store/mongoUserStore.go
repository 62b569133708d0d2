package store

import (
	"context"
	"time"

	"wardwatch-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserStore implements UserStore on a MongoDB collection.
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(coll *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{coll: coll}
}

func (s *MongoUserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"email": u.Email})
	if err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, ErrDuplicateEmail
	}

	now := time.Now()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *MongoUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *MongoUserStore) CountAdmins(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
}
