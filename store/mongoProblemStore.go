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

// MongoProblemStore implements ProblemStore on a MongoDB collection.
type MongoProblemStore struct {
	coll *mongo.Collection
}

func NewMongoProblemStore(coll *mongo.Collection) *MongoProblemStore {
	return &MongoProblemStore{coll: coll}
}

func (s *MongoProblemStore) Create(ctx context.Context, p models.Problem) (models.Problem, error) {
	if p.Priority == "" {
		p.Priority = models.Medium
	}
	if p.Status == "" {
		p.Status = models.StatusOpen
	}
	if err := validationError(p.Validate()); err != nil {
		return models.Problem{}, err
	}

	now := time.Now()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		return models.Problem{}, err
	}
	return p, nil
}

func problemQuery(f ProblemFilter) bson.M {
	query := bson.M{}
	if f.WardNumber != nil {
		query["wardNumber"] = *f.WardNumber
	}
	if f.Status != nil {
		query["status"] = *f.Status
	}
	if f.Category != nil {
		query["category"] = *f.Category
	}
	return query
}

func (s *MongoProblemStore) List(ctx context.Context, f ProblemFilter, page, pageSize int) (ProblemPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}

	query := problemQuery(f)

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return ProblemPage{}, err
	}

	skip := (page - 1) * pageSize
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(pageSize))

	cursor, err := s.coll.Find(ctx, query, findOptions)
	if err != nil {
		return ProblemPage{}, err
	}
	defer cursor.Close(ctx)

	problems := []models.Problem{}
	if err := cursor.All(ctx, &problems); err != nil {
		return ProblemPage{}, err
	}

	return ProblemPage{
		Problems:   problems,
		Total:      total,
		Page:       page,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (s *MongoProblemStore) Get(ctx context.Context, id primitive.ObjectID) (models.Problem, error) {
	var p models.Problem
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Problem{}, ErrNotFound
	}
	if err != nil {
		return models.Problem{}, err
	}
	return p, nil
}

func (s *MongoProblemStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, upd StatusUpdate) (models.Problem, error) {
	var errs []models.FieldError
	if !models.ValidStatus(upd.Status) {
		errs = append(errs, models.FieldError{Field: "status", Message: "invalid status"})
	}
	if upd.AdminNotes != nil && len(*upd.AdminNotes) > 1000 {
		errs = append(errs, models.FieldError{Field: "adminNotes", Message: "adminNotes must be at most 1000 characters"})
	}
	if err := validationError(errs); err != nil {
		return models.Problem{}, err
	}

	set := bson.M{
		"status":    upd.Status,
		"updatedAt": time.Now(),
	}
	if upd.AdminNotes != nil {
		set["adminNotes"] = *upd.AdminNotes
	}
	// resolvedAt is stamped when entering Resolved/Closed and never cleared;
	// updates back to Open/In Progress leave it as it was.
	if upd.Status == models.StatusResolved || upd.Status == models.StatusClosed {
		set["resolvedAt"] = time.Now()
	}

	return s.findOneAndSet(ctx, id, set)
}

func (s *MongoProblemStore) Assign(ctx context.Context, id primitive.ObjectID, assignee primitive.ObjectID) (models.Problem, error) {
	return s.findOneAndSet(ctx, id, bson.M{
		"assignedTo": assignee,
		"updatedAt":  time.Now(),
	})
}

// findOneAndSet applies a $set as a single atomic document update. Two
// concurrent updates to the same problem race at last-write-wins granularity.
func (s *MongoProblemStore) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M) (models.Problem, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var p models.Problem
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Problem{}, ErrNotFound
	}
	if err != nil {
		return models.Problem{}, err
	}
	return p, nil
}

func (s *MongoProblemStore) Stats(ctx context.Context, wardNumber *int) (StatsSummary, error) {
	match := bson.M{}
	if wardNumber != nil {
		match["wardNumber"] = *wardNumber
	}

	summary := StatsSummary{
		ByStatus:   []StatusCount{},
		ByCategory: []CategoryCount{},
		ByWard:     []WardCount{},
	}

	statusPipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	if err := s.aggregate(ctx, statusPipeline, &summary.ByStatus); err != nil {
		return StatsSummary{}, err
	}

	categoryPipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
	}
	if err := s.aggregate(ctx, categoryPipeline, &summary.ByCategory); err != nil {
		return StatsSummary{}, err
	}

	statusIs := func(status models.ProblemStatus) bson.M {
		return bson.M{"$sum": bson.M{"$cond": []interface{}{
			bson.M{"$eq": []interface{}{"$status", status}}, 1, 0,
		}}}
	}
	wardPipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":        "$wardNumber",
			"total":      bson.M{"$sum": 1},
			"open":       statusIs(models.StatusOpen),
			"inProgress": statusIs(models.StatusInProgress),
			"resolved":   statusIs(models.StatusResolved),
		}},
		{"$sort": bson.M{"_id": 1}},
	}
	if err := s.aggregate(ctx, wardPipeline, &summary.ByWard); err != nil {
		return StatsSummary{}, err
	}

	return summary, nil
}

func (s *MongoProblemStore) aggregate(ctx context.Context, pipeline []bson.M, out interface{}) error {
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (s *MongoProblemStore) CountByWard(ctx context.Context, wardNumber int) (int64, int64, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{"wardNumber": wardNumber})
	if err != nil {
		return 0, 0, err
	}
	active, err := s.coll.CountDocuments(ctx, bson.M{
		"wardNumber": wardNumber,
		"status":     bson.M{"$in": []models.ProblemStatus{models.StatusOpen, models.StatusInProgress}},
	})
	if err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (s *MongoProblemStore) RecentByWard(ctx context.Context, wardNumber, limit int) ([]models.Problem, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, bson.M{"wardNumber": wardNumber}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	problems := []models.Problem{}
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, err
	}
	return problems, nil
}
