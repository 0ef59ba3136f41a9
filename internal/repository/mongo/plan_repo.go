// internal/repository/mongo/plan_repo.go
package mongo

import (
	"alcyxob/studyplan-app/internal/domain"
	"alcyxob/studyplan-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "plans"

// planDocument wraps a domain.Plan with ownership and append-order metadata.
type planDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Plan      domain.Plan        `bson:",inline"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Append inserts a new plan document at the end of the user's history.
func (r *mongoPlanRepository) Append(ctx context.Context, userID string, plan *domain.Plan) error {
	if userID == "" || plan == nil {
		return errors.New("plan append requires userId and a plan")
	}
	doc := planDocument{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Plan:      *plan,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// GetAll returns the user's plans in append order (oldest first).
func (r *mongoPlanRepository) GetAll(ctx context.Context, userID string) ([]domain.Plan, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []planDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	plans := make([]domain.Plan, len(docs))
	for i, doc := range docs {
		plans[i] = doc.Plan
	}
	return plans, nil
}

// UpdateTaskCompletion sets the completed flag on one task of the user's
// most recent plan. The document filter carries an $elemMatch on date+taskId
// so a MatchedCount of zero reliably means "no such task" even when the
// update itself is a no-op (idempotent toggles).
func (r *mongoPlanRepository) UpdateTaskCompletion(ctx context.Context, userID, date, taskID string, completed bool) error {
	current, err := r.latestDocID(ctx, userID)
	if err != nil {
		return err
	}

	filter := bson.M{
		"_id": current,
		"dailySchedule": bson.M{
			"$elemMatch": bson.M{
				"date":     date,
				"tasks.id": taskID,
			},
		},
	}
	update := bson.M{
		"$set": bson.M{"dailySchedule.$[d].tasks.$[t].completed": completed},
	}
	updateOptions := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"d.date": date},
			bson.M{"t.id": taskID},
		},
	})

	result, err := r.collection.UpdateOne(ctx, filter, update, updateOptions)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// latestDocID finds the _id of the user's most recently appended plan.
func (r *mongoPlanRepository) latestDocID(ctx context.Context, userID string) (primitive.ObjectID, error) {
	findOptions := options.FindOne().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"_id": 1})

	var doc struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, findOptions).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, repository.ErrNotFound
		}
		return primitive.NilObjectID, err
	}
	return doc.ID, nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: a user's plans in append order
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Index creation failure is not fatal; queries still work unindexed.
	}
}
