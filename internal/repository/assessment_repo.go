package repository

import (
	"context"
	"energylabel/internal/model"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AssessmentRepo stores submitted sessions
type AssessmentRepo interface {
	Create(ctx context.Context, a *model.Assessment) error
	ListByQuestionnaire(ctx context.Context, questionnaireID string, limit int64) ([]*model.Assessment, error)
	CountByLabel(ctx context.Context, questionnaireID string) (map[string]int, error)
}

type assessmentRepo struct {
	collection *mongo.Collection
}

func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection("assessments"),
	}
}

func (r *assessmentRepo) Create(ctx context.Context, a *model.Assessment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, a)
	return err
}

// ListByQuestionnaire returns the newest assessments first
func (r *assessmentRepo) ListByQuestionnaire(ctx context.Context, questionnaireID string, limit int64) ([]*model.Assessment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"questionnaireId": questionnaireID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*model.Assessment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByLabel aggregates stored assessments per label
func (r *assessmentRepo) CountByLabel(ctx context.Context, questionnaireID string) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"questionnaireId": questionnaireID}}},
		{{Key: "$group", Value: bson.M{"_id": "$result.label", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int)
	for cursor.Next(ctx) {
		var row struct {
			Label string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Label] = row.Count
	}
	return counts, cursor.Err()
}
