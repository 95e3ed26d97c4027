package repository

import (
	"context"
	"energylabel/internal/model"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatsRepo keeps periodic snapshots of label distributions
type StatsRepo interface {
	InsertSnapshot(ctx context.Context, s *model.LabelStats) error
	Latest(ctx context.Context, questionnaireID string) (*model.LabelStats, error)
}

type statsRepo struct {
	collection *mongo.Collection
}

func NewStatsRepo(db *mongo.Database) StatsRepo {
	return &statsRepo{
		collection: db.Collection("label_stats"),
	}
}

func (r *statsRepo) InsertSnapshot(ctx context.Context, s *model.LabelStats) error {
	_, err := r.collection.InsertOne(ctx, s)
	return err
}

func (r *statsRepo) Latest(ctx context.Context, questionnaireID string) (*model.LabelStats, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "takenAt", Value: -1}})

	var s model.LabelStats
	err := r.collection.FindOne(ctx, bson.M{"questionnaireId": questionnaireID}, opts).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
