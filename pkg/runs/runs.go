// Package runs records training runs so experiment history survives the
// process: a Mongo collection for queries and a flat CSV log for
// spreadsheets.
package runs

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amenhotep19/vqc/pkg/db"
	"github.com/amenhotep19/vqc/pkg/model"
)

const collection = "training_runs"

type TrainingRun struct {
	Dataset    string    `bson:"dataset" json:"dataset"`
	FinishedAt time.Time `bson:"finishedAt" json:"finishedAt"`
	Duration   float64   `bson:"duration" json:"duration"`

	TrainRows  int `bson:"trainRows" json:"trainRows"`
	TestRows   int `bson:"testRows" json:"testRows"`
	Features   int `bson:"features" json:"features"`
	NumClasses int `bson:"numClasses" json:"numClasses"`

	Params model.Params `bson:"params" json:"params"`

	Accuracy float64 `bson:"accuracy" json:"accuracy"`
	MeanF1   float64 `bson:"meanF1" json:"meanF1"`
}

func Record(ctx context.Context, database *mongo.Database, run TrainingRun) error {
	name := "dataset_finishedAt"
	if err := db.EnsureIndex(database, ctx, collection, mongo.IndexModel{
		Keys:    bson.D{{Key: "dataset", Value: 1}, {Key: "finishedAt", Value: -1}},
		Options: options.Index().SetName(name),
	}); err != nil {
		return err
	}

	_, err := database.Collection(collection).InsertOne(ctx, run)
	return err
}

// List returns the most recent runs for a dataset, newest first.
func List(ctx context.Context, database *mongo.Database, dataset string, limit int64) ([]TrainingRun, error) {
	cur, err := database.Collection(collection).Find(ctx,
		bson.M{"dataset": dataset},
		options.Find().SetSort(bson.D{{Key: "finishedAt", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []TrainingRun
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
