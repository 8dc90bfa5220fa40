// internal/output/mongodb.go
package output

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"oddscrawler/internal/scraper"
)

// MongoWriter upserts matches into a MongoDB collection keyed by match
// URL.
type MongoWriter struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoWriter connects to MongoDB and prepares the target
// collection.
func NewMongoWriter(connectionString, database, collection string) (*MongoWriter, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("MongoDB connection string is required")
	}
	if database == "" {
		return nil, fmt.Errorf("MongoDB database name is required")
	}
	if collection == "" {
		collection = "matches"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	coll := client.Database(database).Collection(collection)

	// The URL index backs the upserts.
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create URL index: %w", err)
	}

	return &MongoWriter{client: client, collection: coll}, nil
}

// Write replaces each match document by URL, inserting it when new.
func (w *MongoWriter) Write(ctx context.Context, records []*scraper.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(records))
	for _, record := range records {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"url": record.URL}).
			SetReplacement(record).
			SetUpsert(true))
	}

	_, err := w.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to upsert %d matches: %w", len(records), err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (w *MongoWriter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return w.client.Disconnect(ctx)
}
