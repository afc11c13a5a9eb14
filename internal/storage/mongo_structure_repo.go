package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig contains connection settings for MongoDB structure repository.
type MongoConfig struct {
	URI        string // e.g. mongodb://localhost:27017
	Database   string // e.g. blockverse
	Collection string // e.g. structures
}

// MongoStructureRepo implements StructureRepo on MongoDB backend.
type MongoStructureRepo struct {
	client     *mongo.Client
	collection *mongo.Collection
	ctxTimeout time.Duration
}

// NewMongoStructureRepo establishes connection and returns repository.
func NewMongoStructureRepo(cfg MongoConfig) (*MongoStructureRepo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)

	// Unique index on name so Save performs replace-by-name.
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo index: %w", err)
	}

	return &MongoStructureRepo{
		client:     client,
		collection: coll,
		ctxTimeout: 10 * time.Second,
	}, nil
}

// Save upserts the structure record by name.
func (r *MongoStructureRepo) Save(ctx context.Context, rec *StructureRecord) error {
	if rec == nil || rec.Name == "" {
		return fmt.Errorf("invalid structure record")
	}

	ctx, cancel := context.WithTimeout(ctx, r.ctxTimeout)
	defer cancel()

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"name": rec.Name},
		rec,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo save %s: %w", rec.Name, err)
	}
	return nil
}

// Load finds the structure record by name.
func (r *MongoStructureRepo) Load(ctx context.Context, name string) (*StructureRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.ctxTimeout)
	defer cancel()

	var rec StructureRecord
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, ErrStructureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo load %s: %w", name, err)
	}
	return &rec, nil
}

// List returns summaries of all stored structures ordered by name.
func (r *MongoStructureRepo) List(ctx context.Context) ([]StructureSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.ctxTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []StructureSummary
	for cursor.Next(ctx) {
		var rec StructureRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("mongo decode: %w", err)
		}
		summaries = append(summaries, rec.Summary())
	}
	return summaries, cursor.Err()
}

// Delete removes the structure record by name.
func (r *MongoStructureRepo) Delete(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, r.ctxTimeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("mongo delete %s: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return ErrStructureNotFound
	}
	return nil
}

// Close disconnects from MongoDB.
func (r *MongoStructureRepo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.ctxTimeout)
	defer cancel()
	return r.client.Disconnect(ctx)
}
