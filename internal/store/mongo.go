package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
)

// MongoStore keeps one document per category path in a MongoDB collection.
// It implements the same repository interface as the filesystem store so the
// pipeline can publish the catalog to a database instead of a JSON tree.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoStore connects to MongoDB and pings it before returning.
func NewMongoStore(uri, database, collection string, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_store"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongodb" }

func (s *MongoStore) Get(categoryPath string) (*catalog.CategoryFile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cf catalog.CategoryFile
	err := s.collection.FindOne(ctx, bson.M{"categoryId": categoryPath}).Decode(&cf)
	if err == mongo.ErrNoDocuments {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, &catalog.StoreError{Backend: s.Name(), Path: categoryPath, Err: err}
	}
	return &cf, nil
}

func (s *MongoStore) Put(categoryPath string, cf *catalog.CategoryFile) error {
	cf.CategoryID = categoryPath
	cf.Touch(time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"categoryId": categoryPath},
		cf,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return &catalog.StoreError{Backend: s.Name(), Path: categoryPath, Err: err}
	}

	s.logger.Debug("category written", "path", categoryPath, "products", len(cf.Products))
	return nil
}

func (s *MongoStore) Delete(categoryPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.collection.DeleteOne(ctx, bson.M{"categoryId": categoryPath}); err != nil {
		return &catalog.StoreError{Backend: s.Name(), Path: categoryPath, Err: err}
	}
	return nil
}

func (s *MongoStore) List() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"categoryId": 1}).
		SetSort(bson.M{"categoryId": 1})
	cur, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, &catalog.StoreError{Backend: s.Name(), Err: err}
	}
	defer cur.Close(ctx)

	var paths []string
	for cur.Next(ctx) {
		var doc struct {
			CategoryID string `bson:"categoryId"`
		}
		if err := cur.Decode(&doc); err != nil {
			s.logger.Warn("skipping undecodable document", "error", err)
			continue
		}
		if isAggregatePath(doc.CategoryID) {
			continue
		}
		paths = append(paths, doc.CategoryID)
	}
	if err := cur.Err(); err != nil {
		return nil, &catalog.StoreError{Backend: s.Name(), Err: err}
	}
	return paths, nil
}

func (s *MongoStore) AllProductIDs() (map[string]struct{}, error) {
	return allProductIDs(s)
}

// Close disconnects the underlying client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
