package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection layout for the TTL cache.
const (
	cacheCollection = "scan_cache"
	connectTimeout  = 30 * time.Second
)

// MongoCache is a short-TTL key/value cache backed by a MongoDB
// collection with a TTL index on expires_at. Mongo's TTL monitor sweeps
// lazily, so reads also check expiry themselves.
type MongoCache struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type cacheDoc struct {
	ID        string        `bson:"_id"`
	Value     bson.RawValue `bson:"value"`
	ExpiresAt time.Time     `bson:"expires_at"`
}

// NewMongoCache connects to MongoDB and prepares the cache collection.
func NewMongoCache(ctx context.Context, uri, dbName string) (*MongoCache, error) {
	if uri == "" {
		return nil, errors.New("mongodb uri not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetMaxPoolSize(10).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(connectTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	c := &MongoCache{
		client:     client,
		collection: client.Database(dbName).Collection(cacheCollection),
	}

	// TTL index: documents are removed once expires_at passes.
	_, err = c.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("create ttl index: %w", err)
	}

	return c, nil
}

// Set upserts a value under key with the given TTL.
func (c *MongoCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	doc := bson.M{
		"_id":        key,
		"value":      value,
		"expires_at": time.Now().Add(ttl),
	}

	_, err := c.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Get loads the value under key into out. Returns (false, nil) on a miss
// or an expired entry.
func (c *MongoCache) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	var doc cacheDoc
	err := c.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if time.Now().After(doc.ExpiresAt) {
		return false, nil
	}
	if err := doc.Value.Unmarshal(out); err != nil {
		return false, fmt.Errorf("decode cache value for %s: %w", key, err)
	}
	return true, nil
}

// Close disconnects the underlying client.
func (c *MongoCache) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}
