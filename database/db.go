package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Mongo owns a MongoDB client handle. Connections are established lazily,
// health-checked with a ping before reuse and rebuilt when the ping fails,
// so a dropped connection recovers on the next call instead of poisoning
// every request after it.
type Mongo struct {
	uri    string
	dbName string

	mu     sync.Mutex
	client *mongo.Client
}

// NewMongo creates a Mongo handle. No connection is made until the first
// Database call.
func NewMongo(uri, dbName string) *Mongo {
	return &Mongo{uri: uri, dbName: dbName}
}

// Database returns a healthy database handle, reconnecting if needed.
func (m *Mongo) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := m.healthyClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(m.dbName), nil
}

// Collection returns a healthy collection handle, reconnecting if needed.
func (m *Mongo) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := m.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (m *Mongo) healthyClient(ctx context.Context) (*mongo.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err := m.client.Ping(pingCtx, readpref.Primary())
		cancel()
		if err == nil {
			return m.client, nil
		}
		zap.L().Warn("MongoDB ping failed, reconnecting", zap.Error(err))
		_ = m.client.Disconnect(context.Background())
		m.client = nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(m.uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	zap.L().Info("Connected to MongoDB", zap.String("database", m.dbName))
	m.client = client
	return m.client, nil
}

// Close disconnects the underlying client if one exists.
func (m *Mongo) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	return err
}
