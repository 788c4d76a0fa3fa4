package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client holds a MongoDB connection bound to one database
type Client struct {
	client *mongo.Client
	dbName string
}

// NewClient connects to MongoDB and verifies the connection
func NewClient(uri, dbName string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return &Client{client: client, dbName: dbName}, nil
}

// Database returns the configured database
func (c *Client) Database() *mongo.Database {
	return c.client.Database(c.dbName)
}

// Collection returns a collection of the configured database
func (c *Client) Collection(name string) *mongo.Collection {
	return c.client.Database(c.dbName).Collection(name)
}

// Close disconnects from MongoDB
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}
