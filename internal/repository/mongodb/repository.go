// Package mongodb contains the MongoDB-backed repositories. All stock
// mutation paths funnel through StockRepository; the other collections are
// append-only apart from the procurement compensation delete.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collStock        = "stock"
	collSales        = "sales"
	collCreditSales  = "credit_sales"
	collProcurements = "procurements"
	collUsers        = "users"
)

// Client wraps the mongo connection and hands out repositories bound to one
// database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes and pings a MongoDB connection.
func Connect(ctx context.Context, uri, dbName string) (*Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Client{client: client, db: client.Database(dbName)}, nil
}

// EnsureIndexes creates the indexes the core invariants rely on. The unique
// (branch, produceKey) index backs the one-row-per-produce-per-branch rule
// and turns the concurrent first-procurement race into a storage error
// instead of a silent duplicate.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	_, err := c.db.Collection(collStock).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "branch", Value: 1}, {Key: "produceKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create stock index: %w", err)
	}

	_, err = c.db.Collection(collUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}

	return nil
}

// Stock returns the stock repository.
func (c *Client) Stock() *StockRepository {
	return &StockRepository{coll: c.db.Collection(collStock)}
}

// Sales returns the sales repository.
func (c *Client) Sales() *SalesRepository {
	return &SalesRepository{
		cash:   c.db.Collection(collSales),
		credit: c.db.Collection(collCreditSales),
	}
}

// Procurements returns the procurement repository.
func (c *Client) Procurements() *ProcurementRepository {
	return &ProcurementRepository{coll: c.db.Collection(collProcurements)}
}

// Users returns the user repository.
func (c *Client) Users() *UserRepository {
	return &UserRepository{coll: c.db.Collection(collUsers)}
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
