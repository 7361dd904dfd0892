package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mukwano/agrotrack/internal/domain/models"
)

// UserRepository owns the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

// Insert persists a new user. The unique username index rejects duplicates.
func (r *UserRepository) Insert(ctx context.Context, user models.User) (models.User, error) {
	user.CreatedAt = time.Now().UTC()

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("user insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return user, nil
}

// FindByUsername looks a user up by exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, bool, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("user lookup: %w", err)
	}
	return user, true, nil
}
