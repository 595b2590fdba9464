package cart

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the Mongo-backed cart repository. One document per user,
// upserted on save.
type Store struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{coll: db.Collection("carts")}
}

// Get fetches the user's cart. Returns (nil, nil) if the user has no
// cart document yet.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (*Cart, error) {
	var c Cart
	err := s.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return &c, nil
}

func (s *Store) Save(ctx context.Context, c *Cart) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"userId": c.UserID},
		bson.M{"$set": bson.M{
			"items":       c.Items,
			"totalItems":  c.TotalItems,
			"totalAmount": c.TotalAmount,
			"updatedAt":   c.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Clear empties the cart document in place. Used by checkout inside a
// transaction, where reloading and re-saving the cart would be wasted
// round trips.
func (s *Store) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{
			"items":       []Item{},
			"totalItems":  0,
			"totalAmount": 0.0,
		}},
	)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
