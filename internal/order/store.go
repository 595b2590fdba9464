package order

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateOrderNumber is returned by Insert when the generated
// order number collides with an existing one; the caller regenerates
// and retries.
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

// Store encapsulates operations on the orders collection.
type Store struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{coll: db.Collection("orders")}
}

// EnsureIndexes creates the unique orderNumber index and the userId
// index used by List. Called once at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create order indexes: %w", err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, o *Order) error {
	res, err := s.coll.InsertOne(ctx, o)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("insert order: %w", err)
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Get fetches an order by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (*Order, error) {
	var o Order
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &o, nil
}

// ListByUser returns one page of the user's orders, newest first, plus
// the total count for pagination.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]Order, int64, error) {
	return s.list(ctx, bson.M{"userId": userID}, page, limit)
}

// ListAll returns one page of all orders, optionally filtered by
// status. Admin use only.
func (s *Store) ListAll(ctx context.Context, status string, page, limit int) ([]Order, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter, page, limit)
}

func (s *Store) list(ctx context.Context, filter bson.M, page, limit int) ([]Order, int64, error) {
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	var orders []Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}
	return orders, total, nil
}

// Update replaces the mutable overlay of an order: status, payment and
// delivery fields.
func (s *Store) Update(ctx context.Context, o *Order) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": o.ID}, bson.M{"$set": bson.M{
		"status":        o.Status,
		"isPaid":        o.IsPaid,
		"paidAt":        o.PaidAt,
		"paymentResult": o.PaymentResult,
		"isDelivered":   o.IsDelivered,
		"deliveredAt":   o.DeliveredAt,
		"updatedAt":     o.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}
