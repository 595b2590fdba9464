package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrStockConflict is returned by DecrementStock when the conditional
// update matches no document: the product is missing, inactive, or has
// fewer units left than requested.
var ErrStockConflict = errors.New("stock conflict: product unavailable or insufficient stock")

// Store encapsulates operations on the products collection.
type Store struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{coll: db.Collection("products")}
}

// Get fetches a product by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	var p Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

// List returns all active products.
func (s *Store) List(ctx context.Context) ([]Product, error) {
	cur, err := s.coll.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var products []Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *Store) Create(ctx context.Context, p *Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Update applies the given field set to a product. Returns (nil, nil)
// if the product does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Product, error) {
	fields["updatedAt"] = time.Now().UTC()
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return s.Get(ctx, id)
}

// Delete deactivates a product rather than removing the document, so
// historical order lines keep a resolvable reference.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"isActive":  false,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// DecrementStock atomically takes qty units off a product's stock. The
// filter requires the product to be active and hold at least qty units,
// so two buyers cannot both take the last unit.
func (s *Store) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "isActive": true, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrStockConflict
	}
	return nil
}

// RestoreStock returns qty units to a product's stock, the inverse of
// DecrementStock. Used when an order is cancelled.
func (s *Store) RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": qty}},
	)
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	return nil
}
