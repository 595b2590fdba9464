package cart

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/apperr"
	"storefront-backend/internal/catalog"
)

// Repo persists carts keyed by owning user.
type Repo interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
}

// ProductGetter is the slice of the catalog the cart needs.
type ProductGetter interface {
	Get(ctx context.Context, id primitive.ObjectID) (*catalog.Product, error)
}

type Service struct {
	carts    Repo
	products ProductGetter
	nowFunc  func() time.Time
}

func NewService(carts Repo, products ProductGetter) *Service {
	return &Service{carts: carts, products: products, nowFunc: time.Now}
}

// Get returns the user's cart, creating an empty one on first access.
// Lines whose product has been removed or deactivated are filtered out
// and the filtered cart is persisted.
func (s *Service) Get(ctx context.Context, userID primitive.ObjectID) (*Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := c.Items[:0]
	dropped := false
	for _, it := range c.Items {
		p, err := s.products.Get(ctx, it.ProductID)
		if err != nil {
			return nil, apperr.Internal("failed to fetch cart", err)
		}
		if !p.Available() {
			dropped = true
			continue
		}
		kept = append(kept, it)
	}
	if dropped {
		c.Items = kept
		if err := s.persist(ctx, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddItem inserts a line for the product or increments an existing one,
// capturing the product's current price. The requested quantity, plus
// whatever is already in the cart, must not exceed stock.
func (s *Service) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*Cart, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, apperr.Internal("failed to add item to cart", err)
	}
	if !p.Available() {
		return nil, apperr.NotFound("Product not found or not available")
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	idx := c.findItem(productID)
	if idx >= 0 {
		newQuantity += c.Items[idx].Quantity
	}
	if p.Stock < newQuantity {
		return nil, apperr.BusinessRule(apperr.CodeInsufficientStock,
			"Only %d items available in stock", p.Stock)
	}

	if idx >= 0 {
		c.Items[idx].Quantity = newQuantity
	} else {
		c.Items = append(c.Items, Item{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
			Quantity:  quantity,
		})
	}

	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity overwrites a line's quantity after re-validating stock.
// Quantity zero removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*Cart, error) {
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, apperr.Internal("failed to update cart", err)
	}
	if !p.Available() {
		return nil, apperr.NotFound("Product not found or not available")
	}
	if p.Stock < quantity {
		return nil, apperr.BusinessRule(apperr.CodeInsufficientStock,
			"Only %d items available in stock", p.Stock)
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := c.findItem(productID)
	if idx < 0 {
		return nil, apperr.NotFound("Item not found in cart")
	}
	c.Items[idx].Quantity = quantity

	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := c.findItem(productID)
	if idx < 0 {
		return nil, apperr.NotFound("Item not found in cart")
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)

	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Clear(ctx context.Context, userID primitive.ObjectID) (*Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Items = []Item{}

	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) load(ctx context.Context, userID primitive.ObjectID) (*Cart, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch cart", err)
	}
	if c == nil {
		c = &Cart{UserID: userID, Items: []Item{}}
	}
	return c, nil
}

func (s *Service) persist(ctx context.Context, c *Cart) error {
	c.RecomputeTotals()
	c.UpdatedAt = s.nowFunc().UTC()
	if err := s.carts.Save(ctx, c); err != nil {
		return apperr.Internal("failed to save cart", err)
	}
	return nil
}
