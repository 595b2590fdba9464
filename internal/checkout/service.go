// Package checkout converts a cart into an order. It re-validates
// every line against the live catalog, prices the order, persists it,
// decrements stock, and clears the cart, all inside one transaction,
// so a failure at any step leaves nothing half-applied.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/apperr"
	"storefront-backend/internal/cart"
	"storefront-backend/internal/catalog"
	"storefront-backend/internal/events"
	"storefront-backend/internal/order"
)

// Bounded retries against orderNumber collisions; with a 3-digit
// random suffix per millisecond a second collision is already rare.
const maxOrderNumberAttempts = 3

// ProductStore is the catalog surface checkout needs: fresh reads and
// the conditional decrement.
type ProductStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*catalog.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// CartStore reads and clears the buyer's cart.
type CartStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*cart.Cart, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// OrderInserter persists new orders.
type OrderInserter interface {
	Insert(ctx context.Context, o *order.Order) error
}

// TxRunner executes fn atomically; every storage call inside fn must
// use the context fn receives.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Input carries the buyer-supplied checkout fields, already validated
// at the HTTP boundary.
type Input struct {
	ShippingAddress order.ShippingAddress
	PaymentMethod   string
	Notes           string
}

type Service struct {
	products ProductStore
	carts    CartStore
	orders   OrderInserter
	tx       TxRunner
	pub      events.Publisher
	log      *slog.Logger
	nowFunc  func() time.Time
}

func NewService(products ProductStore, carts CartStore, orders OrderInserter, tx TxRunner, pub events.Publisher, log *slog.Logger) *Service {
	return &Service{
		products: products,
		carts:    carts,
		orders:   orders,
		tx:       tx,
		pub:      pub,
		log:      log,
		nowFunc:  time.Now,
	}
}

// Checkout creates a Pending order from the user's cart.
//
// Each cart line is re-read from the catalog at checkout time: order
// items copy the product's current name, image and price, not the
// price captured when the item was added. Stock is taken with the
// catalog's conditional decrement, so concurrent checkouts of the last
// unit cannot both succeed.
func (s *Service) Checkout(ctx context.Context, userID primitive.ObjectID, in Input) (*order.Order, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch cart", err)
	}
	if c == nil || len(c.Items) == 0 {
		return nil, apperr.BusinessRule(apperr.CodeEmptyCart, "Cart is empty")
	}

	var ord *order.Order
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		items := make([]order.Item, 0, len(c.Items))
		itemsPrice := decimal.Zero
		for _, line := range c.Items {
			p, err := s.products.Get(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if !p.Available() {
				return apperr.BusinessRule(apperr.CodeUnavailable,
					"Product %s is no longer available", line.Name)
			}
			if p.Stock < line.Quantity {
				return apperr.BusinessRule(apperr.CodeInsufficientStock,
					"Insufficient stock for %s. Only %d available", p.Name, p.Stock)
			}
			items = append(items, order.Item{
				ProductID: p.ID,
				Name:      p.Name,
				Image:     p.Image,
				Price:     p.Price,
				Quantity:  line.Quantity,
			})
			itemsPrice = itemsPrice.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		quote := PriceQuote(itemsPrice)
		now := s.nowFunc().UTC()
		ord = &order.Order{
			UserID:          userID,
			Items:           items,
			ShippingAddress: in.ShippingAddress,
			PaymentMethod:   in.PaymentMethod,
			ItemsPrice:      quote.ItemsPrice,
			TaxPrice:        quote.TaxPrice,
			ShippingPrice:   quote.ShippingPrice,
			TotalPrice:      quote.TotalPrice,
			IsPaid:          false,
			IsDelivered:     false,
			Status:          order.StatusPending,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.insertWithFreshNumber(ctx, ord); err != nil {
			return err
		}

		for _, it := range items {
			if err := s.products.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				if errors.Is(err, catalog.ErrStockConflict) {
					return apperr.BusinessRule(apperr.CodeInsufficientStock,
						"Insufficient stock for %s", it.Name)
				}
				return err
			}
		}

		return s.carts.Clear(ctx, userID)
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, apperr.Internal("failed to create order", err)
	}

	s.publishCreated(ctx, ord)
	return ord, nil
}

func (s *Service) insertWithFreshNumber(ctx context.Context, ord *order.Order) error {
	var err error
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		ord.OrderNumber = NewOrderNumber(s.nowFunc())
		err = s.orders.Insert(ctx, ord)
		if err == nil {
			return nil
		}
		if !errors.Is(err, order.ErrDuplicateOrderNumber) {
			return err
		}
	}
	return err
}

func (s *Service) publishCreated(ctx context.Context, ord *order.Order) {
	ev := events.Event{
		Type:        events.TypeOrderCreated,
		OrderID:     ord.ID.Hex(),
		OrderNumber: ord.OrderNumber,
		UserID:      ord.UserID.Hex(),
		Status:      ord.Status,
		OccurredAt:  s.nowFunc().UTC(),
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish order event",
			"type", ev.Type, "orderId", ev.OrderID, "error", err)
	}
}
