package order

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/apperr"
	"storefront-backend/internal/events"
)

// Repo persists orders.
type Repo interface {
	Get(ctx context.Context, id primitive.ObjectID) (*Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]Order, int64, error)
	ListAll(ctx context.Context, status string, page, limit int) ([]Order, int64, error)
	Update(ctx context.Context, o *Order) error
}

// StockRestorer returns units to the catalog when an order is cancelled.
type StockRestorer interface {
	RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// TxRunner executes fn atomically; every storage call inside fn must
// use the context fn receives.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service drives the order status state machine.
type Service struct {
	orders   Repo
	products StockRestorer
	tx       TxRunner
	pub      events.Publisher
	log      *slog.Logger
	nowFunc  func() time.Time
}

func NewService(orders Repo, products StockRestorer, tx TxRunner, pub events.Publisher, log *slog.Logger) *Service {
	return &Service{
		orders:   orders,
		products: products,
		tx:       tx,
		pub:      pub,
		log:      log,
		nowFunc:  time.Now,
	}
}

// Get returns the order if the requester owns it or is an admin.
func (s *Service) Get(ctx context.Context, orderID, requesterID primitive.ObjectID, isAdmin bool) (*Order, error) {
	o, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != requesterID && !isAdmin {
		return nil, apperr.Forbidden("Not authorized to view this order")
	}
	return o, nil
}

// List returns one page of the user's orders, newest first.
func (s *Service) List(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]Order, Pagination, error) {
	page, limit = normalizePage(page, limit)
	orders, total, err := s.orders.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, Pagination{}, apperr.Internal("failed to fetch orders", err)
	}
	return orders, paginate(page, limit, total), nil
}

// AdminList returns one page of all orders, optionally filtered by status.
func (s *Service) AdminList(ctx context.Context, status string, page, limit int) ([]Order, Pagination, error) {
	if status != "" && !ValidStatus(status) {
		return nil, Pagination{}, apperr.Newf(apperr.KindValidation, "Invalid status: %s", status)
	}
	page, limit = normalizePage(page, limit)
	orders, total, err := s.orders.ListAll(ctx, status, page, limit)
	if err != nil {
		return nil, Pagination{}, apperr.Internal("failed to fetch orders", err)
	}
	return orders, paginate(page, limit, total), nil
}

// Cancel moves the order to Cancelled and restores each line's stock,
// the inverse of checkout's decrement. Delivered and already-Cancelled
// orders cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, orderID, requesterID primitive.ObjectID) (*Order, error) {
	o, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != requesterID {
		return nil, apperr.Forbidden("Not authorized to cancel this order")
	}
	if o.Terminal() {
		return nil, apperr.BusinessRule(apperr.CodeInvalidTransition,
			"Cannot cancel order with status: %s", o.Status)
	}

	if err := s.cancelTx(ctx, o); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeOrderCancelled, o)
	return o, nil
}

// MarkPaid records a payment result and advances the order to
// Processing. Paying an already-paid order is a no-op returning the
// order unchanged.
func (s *Service) MarkPaid(ctx context.Context, orderID, requesterID primitive.ObjectID, pr PaymentResult) (*Order, error) {
	o, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != requesterID {
		return nil, apperr.Forbidden("Not authorized to update this order")
	}
	if o.IsPaid {
		return o, nil
	}

	now := s.nowFunc().UTC()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = &pr
	o.Status = StatusProcessing
	o.UpdatedAt = now
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, apperr.Internal("failed to update payment", err)
	}
	s.publish(ctx, events.TypeOrderStatusChanged, o)
	return o, nil
}

// UpdateStatus sets an order's status directly; authorization is the
// caller's concern (admin routes). Terminal states are sticky: a
// Delivered or Cancelled order cannot be moved to another status.
// Setting the current status again is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, apperr.Newf(apperr.KindValidation, "Invalid status: %s", status)
	}

	o, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == status {
		return o, nil
	}
	if o.Terminal() {
		return nil, apperr.BusinessRule(apperr.CodeInvalidTransition,
			"Cannot change status of %s order", o.Status)
	}

	if status == StatusCancelled {
		if err := s.cancelTx(ctx, o); err != nil {
			return nil, err
		}
		s.publish(ctx, events.TypeOrderCancelled, o)
		return o, nil
	}

	now := s.nowFunc().UTC()
	o.Status = status
	if status == StatusDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, apperr.Internal("failed to update order status", err)
	}
	s.publish(ctx, events.TypeOrderStatusChanged, o)
	return o, nil
}

// cancelTx flips the order to Cancelled and restores stock for every
// line inside one transaction.
func (s *Service) cancelTx(ctx context.Context, o *Order) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o.Status = StatusCancelled
		o.UpdatedAt = s.nowFunc().UTC()
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		for _, it := range o.Items {
			if err := s.products.RestoreStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.Internal("failed to cancel order", err)
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, orderID primitive.ObjectID) (*Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch order", err)
	}
	if o == nil {
		return nil, apperr.NotFound("Order not found")
	}
	return o, nil
}

func (s *Service) publish(ctx context.Context, eventType string, o *Order) {
	ev := events.Event{
		Type:        eventType,
		OrderID:     o.ID.Hex(),
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID.Hex(),
		Status:      o.Status,
		OccurredAt:  s.nowFunc().UTC(),
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish order event",
			"type", eventType, "orderId", ev.OrderID, "error", err)
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func paginate(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalOrders: total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
