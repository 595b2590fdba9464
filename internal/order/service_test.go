package order

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/apperr"
	"storefront-backend/internal/events"
)

type fakeOrderRepo struct {
	byID        map[primitive.ObjectID]*Order
	updateCalls int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byID: map[primitive.ObjectID]*Order{}}
}

func (f *fakeOrderRepo) Get(ctx context.Context, id primitive.ObjectID) (*Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	return &cp, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]Order, int64, error) {
	var out []Order
	for _, o := range f.byID {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) ListAll(ctx context.Context, status string, page, limit int) ([]Order, int64, error) {
	var out []Order
	for _, o := range f.byID {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, o *Order) error {
	f.updateCalls++
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	f.byID[o.ID] = &cp
	return nil
}

type fakeRestorer struct {
	restored map[primitive.ObjectID]int
}

func (f *fakeRestorer) RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	if f.restored == nil {
		f.restored = map[primitive.ObjectID]int{}
	}
	f.restored[id] += qty
	return nil
}

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePublisher struct {
	events []events.Event
}

func (f *fakePublisher) Publish(ctx context.Context, ev events.Event) error {
	f.events = append(f.events, ev)
	return nil
}

type fixture struct {
	svc      *Service
	repo     *fakeOrderRepo
	restorer *fakeRestorer
	pub      *fakePublisher
}

func newFixture() *fixture {
	repo := newFakeOrderRepo()
	restorer := &fakeRestorer{}
	pub := &fakePublisher{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		svc:      NewService(repo, restorer, fakeTx{}, pub, log),
		repo:     repo,
		restorer: restorer,
		pub:      pub,
	}
}

func (fx *fixture) seedOrder(userID primitive.ObjectID, status string, items ...Item) *Order {
	o := &Order{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		OrderNumber: "ORD-1748779200000-042",
		Items:       items,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	fx.repo.byID[o.ID] = o
	return o
}

func line(qty int) Item {
	return Item{ProductID: primitive.NewObjectID(), Name: "Widget", Price: 10, Quantity: qty}
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()

	t.Run("pending order cancels and restores stock", func(t *testing.T) {
		fx := newFixture()
		l1, l2 := line(2), line(5)
		o := fx.seedOrder(owner, StatusPending, l1, l2)

		got, err := fx.svc.Cancel(ctx, o.ID, owner)
		if err != nil {
			t.Fatalf("Cancel failed: %v", err)
		}
		if got.Status != StatusCancelled {
			t.Fatalf("expected Cancelled, got %s", got.Status)
		}
		if fx.restorer.restored[l1.ProductID] != 2 || fx.restorer.restored[l2.ProductID] != 5 {
			t.Fatalf("stock not restored per line: %+v", fx.restorer.restored)
		}
		if len(fx.pub.events) != 1 || fx.pub.events[0].Type != events.TypeOrderCancelled {
			t.Fatalf("expected order.cancelled event, got %+v", fx.pub.events)
		}
	})

	t.Run("processing order cancels", func(t *testing.T) {
		fx := newFixture()
		l := line(3)
		o := fx.seedOrder(owner, StatusProcessing, l)

		got, err := fx.svc.Cancel(ctx, o.ID, owner)
		if err != nil {
			t.Fatalf("Cancel failed: %v", err)
		}
		if got.Status != StatusCancelled || fx.restorer.restored[l.ProductID] != 3 {
			t.Fatalf("unexpected result: %+v restored=%+v", got, fx.restorer.restored)
		}
	})

	t.Run("delivered order cannot be cancelled", func(t *testing.T) {
		fx := newFixture()
		o := fx.seedOrder(owner, StatusDelivered, line(1))

		_, err := fx.svc.Cancel(ctx, o.ID, owner)
		if apperr.CodeOf(err) != apperr.CodeInvalidTransition {
			t.Fatalf("expected INVALID_STATUS_TRANSITION, got %v", err)
		}
		if len(fx.restorer.restored) != 0 || fx.repo.updateCalls != 0 {
			t.Fatal("state mutated for rejected cancel")
		}
	})

	t.Run("already cancelled order cannot be cancelled again", func(t *testing.T) {
		fx := newFixture()
		o := fx.seedOrder(owner, StatusCancelled, line(1))

		_, err := fx.svc.Cancel(ctx, o.ID, owner)
		if apperr.CodeOf(err) != apperr.CodeInvalidTransition {
			t.Fatalf("expected INVALID_STATUS_TRANSITION, got %v", err)
		}
		if len(fx.restorer.restored) != 0 {
			t.Fatal("stock restored twice")
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		fx := newFixture()
		o := fx.seedOrder(owner, StatusPending, line(1))

		_, err := fx.svc.Cancel(ctx, o.ID, primitive.NewObjectID())
		if apperr.KindOf(err) != apperr.KindForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		fx := newFixture()
		_, err := fx.svc.Cancel(ctx, primitive.NewObjectID(), owner)
		if apperr.KindOf(err) != apperr.KindNotFound {
			t.Fatalf("expected not-found, got %v", err)
		}
	})
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	pr := PaymentResult{ID: "PAY-123", Status: "COMPLETED"}

	t.Run("records payment and advances to Processing", func(t *testing.T) {
		fx := newFixture()
		o := fx.seedOrder(owner, StatusPending, line(1))

		got, err := fx.svc.MarkPaid(ctx, o.ID, owner, pr)
		if err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}
		if !got.IsPaid || got.PaidAt == nil || got.Status != StatusProcessing {
			t.Fatalf("unexpected state: %+v", got)
		}
		if got.PaymentResult == nil || got.PaymentResult.ID != "PAY-123" {
			t.Fatalf("payment result not stored: %+v", got.PaymentResult)
		}
	})

	t.Run("paying twice is a no-op", func(t *testing.T) {
		fx := newFixture()
		o := fx.seedOrder(owner, StatusPending, line(1))

		first, err := fx.svc.MarkPaid(ctx, o.ID, owner, pr)
		if err != nil {
			t.Fatalf("first MarkPaid failed: %v", err)
		}
		updates := fx.repo.updateCalls

		second, err := fx.svc.MarkPaid(ctx, o.ID, owner, PaymentResult{ID: "PAY-999", Status: "COMPLETED"})
		if err != nil {
			t.Fatalf("second MarkPaid failed: %v", err)
		}
		if fx.repo.updateCalls != updates {
			t.Fatal("second MarkPaid wrote to storage")
		}
		if second.PaymentResult.ID != first.PaymentResult.ID {
			t.Fatal("payment result overwritten on re-pay")
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		fx := newFixture()
		o := fx.seedOrder(owner, StatusPending, line(1))

		_, err := fx.svc.MarkPaid(ctx, o.ID, primitive.NewObjectID(), pr)
		if apperr.KindOf(err) != apperr.KindForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()

	t.Run("delivered sets delivery fields", func(t *testing.T) {
		fx := newFixture()
		o := fx.seedOrder(owner, StatusShipped, line(1))

		got, err := fx.svc.UpdateStatus(ctx, o.ID, StatusDelivered)
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if got.Status != StatusDelivered || !got.IsDelivered || got.DeliveredAt == nil {
			t.Fatalf("unexpected state: %+v", got)
		}
	})

	t.Run("cancelling via admin restores stock", func(t *testing.T) {
		fx := newFixture()
		l := line(4)
		o := fx.seedOrder(owner, StatusProcessing, l)

		got, err := fx.svc.UpdateStatus(ctx, o.ID, StatusCancelled)
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if got.Status != StatusCancelled || fx.restorer.restored[l.ProductID] != 4 {
			t.Fatalf("unexpected result: %+v restored=%+v", got, fx.restorer.restored)
		}
	})

	t.Run("terminal states are sticky", func(t *testing.T) {
		fx := newFixture()
		delivered := fx.seedOrder(owner, StatusDelivered, line(1))
		cancelled := fx.seedOrder(owner, StatusCancelled, line(1))

		if _, err := fx.svc.UpdateStatus(ctx, delivered.ID, StatusProcessing); apperr.CodeOf(err) != apperr.CodeInvalidTransition {
			t.Fatalf("expected INVALID_STATUS_TRANSITION for delivered order, got %v", err)
		}
		if _, err := fx.svc.UpdateStatus(ctx, cancelled.ID, StatusPending); apperr.CodeOf(err) != apperr.CodeInvalidTransition {
			t.Fatalf("expected INVALID_STATUS_TRANSITION for cancelled order, got %v", err)
		}
	})

	t.Run("setting the current status is a no-op", func(t *testing.T) {
		fx := newFixture()
		o := fx.seedOrder(owner, StatusShipped, line(1))

		got, err := fx.svc.UpdateStatus(ctx, o.ID, StatusShipped)
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if fx.repo.updateCalls != 0 {
			t.Fatal("no-op wrote to storage")
		}
		if got.Status != StatusShipped {
			t.Fatalf("unexpected status: %s", got.Status)
		}
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		fx := newFixture()
		o := fx.seedOrder(owner, StatusPending, line(1))

		_, err := fx.svc.UpdateStatus(ctx, o.ID, "Misplaced")
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestGetAuthorization(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	fx := newFixture()
	o := fx.seedOrder(owner, StatusPending, line(1))

	if _, err := fx.svc.Get(ctx, o.ID, owner, false); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := fx.svc.Get(ctx, o.ID, stranger, false); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
	if _, err := fx.svc.Get(ctx, o.ID, stranger, true); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
}

func TestPaginate(t *testing.T) {
	p := paginate(2, 10, 35)
	if p.TotalPages != 4 || !p.HasNext || !p.HasPrev || p.TotalOrders != 35 {
		t.Fatalf("unexpected pagination: %+v", p)
	}

	p = paginate(1, 10, 0)
	if p.TotalPages != 0 || p.HasNext || p.HasPrev {
		t.Fatalf("unexpected empty pagination: %+v", p)
	}
}
