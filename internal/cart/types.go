package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item is one cart line. Price is captured when the item is added and
// is not repriced when the catalog changes.
type Item struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type Cart struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Items       []Item             `bson:"items" json:"items"`
	TotalItems  int                `bson:"totalItems" json:"totalItems"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecomputeTotals rederives totalItems and totalAmount from the lines.
// Called before every persist so the stored totals never drift.
func (c *Cart) RecomputeTotals() {
	count := 0
	total := decimal.Zero
	for _, it := range c.Items {
		count += it.Quantity
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	c.TotalItems = count
	c.TotalAmount = total.Round(2).InexactFloat64()
}

func (c *Cart) findItem(productID primitive.ObjectID) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
