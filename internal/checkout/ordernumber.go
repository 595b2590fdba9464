package checkout

import (
	"fmt"
	"math/rand"
	"time"
)

const orderNumberPrefix = "ORD"

// NewOrderNumber builds a human-readable order number from the
// millisecond timestamp plus a 3-digit random suffix. Uniqueness is
// enforced by the storage index, not by construction; callers retry
// on collision.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("%s-%d-%03d", orderNumberPrefix, now.UnixMilli(), rand.Intn(1000))
}
