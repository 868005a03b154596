package store

import (
	"encoding/json"
	"time"
)

// Event is one immutable fact in an order's lifecycle. Events are append-only:
// per order they form a sequence that is the sole source of truth for the
// order's current state. Only Type drives the state machine; Payload is kept
// for audit and is never parsed on the read path.
type Event struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Type      string          `json:"event_type"`
	CausedBy  string          `json:"caused_by"`
	PaymentID *string         `json:"payment_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Sequence  int             `json:"sequence"`
	CreatedAt time.Time       `json:"created_at"`
}

// Order carries identity only. It has no status column: status is derived from
// the event sequence every time it is needed.
type Order struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	IdempotencyKey string    `json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
}

// ItemSnapshot is a point-in-time copy of a cart line taken at checkout.
// Later catalog changes never touch it.
type ItemSnapshot struct {
	OrderID   string `json:"order_id"`
	FoodID    string `json:"food_id"`
	FoodName  string `json:"food_name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Payment records intent to charge. Amounts are in the smallest currency unit.
// Status changes are mirrored by events referencing the payment, which keeps
// the event log authoritative over this row.
type Payment struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Provider  string    `json:"provider"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// IdempotencyRecord maps a caller-supplied key to the order a previous
// checkout produced. Written last inside the checkout transaction so the
// cached result always points at a fully committed order.
type IdempotencyRecord struct {
	Key         string    `json:"key"`
	RequestHash string    `json:"request_hash"`
	OrderID     string    `json:"order_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Cart is one user's cart with its lines joined against the catalog, so
// readers see the current name, price and availability of each food.
type Cart struct {
	ID     string     `json:"id"`
	UserID string     `json:"user_id"`
	Lines  []CartLine `json:"lines"`
}

type CartLine struct {
	FoodID    string `json:"food_id"`
	FoodName  string `json:"food_name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Available bool   `json:"available"`
}

// Food is a catalog entry. Price is in the smallest currency unit.
type Food struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Available bool   `json:"available"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
