package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateIdempotencyKey is returned when inserting an idempotency
	// record whose key already exists. Callers treat it as "another request
	// with the same key won the race" and read the winner's record back.
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already exists")

	// ErrDuplicateEmail is returned when registering an email that is taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store is the persistence contract shared by the orchestrators and the HTTP
// layer. Implementations exist for PostgreSQL and, for tests, in memory.
type Store interface {
	InsertOrder(ctx context.Context, o Order) error
	GetOrder(ctx context.Context, id string) (Order, error)

	InsertItemSnapshots(ctx context.Context, snaps []ItemSnapshot) error
	ListItemSnapshots(ctx context.Context, orderID string) ([]ItemSnapshot, error)

	// AppendEvent assigns the next per-order sequence number and persists the
	// event. Events are never updated or deleted.
	AppendEvent(ctx context.Context, ev Event) (Event, error)
	// ListEvents returns the order's events in sequence order.
	ListEvents(ctx context.Context, orderID string) ([]Event, error)

	InsertPayment(ctx context.Context, p Payment) error
	GetPayment(ctx context.Context, id string) (Payment, error)
	UpdatePaymentStatus(ctx context.Context, id, status string) error

	GetIdempotencyRecord(ctx context.Context, key string) (IdempotencyRecord, error)
	InsertIdempotencyRecord(ctx context.Context, rec IdempotencyRecord) error

	CartForUser(ctx context.Context, userID string) (Cart, error)
	EnsureCart(ctx context.Context, userID string) (Cart, error)
	UpsertCartLine(ctx context.Context, cartID, foodID string, quantity int) error
	DeleteCartLine(ctx context.Context, cartID, foodID string) error
	// ClearCart removes all lines; the cart row itself stays.
	ClearCart(ctx context.Context, cartID string) error

	InsertFood(ctx context.Context, f Food) error
	UpdateFood(ctx context.Context, f Food) error
	GetFood(ctx context.Context, id string) (Food, error)
	ListFoods(ctx context.Context) ([]Food, error)

	InsertUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// TxRunner executes fn inside one transaction. The Store handed to fn is bound
// to that transaction; if fn returns an error every write is rolled back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Store) error) error
}

// DB combines transactional execution with plain, auto-committed access.
type DB interface {
	Store
	TxRunner
}
