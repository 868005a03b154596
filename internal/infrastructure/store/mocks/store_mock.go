package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
)

// MockStore is an in-memory store.DB for tests. InTx works on a deep copy of
// the state and swaps it in on success, so a failing transaction really does
// leave nothing behind.
type MockStore struct {
	mu sync.Mutex
	d  *data

	// AppendCalls records every AppendEvent call, committed or not.
	AppendCalls []store.Event

	// Optional fault hooks, consulted before the normal behavior.
	GetIdempotencyFn    func(key string) (store.IdempotencyRecord, error)
	InsertIdempotencyFn func(rec store.IdempotencyRecord) error
	AppendEventErr      error
}

type data struct {
	orders      map[string]store.Order
	snapshots   map[string][]store.ItemSnapshot
	events      map[string][]store.Event
	payments    map[string]store.Payment
	idempotency map[string]store.IdempotencyRecord
	cartsByUser map[string]string         // userID -> cartID
	cartItems   map[string]map[string]int // cartID -> foodID -> quantity
	foods       map[string]store.Food
	users       map[string]store.User
}

func newData() *data {
	return &data{
		orders:      make(map[string]store.Order),
		snapshots:   make(map[string][]store.ItemSnapshot),
		events:      make(map[string][]store.Event),
		payments:    make(map[string]store.Payment),
		idempotency: make(map[string]store.IdempotencyRecord),
		cartsByUser: make(map[string]string),
		cartItems:   make(map[string]map[string]int),
		foods:       make(map[string]store.Food),
		users:       make(map[string]store.User),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.snapshots {
		c.snapshots[k] = append([]store.ItemSnapshot(nil), v...)
	}
	for k, v := range d.events {
		c.events[k] = append([]store.Event(nil), v...)
	}
	for k, v := range d.payments {
		c.payments[k] = v
	}
	for k, v := range d.idempotency {
		c.idempotency[k] = v
	}
	for k, v := range d.cartsByUser {
		c.cartsByUser[k] = v
	}
	for k, v := range d.cartItems {
		items := make(map[string]int, len(v))
		for f, q := range v {
			items[f] = q
		}
		c.cartItems[k] = items
	}
	for k, v := range d.foods {
		c.foods[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

func NewMockStore() *MockStore {
	return &MockStore{d: newData()}
}

// InTx clones the state, runs fn against the clone, and commits by swapping.
func (m *MockStore) InTx(ctx context.Context, fn func(store.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := m.d.clone()
	if err := fn(&session{m: m, d: clone}); err != nil {
		return err
	}
	m.d = clone
	return nil
}

// session reads and writes one view of the data. A nil d means auto-commit
// access against the live state, guarded by the mock's mutex.
type session struct {
	m *MockStore
	d *data
}

func (s *session) with(fn func(d *data) error) error {
	if s.d != nil {
		return fn(s.d)
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return fn(s.m.d)
}

// Auto-commit passthroughs on the mock itself.

func (m *MockStore) session() *session { return &session{m: m} }

func (m *MockStore) InsertOrder(ctx context.Context, o store.Order) error {
	return m.session().InsertOrder(ctx, o)
}
func (m *MockStore) GetOrder(ctx context.Context, id string) (store.Order, error) {
	return m.session().GetOrder(ctx, id)
}
func (m *MockStore) InsertItemSnapshots(ctx context.Context, snaps []store.ItemSnapshot) error {
	return m.session().InsertItemSnapshots(ctx, snaps)
}
func (m *MockStore) ListItemSnapshots(ctx context.Context, orderID string) ([]store.ItemSnapshot, error) {
	return m.session().ListItemSnapshots(ctx, orderID)
}
func (m *MockStore) AppendEvent(ctx context.Context, ev store.Event) (store.Event, error) {
	return m.session().AppendEvent(ctx, ev)
}
func (m *MockStore) ListEvents(ctx context.Context, orderID string) ([]store.Event, error) {
	return m.session().ListEvents(ctx, orderID)
}
func (m *MockStore) InsertPayment(ctx context.Context, p store.Payment) error {
	return m.session().InsertPayment(ctx, p)
}
func (m *MockStore) GetPayment(ctx context.Context, id string) (store.Payment, error) {
	return m.session().GetPayment(ctx, id)
}
func (m *MockStore) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	return m.session().UpdatePaymentStatus(ctx, id, status)
}
func (m *MockStore) GetIdempotencyRecord(ctx context.Context, key string) (store.IdempotencyRecord, error) {
	return m.session().GetIdempotencyRecord(ctx, key)
}
func (m *MockStore) InsertIdempotencyRecord(ctx context.Context, rec store.IdempotencyRecord) error {
	return m.session().InsertIdempotencyRecord(ctx, rec)
}
func (m *MockStore) CartForUser(ctx context.Context, userID string) (store.Cart, error) {
	return m.session().CartForUser(ctx, userID)
}
func (m *MockStore) EnsureCart(ctx context.Context, userID string) (store.Cart, error) {
	return m.session().EnsureCart(ctx, userID)
}
func (m *MockStore) UpsertCartLine(ctx context.Context, cartID, foodID string, quantity int) error {
	return m.session().UpsertCartLine(ctx, cartID, foodID, quantity)
}
func (m *MockStore) DeleteCartLine(ctx context.Context, cartID, foodID string) error {
	return m.session().DeleteCartLine(ctx, cartID, foodID)
}
func (m *MockStore) ClearCart(ctx context.Context, cartID string) error {
	return m.session().ClearCart(ctx, cartID)
}
func (m *MockStore) InsertFood(ctx context.Context, f store.Food) error {
	return m.session().InsertFood(ctx, f)
}
func (m *MockStore) UpdateFood(ctx context.Context, f store.Food) error {
	return m.session().UpdateFood(ctx, f)
}
func (m *MockStore) GetFood(ctx context.Context, id string) (store.Food, error) {
	return m.session().GetFood(ctx, id)
}
func (m *MockStore) ListFoods(ctx context.Context) ([]store.Food, error) {
	return m.session().ListFoods(ctx)
}
func (m *MockStore) InsertUser(ctx context.Context, u store.User) error {
	return m.session().InsertUser(ctx, u)
}
func (m *MockStore) GetUser(ctx context.Context, id string) (store.User, error) {
	return m.session().GetUser(ctx, id)
}
func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	return m.session().GetUserByEmail(ctx, email)
}

// Store implementation on session.

func (s *session) InsertOrder(ctx context.Context, o store.Order) error {
	return s.with(func(d *data) error {
		d.orders[o.ID] = o
		return nil
	})
}

func (s *session) GetOrder(ctx context.Context, id string) (store.Order, error) {
	var o store.Order
	err := s.with(func(d *data) error {
		var ok bool
		if o, ok = d.orders[id]; !ok {
			return store.ErrNotFound
		}
		return nil
	})
	return o, err
}

func (s *session) InsertItemSnapshots(ctx context.Context, snaps []store.ItemSnapshot) error {
	return s.with(func(d *data) error {
		for _, snap := range snaps {
			d.snapshots[snap.OrderID] = append(d.snapshots[snap.OrderID], snap)
		}
		return nil
	})
}

func (s *session) ListItemSnapshots(ctx context.Context, orderID string) ([]store.ItemSnapshot, error) {
	var snaps []store.ItemSnapshot
	err := s.with(func(d *data) error {
		snaps = append([]store.ItemSnapshot(nil), d.snapshots[orderID]...)
		return nil
	})
	return snaps, err
}

func (s *session) AppendEvent(ctx context.Context, ev store.Event) (store.Event, error) {
	err := s.with(func(d *data) error {
		s.m.AppendCalls = append(s.m.AppendCalls, ev)
		if s.m.AppendEventErr != nil {
			return s.m.AppendEventErr
		}
		ev.Sequence = len(d.events[ev.OrderID]) + 1
		d.events[ev.OrderID] = append(d.events[ev.OrderID], ev)
		return nil
	})
	if err != nil {
		return store.Event{}, err
	}
	return ev, nil
}

func (s *session) ListEvents(ctx context.Context, orderID string) ([]store.Event, error) {
	var events []store.Event
	err := s.with(func(d *data) error {
		events = append([]store.Event(nil), d.events[orderID]...)
		return nil
	})
	return events, err
}

func (s *session) InsertPayment(ctx context.Context, p store.Payment) error {
	return s.with(func(d *data) error {
		d.payments[p.ID] = p
		return nil
	})
}

func (s *session) GetPayment(ctx context.Context, id string) (store.Payment, error) {
	var p store.Payment
	err := s.with(func(d *data) error {
		var ok bool
		if p, ok = d.payments[id]; !ok {
			return store.ErrNotFound
		}
		return nil
	})
	return p, err
}

func (s *session) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	return s.with(func(d *data) error {
		p, ok := d.payments[id]
		if !ok {
			return store.ErrNotFound
		}
		p.Status = status
		d.payments[id] = p
		return nil
	})
}

func (s *session) GetIdempotencyRecord(ctx context.Context, key string) (store.IdempotencyRecord, error) {
	if s.m.GetIdempotencyFn != nil {
		return s.m.GetIdempotencyFn(key)
	}
	var rec store.IdempotencyRecord
	err := s.with(func(d *data) error {
		var ok bool
		if rec, ok = d.idempotency[key]; !ok {
			return store.ErrNotFound
		}
		return nil
	})
	return rec, err
}

func (s *session) InsertIdempotencyRecord(ctx context.Context, rec store.IdempotencyRecord) error {
	if s.m.InsertIdempotencyFn != nil {
		if err := s.m.InsertIdempotencyFn(rec); err != nil {
			return err
		}
	}
	return s.with(func(d *data) error {
		if _, exists := d.idempotency[rec.Key]; exists {
			return store.ErrDuplicateIdempotencyKey
		}
		d.idempotency[rec.Key] = rec
		return nil
	})
}

func (s *session) CartForUser(ctx context.Context, userID string) (store.Cart, error) {
	var c store.Cart
	err := s.with(func(d *data) error {
		cartID, ok := d.cartsByUser[userID]
		if !ok {
			return store.ErrNotFound
		}
		c = store.Cart{ID: cartID, UserID: userID}
		for foodID, qty := range d.cartItems[cartID] {
			f := d.foods[foodID]
			c.Lines = append(c.Lines, store.CartLine{
				FoodID:    foodID,
				FoodName:  f.Name,
				UnitPrice: f.Price,
				Quantity:  qty,
				Available: f.Available,
			})
		}
		sort.Slice(c.Lines, func(i, j int) bool { return c.Lines[i].FoodID < c.Lines[j].FoodID })
		return nil
	})
	return c, err
}

func (s *session) EnsureCart(ctx context.Context, userID string) (store.Cart, error) {
	var c store.Cart
	err := s.with(func(d *data) error {
		cartID, ok := d.cartsByUser[userID]
		if !ok {
			cartID = uuid.New().String()
			d.cartsByUser[userID] = cartID
			d.cartItems[cartID] = make(map[string]int)
		}
		c = store.Cart{ID: cartID, UserID: userID}
		return nil
	})
	return c, err
}

func (s *session) UpsertCartLine(ctx context.Context, cartID, foodID string, quantity int) error {
	return s.with(func(d *data) error {
		if d.cartItems[cartID] == nil {
			d.cartItems[cartID] = make(map[string]int)
		}
		d.cartItems[cartID][foodID] += quantity
		return nil
	})
}

func (s *session) DeleteCartLine(ctx context.Context, cartID, foodID string) error {
	return s.with(func(d *data) error {
		delete(d.cartItems[cartID], foodID)
		return nil
	})
}

func (s *session) ClearCart(ctx context.Context, cartID string) error {
	return s.with(func(d *data) error {
		d.cartItems[cartID] = make(map[string]int)
		return nil
	})
}

func (s *session) InsertFood(ctx context.Context, f store.Food) error {
	return s.with(func(d *data) error {
		d.foods[f.ID] = f
		return nil
	})
}

func (s *session) UpdateFood(ctx context.Context, f store.Food) error {
	return s.with(func(d *data) error {
		if _, ok := d.foods[f.ID]; !ok {
			return store.ErrNotFound
		}
		d.foods[f.ID] = f
		return nil
	})
}

func (s *session) GetFood(ctx context.Context, id string) (store.Food, error) {
	var f store.Food
	err := s.with(func(d *data) error {
		var ok bool
		if f, ok = d.foods[id]; !ok {
			return store.ErrNotFound
		}
		return nil
	})
	return f, err
}

func (s *session) ListFoods(ctx context.Context) ([]store.Food, error) {
	var foods []store.Food
	err := s.with(func(d *data) error {
		for _, f := range d.foods {
			foods = append(foods, f)
		}
		sort.Slice(foods, func(i, j int) bool { return foods[i].Name < foods[j].Name })
		return nil
	})
	return foods, err
}

func (s *session) InsertUser(ctx context.Context, u store.User) error {
	return s.with(func(d *data) error {
		for _, existing := range d.users {
			if existing.Email == u.Email {
				return store.ErrDuplicateEmail
			}
		}
		d.users[u.ID] = u
		return nil
	})
}

func (s *session) GetUser(ctx context.Context, id string) (store.User, error) {
	var u store.User
	err := s.with(func(d *data) error {
		var ok bool
		if u, ok = d.users[id]; !ok {
			return store.ErrNotFound
		}
		return nil
	})
	return u, err
}

func (s *session) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	var u store.User
	err := s.with(func(d *data) error {
		for _, candidate := range d.users {
			if candidate.Email == email {
				u = candidate
				return nil
			}
		}
		return store.ErrNotFound
	})
	return u, err
}
