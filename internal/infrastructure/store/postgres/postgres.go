package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
)

// queryer is satisfied by both *sql.DB and *sql.Tx, so every query below runs
// unchanged inside or outside a transaction.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB is the PostgreSQL-backed store.
type DB struct {
	db *sql.DB
	session
}

// Open connects to PostgreSQL and configures the pool.
func Open(connStr string) (*DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{db: db, session: session{q: db}}, nil
}

func (d *DB) Close() error { return d.db.Close() }

// InTx runs fn inside one SERIALIZABLE transaction. Serializable isolation is
// what prevents two concurrent writers from both appending the same next
// event off the same derived state.
func (d *DB) InTx(ctx context.Context, fn func(store.Store) error) error {
	tx, err := d.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&session{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// session implements store.Store over either the pool or one transaction.
type session struct {
	q queryer
}

// Orders

func (s *session) InsertOrder(ctx context.Context, o store.Order) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, idempotency_key, created_at)
		 VALUES ($1, $2, $3, $4)`,
		o.ID, o.UserID, o.IdempotencyKey, o.CreatedAt)
	return err
}

func (s *session) GetOrder(ctx context.Context, id string) (store.Order, error) {
	var o store.Order
	err := s.q.QueryRowContext(ctx,
		`SELECT id, user_id, idempotency_key, created_at FROM orders WHERE id = $1`,
		id).Scan(&o.ID, &o.UserID, &o.IdempotencyKey, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Order{}, store.ErrNotFound
	}
	return o, err
}

// Item snapshots

func (s *session) InsertItemSnapshots(ctx context.Context, snaps []store.ItemSnapshot) error {
	for _, snap := range snaps {
		_, err := s.q.ExecContext(ctx,
			`INSERT INTO order_item_snapshots (order_id, food_id, food_name, unit_price, quantity)
			 VALUES ($1, $2, $3, $4, $5)`,
			snap.OrderID, snap.FoodID, snap.FoodName, snap.UnitPrice, snap.Quantity)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *session) ListItemSnapshots(ctx context.Context, orderID string) ([]store.ItemSnapshot, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT order_id, food_id, food_name, unit_price, quantity
		 FROM order_item_snapshots WHERE order_id = $1 ORDER BY food_id`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []store.ItemSnapshot
	for rows.Next() {
		var snap store.ItemSnapshot
		if err := rows.Scan(&snap.OrderID, &snap.FoodID, &snap.FoodName, &snap.UnitPrice, &snap.Quantity); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Events

func (s *session) AppendEvent(ctx context.Context, ev store.Event) (store.Event, error) {
	// The unique index on (order_id, sequence) makes a concurrent double
	// append collide instead of both committing.
	err := s.q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sequence), 0) + 1 FROM order_events WHERE order_id = $1`,
		ev.OrderID).Scan(&ev.Sequence)
	if err != nil {
		return store.Event{}, err
	}

	_, err = s.q.ExecContext(ctx,
		`INSERT INTO order_events (id, order_id, event_type, caused_by, payment_id, payload, sequence, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.ID, ev.OrderID, ev.Type, ev.CausedBy, ev.PaymentID, []byte(ev.Payload), ev.Sequence, ev.CreatedAt)
	if err != nil {
		return store.Event{}, err
	}
	return ev, nil
}

func (s *session) ListEvents(ctx context.Context, orderID string) ([]store.Event, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, order_id, event_type, caused_by, payment_id, payload, sequence, created_at
		 FROM order_events WHERE order_id = $1 ORDER BY sequence ASC`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []store.Event
	for rows.Next() {
		var (
			ev        store.Event
			paymentID sql.NullString
			payload   []byte
		)
		if err := rows.Scan(&ev.ID, &ev.OrderID, &ev.Type, &ev.CausedBy, &paymentID, &payload, &ev.Sequence, &ev.CreatedAt); err != nil {
			return nil, err
		}
		if paymentID.Valid {
			ev.PaymentID = &paymentID.String
		}
		ev.Payload = payload
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Payments

func (s *session) InsertPayment(ctx context.Context, p store.Payment) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO payments (id, order_id, provider, amount, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.OrderID, p.Provider, p.Amount, p.Status, p.CreatedAt)
	return err
}

func (s *session) GetPayment(ctx context.Context, id string) (store.Payment, error) {
	var p store.Payment
	err := s.q.QueryRowContext(ctx,
		`SELECT id, order_id, provider, amount, status, created_at FROM payments WHERE id = $1`,
		id).Scan(&p.ID, &p.OrderID, &p.Provider, &p.Amount, &p.Status, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Payment{}, store.ErrNotFound
	}
	return p, err
}

func (s *session) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE payments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Idempotency

func (s *session) GetIdempotencyRecord(ctx context.Context, key string) (store.IdempotencyRecord, error) {
	var rec store.IdempotencyRecord
	err := s.q.QueryRowContext(ctx,
		`SELECT key, request_hash, order_id, created_at FROM idempotency_keys WHERE key = $1`,
		key).Scan(&rec.Key, &rec.RequestHash, &rec.OrderID, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.IdempotencyRecord{}, store.ErrNotFound
	}
	return rec, err
}

func (s *session) InsertIdempotencyRecord(ctx context.Context, rec store.IdempotencyRecord) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO idempotency_keys (key, request_hash, order_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		rec.Key, rec.RequestHash, rec.OrderID, rec.CreatedAt)
	if isUniqueViolation(err) {
		return store.ErrDuplicateIdempotencyKey
	}
	return err
}

// Carts

func (s *session) CartForUser(ctx context.Context, userID string) (store.Cart, error) {
	var c store.Cart
	err := s.q.QueryRowContext(ctx,
		`SELECT id, user_id FROM carts WHERE user_id = $1`,
		userID).Scan(&c.ID, &c.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Cart{}, store.ErrNotFound
	}
	if err != nil {
		return store.Cart{}, err
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT ci.food_id, f.name, f.price, ci.quantity, f.available
		 FROM cart_items ci JOIN foods f ON f.id = ci.food_id
		 WHERE ci.cart_id = $1 ORDER BY ci.food_id`,
		c.ID)
	if err != nil {
		return store.Cart{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var line store.CartLine
		if err := rows.Scan(&line.FoodID, &line.FoodName, &line.UnitPrice, &line.Quantity, &line.Available); err != nil {
			return store.Cart{}, err
		}
		c.Lines = append(c.Lines, line)
	}
	return c, rows.Err()
}

func (s *session) EnsureCart(ctx context.Context, userID string) (store.Cart, error) {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO carts (id, user_id) VALUES (gen_random_uuid()::text, $1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID)
	if err != nil {
		return store.Cart{}, err
	}
	return s.CartForUser(ctx, userID)
}

func (s *session) UpsertCartLine(ctx context.Context, cartID, foodID string, quantity int) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO cart_items (cart_id, food_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (cart_id, food_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, foodID, quantity)
	return err
}

func (s *session) DeleteCartLine(ctx context.Context, cartID, foodID string) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND food_id = $2`, cartID, foodID)
	return err
}

func (s *session) ClearCart(ctx context.Context, cartID string) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}

// Foods

func (s *session) InsertFood(ctx context.Context, f store.Food) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO foods (id, name, price, available) VALUES ($1, $2, $3, $4)`,
		f.ID, f.Name, f.Price, f.Available)
	return err
}

func (s *session) UpdateFood(ctx context.Context, f store.Food) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE foods SET name = $2, price = $3, available = $4 WHERE id = $1`,
		f.ID, f.Name, f.Price, f.Available)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *session) GetFood(ctx context.Context, id string) (store.Food, error) {
	var f store.Food
	err := s.q.QueryRowContext(ctx,
		`SELECT id, name, price, available FROM foods WHERE id = $1`,
		id).Scan(&f.ID, &f.Name, &f.Price, &f.Available)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Food{}, store.ErrNotFound
	}
	return f, err
}

func (s *session) ListFoods(ctx context.Context) ([]store.Food, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, name, price, available FROM foods ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foods []store.Food
	for rows.Next() {
		var f store.Food
		if err := rows.Scan(&f.ID, &f.Name, &f.Price, &f.Available); err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

// Users

func (s *session) InsertUser(ctx context.Context, u store.User) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	if isUniqueViolation(err) {
		return store.ErrDuplicateEmail
	}
	return err
}

func (s *session) GetUser(ctx context.Context, id string) (store.User, error) {
	var u store.User
	err := s.q.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, created_at FROM users WHERE id = $1`,
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}
	return u, err
}

func (s *session) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	var u store.User
	err := s.q.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`,
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}
	return u, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
