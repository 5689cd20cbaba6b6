package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage relies on. Tests
// substitute a mock through newPgxPool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL. It owns user
// accounts and the order ledger; the catalog lives in its own store.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            is_admin BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            shipping_address JSONB NOT NULL,
            payment_method TEXT NOT NULL,
            items_price NUMERIC(12,2) NOT NULL,
            shipping_price NUMERIC(12,2) NOT NULL,
            tax_price NUMERIC(12,2) NOT NULL,
            total_price NUMERIC(12,2) NOT NULL,
            is_paid BOOLEAN NOT NULL DEFAULT FALSE,
            paid_at TIMESTAMPTZ,
            transaction_ref TEXT NOT NULL DEFAULT '',
            is_delivered BOOLEAN NOT NULL DEFAULT FALSE,
            delivered_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_ref TEXT NOT NULL,
            name TEXT NOT NULL,
            image TEXT NOT NULL DEFAULT '',
            qty INT NOT NULL,
            unit_price NUMERIC(12,2) NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id, is_admin, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, name, email, passwordHash).Scan(&u.ID, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Name = name
	u.Email = email
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, name, email, password_hash, is_admin, created_at FROM users WHERE email=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, name, email, password_hash, is_admin, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return nil, err
	}

	err = r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (user_id, shipping_address, payment_method, items_price, shipping_price, tax_price, total_price)
                             VALUES ($1, $2, $3, $4, $5, $6, $7)
                             RETURNING id, created_at`
		if err := tx.QueryRow(ctx, insertOrder,
			order.UserID, address, order.PaymentMethod,
			order.ItemsPrice, order.ShippingPrice, order.TaxPrice, order.TotalPrice,
		).Scan(&order.ID, &order.CreatedAt); err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, product_ref, name, image, qty, unit_price)
                            VALUES ($1, $2, $3, $4, $5, $6)
                            RETURNING id`
		for i := range order.Items {
			item := &order.Items[i]
			if err := tx.QueryRow(ctx, insertItem,
				order.ID, item.ProductRef, item.Name, item.Image, item.Qty, item.UnitPrice,
			).Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	const query = `SELECT id, user_id, shipping_address, payment_method,
                          items_price, shipping_price, tax_price, total_price,
                          is_paid, paid_at, transaction_ref, is_delivered, delivered_at, created_at
                   FROM orders WHERE id=$1`
	var (
		o       model.Order
		address []byte
	)
	err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(
		&o.ID, &o.UserID, &address, &o.PaymentMethod,
		&o.ItemsPrice, &o.ShippingPrice, &o.TaxPrice, &o.TotalPrice,
		&o.IsPaid, &o.PaidAt, &o.TransactionRef, &o.IsDelivered, &o.DeliveredAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return nil, err
	}

	items, err := r.itemsForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *orderRepository) itemsForOrder(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	const query = `SELECT id, product_ref, name, image, qty, unit_price FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductRef, &item.Name, &item.Image, &item.Qty, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByUser returns orders without line items, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, error) {
	const query = `SELECT id, user_id, payment_method, items_price, shipping_price, tax_price, total_price,
                          is_paid, paid_at, transaction_ref, is_delivered, delivered_at, created_at
                   FROM orders WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.storage.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderSummaries(rows)
}

// ListAll returns one admin page of orders plus the total count.
func (r *orderRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Order, int64, error) {
	var total int64
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `SELECT id, user_id, payment_method, items_price, shipping_price, tax_price, total_price,
                          is_paid, paid_at, transaction_ref, is_delivered, delivered_at, created_at
                   FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.storage.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrderSummaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func scanOrderSummaries(rows pgx.Rows) ([]model.Order, error) {
	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.PaymentMethod,
			&o.ItemsPrice, &o.ShippingPrice, &o.TaxPrice, &o.TotalPrice,
			&o.IsPaid, &o.PaidAt, &o.TransactionRef, &o.IsDelivered, &o.DeliveredAt, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkPaid flips the payment flag exactly once. The update is keyed on
// is_paid=FALSE so concurrent confirmations serialize in the database:
// exactly one caller wins, the rest observe ErrAlreadyPaid.
func (r *orderRepository) MarkPaid(ctx context.Context, orderID int64, transactionRef string) (*model.Order, error) {
	const update = `UPDATE orders SET is_paid=TRUE, paid_at=NOW(), transaction_ref=$2
                    WHERE id=$1 AND is_paid=FALSE
                    RETURNING paid_at`
	var paidAt time.Time
	err := r.storage.pool.QueryRow(ctx, update, orderID, transactionRef).Scan(&paidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.paidProbe(ctx, orderID)
		}
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *orderRepository) paidProbe(ctx context.Context, orderID int64) error {
	var isPaid bool
	err := r.storage.pool.QueryRow(ctx, `SELECT is_paid FROM orders WHERE id=$1`, orderID).Scan(&isPaid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	if isPaid {
		return domainErrors.ErrAlreadyPaid
	}
	return domainErrors.ErrPrecondition
}

// MarkDelivered flips the delivery flag exactly once, and only for paid orders.
func (r *orderRepository) MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error) {
	const update = `UPDATE orders SET is_delivered=TRUE, delivered_at=NOW()
                    WHERE id=$1 AND is_paid=TRUE AND is_delivered=FALSE
                    RETURNING delivered_at`
	var deliveredAt time.Time
	err := r.storage.pool.QueryRow(ctx, update, orderID).Scan(&deliveredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.deliveryProbe(ctx, orderID)
		}
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *orderRepository) deliveryProbe(ctx context.Context, orderID int64) error {
	var isPaid, isDelivered bool
	err := r.storage.pool.QueryRow(ctx, `SELECT is_paid, is_delivered FROM orders WHERE id=$1`, orderID).Scan(&isPaid, &isDelivered)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	if !isPaid {
		return domainErrors.ErrPrecondition
	}
	return domainErrors.ErrAlreadyExists
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
