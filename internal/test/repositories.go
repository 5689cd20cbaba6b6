package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Name: name, Email: email, PasswordHash: passwordHash}
	s.Next++
	s.Users[email] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderRepositoryStub allows tests to customize behaviour per call.
type OrderRepositoryStub struct {
	CreateFn        func(context.Context, *model.Order) (*model.Order, error)
	GetByIDFn       func(context.Context, int64) (*model.Order, error)
	ListByUserFn    func(context.Context, int64, int, int) ([]model.Order, error)
	ListAllFn       func(context.Context, int, int) ([]model.Order, int64, error)
	MarkPaidFn      func(context.Context, int64, string) (*model.Order, error)
	MarkDeliveredFn func(context.Context, int64) (*model.Order, error)

	Orders []model.Order
}

// Create delegates to the override or echoes the order with an ID.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	created := *order
	created.ID = 1
	created.CreatedAt = time.Unix(0, 0)
	return &created, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, orderID)
	}
	for _, o := range s.Orders {
		if o.ID == orderID {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns orders from configured slice.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID, limit, offset)
	}
	var out []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// ListAll returns every configured order.
func (s *OrderRepositoryStub) ListAll(ctx context.Context, limit, offset int) ([]model.Order, int64, error) {
	if s.ListAllFn != nil {
		return s.ListAllFn(ctx, limit, offset)
	}
	return s.Orders, int64(len(s.Orders)), nil
}

// MarkPaid delegates to the override or echoes the stored order as paid.
func (s *OrderRepositoryStub) MarkPaid(ctx context.Context, orderID int64, transactionRef string) (*model.Order, error) {
	if s.MarkPaidFn != nil {
		return s.MarkPaidFn(ctx, orderID, transactionRef)
	}
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := time.Unix(0, 0)
	order.IsPaid = true
	order.PaidAt = &now
	order.TransactionRef = transactionRef
	return order, nil
}

// MarkDelivered delegates to the override or echoes the stored order as delivered.
func (s *OrderRepositoryStub) MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.MarkDeliveredFn != nil {
		return s.MarkDeliveredFn(ctx, orderID)
	}
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := time.Unix(0, 0)
	order.IsDelivered = true
	order.DeliveredAt = &now
	return order, nil
}

// InMemoryOrderRepository keeps orders behind a mutex and enforces the
// same paid/delivered transition rules as the SQL implementation. It is
// meant for tests that exercise concurrent state changes.
type InMemoryOrderRepository struct {
	mu     sync.Mutex
	next   int64
	orders map[int64]*model.Order
}

// NewInMemoryOrderRepository returns an empty repository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{next: 1, orders: make(map[int64]*model.Order)}
}

// Create stores a copy of the order and assigns identifiers.
func (r *InMemoryOrderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := cloneOrder(order)
	created.ID = r.next
	created.CreatedAt = time.Now()
	for i := range created.Items {
		created.Items[i].ID = int64(i + 1)
	}
	r.next++
	r.orders[created.ID] = created
	return cloneOrder(created), nil
}

// GetByID returns a copy of the stored order.
func (r *InMemoryOrderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return cloneOrder(order), nil
}

// ListByUser returns the user's orders in insertion order.
func (r *InMemoryOrderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for id := int64(1); id < r.next; id++ {
		if order, ok := r.orders[id]; ok && order.UserID == userID {
			out = append(out, *cloneOrder(order))
		}
	}
	return out, nil
}

// ListAll returns every stored order.
func (r *InMemoryOrderRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for id := int64(1); id < r.next; id++ {
		if order, ok := r.orders[id]; ok {
			out = append(out, *cloneOrder(order))
		}
	}
	return out, int64(len(out)), nil
}

// MarkPaid flips the paid flag exactly once per order.
func (r *InMemoryOrderRepository) MarkPaid(ctx context.Context, orderID int64, transactionRef string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if order.IsPaid {
		return nil, domainErrors.ErrAlreadyPaid
	}
	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.TransactionRef = transactionRef
	return cloneOrder(order), nil
}

// MarkDelivered flips the delivered flag once the order is paid.
func (r *InMemoryOrderRepository) MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if !order.IsPaid {
		return nil, domainErrors.ErrPrecondition
	}
	if order.IsDelivered {
		return nil, domainErrors.ErrAlreadyExists
	}
	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now
	return cloneOrder(order), nil
}

func cloneOrder(order *model.Order) *model.Order {
	clone := *order
	clone.Items = append([]model.OrderItem(nil), order.Items...)
	return &clone
}

// ProductRepositoryStub allows tests to customize catalog behaviour.
type ProductRepositoryStub struct {
	ListFn      func(context.Context, string, int, int) (*model.ProductPage, error)
	GetByIDFn   func(context.Context, string) (*model.Product, error)
	TopFn       func(context.Context, int) ([]model.Product, error)
	CreateFn    func(context.Context, *model.Product) (*model.Product, error)
	UpdateFn    func(context.Context, *model.Product) (*model.Product, error)
	DeleteFn    func(context.Context, string) error
	AddReviewFn func(context.Context, string, model.Review) (*model.Product, error)

	Products []model.Product
}

// List returns the configured page or a default built from Products.
func (s *ProductRepositoryStub) List(ctx context.Context, keyword string, page, pageSize int) (*model.ProductPage, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, keyword, page, pageSize)
	}
	return &model.ProductPage{Products: s.Products, Page: page, Pages: 1, Total: int64(len(s.Products))}, nil
}

// GetByID returns matched product either via override or stored slice.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, productID string) (*model.Product, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, productID)
	}
	for _, p := range s.Products {
		if p.ID == productID {
			product := p
			return &product, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Top returns the configured products unchanged.
func (s *ProductRepositoryStub) Top(ctx context.Context, limit int) ([]model.Product, error) {
	if s.TopFn != nil {
		return s.TopFn(ctx, limit)
	}
	return s.Products, nil
}

// Create echoes the product back with an identifier.
func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, product)
	}
	created := *product
	created.ID = "p1"
	return &created, nil
}

// Update delegates to the override or echoes the product.
func (s *ProductRepositoryStub) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, product)
	}
	updated := *product
	return &updated, nil
}

// Delete delegates to the override or succeeds silently.
func (s *ProductRepositoryStub) Delete(ctx context.Context, productID string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, productID)
	}
	return nil
}

// AddReview delegates to the override or returns the stored product.
func (s *ProductRepositoryStub) AddReview(ctx context.Context, productID string, review model.Review) (*model.Product, error) {
	if s.AddReviewFn != nil {
		return s.AddReviewFn(ctx, productID, review)
	}
	return s.GetByID(ctx, productID)
}
