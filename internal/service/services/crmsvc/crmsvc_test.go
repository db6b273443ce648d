package crmsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sellerdesk/crm-svc/internal/dal/interfaces/icustomerrepo"
	"github.com/sellerdesk/crm-svc/internal/dal/interfaces/iorderrepo"
	"github.com/sellerdesk/crm-svc/internal/dal/interfaces/iproductrepo"
	"github.com/sellerdesk/crm-svc/internal/service/models/customer"
	"github.com/sellerdesk/crm-svc/internal/service/models/errs"
	"github.com/sellerdesk/crm-svc/internal/service/models/order"
	"github.com/sellerdesk/crm-svc/internal/service/models/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository mocks the customer repository.
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Insert(ctx context.Context, c customer.Customer) (*customer.Customer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Query(ctx context.Context, filter *customer.QueryCustomersModel) ([]customer.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.Customer), args.Error(1)
}

// MockProductRepository mocks the product repository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Insert(ctx context.Context, p product.Product) (*product.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductRepository) QueryLowStock(ctx context.Context, threshold int) ([]product.Product, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateStock(ctx context.Context, id int64, stock int) error {
	args := m.Called(ctx, id, stock)
	return args.Error(0)
}

func (m *MockProductRepository) Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

// MockOrderRepository mocks the order repository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) InsertOrderProducts(ctx context.Context, orderID int64, productIDs []int64) error {
	args := m.Called(ctx, orderID, productIDs)
	return args.Error(0)
}

func (m *MockOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

// fakeUnitOfWork binds the mock repositories and records the transaction
// lifecycle.
type fakeUnitOfWork struct {
	customers *MockCustomerRepository
	products  *MockProductRepository
	orders    *MockOrderRepository

	began      bool
	committed  bool
	rolledBack bool
	beginErr   error
	commitErr  error
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error {
	if u.beginErr != nil {
		return u.beginErr
	}
	u.began = true
	return nil
}

func (u *fakeUnitOfWork) Commit(_ context.Context) error {
	if u.commitErr != nil {
		return u.commitErr
	}
	u.committed = true
	return nil
}

func (u *fakeUnitOfWork) Rollback(_ context.Context) error {
	u.rolledBack = true
	return nil
}

func (u *fakeUnitOfWork) CustomerRepository() icustomerrepo.ICustomerRepository { return u.customers }

func (u *fakeUnitOfWork) ProductRepository() iproductrepo.IProductRepository { return u.products }

func (u *fakeUnitOfWork) OrderRepository() iorderrepo.IOrderRepository { return u.orders }

func newFixture() (*CRMService, *fakeUnitOfWork) {
	work := &fakeUnitOfWork{
		customers: new(MockCustomerRepository),
		products:  new(MockProductRepository),
		orders:    new(MockOrderRepository),
	}
	svc := MustNewCRMService(WithUnitOfWorkFactory(func() unitOfWork { return work }))
	return svc, work
}

func TestCreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and returns the customer", func(t *testing.T) {
		svc, work := newFixture()
		stored := &customer.Customer{ID: 1, Name: "Alice", Email: "alice@example.com"}
		work.customers.On("ExistsByEmail", ctx, "alice@example.com").Return(false, nil)
		work.customers.On("Insert", ctx, mock.AnythingOfType("customer.Customer")).Return(stored, nil)

		result, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Alice", Email: "alice@example.com"})

		require.NoError(t, err)
		assert.Equal(t, stored, result.Customer)
		assert.Equal(t, "Customer created successfully", result.Message)
	})

	t.Run("duplicate email is a soft failure", func(t *testing.T) {
		svc, work := newFixture()
		work.customers.On("ExistsByEmail", ctx, "alice@example.com").Return(true, nil)

		result, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Alice", Email: "alice@example.com"})

		require.NoError(t, err)
		assert.Nil(t, result.Customer)
		assert.Equal(t, "Email already exists", result.Message)
		work.customers.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("duplicate key at insert maps to the same outcome", func(t *testing.T) {
		svc, work := newFixture()
		work.customers.On("ExistsByEmail", ctx, "alice@example.com").Return(false, nil)
		work.customers.On("Insert", ctx, mock.AnythingOfType("customer.Customer")).
			Return(nil, icustomerrepo.ErrDuplicateEmail)

		result, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Alice", Email: "alice@example.com"})

		require.NoError(t, err)
		assert.Nil(t, result.Customer)
		assert.Equal(t, "Email already exists", result.Message)
	})

	t.Run("invalid phone is a soft failure", func(t *testing.T) {
		svc, work := newFixture()
		work.customers.On("ExistsByEmail", ctx, "alice@example.com").Return(false, nil)

		result, err := svc.CreateCustomer(ctx, CreateCustomerInput{
			Name:  "Alice",
			Email: "alice@example.com",
			Phone: "12345",
		})

		require.NoError(t, err)
		assert.Nil(t, result.Customer)
		assert.Equal(t, "Invalid phone format", result.Message)
		work.customers.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("storage failure surfaces as StorageError", func(t *testing.T) {
		svc, work := newFixture()
		work.customers.On("ExistsByEmail", ctx, "alice@example.com").Return(false, errors.New("connection lost"))

		_, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Alice", Email: "alice@example.com"})

		var storageErr *errs.StorageError
		require.ErrorAs(t, err, &storageErr)
	})
}

func TestBulkCreateCustomers(t *testing.T) {
	ctx := context.Background()

	t.Run("partial success skips failing rows and commits the rest", func(t *testing.T) {
		svc, work := newFixture()
		work.customers.On("ExistsByEmail", ctx, "a@example.com").Return(false, nil)
		work.customers.On("ExistsByEmail", ctx, "dup@example.com").Return(true, nil)
		work.customers.On("ExistsByEmail", ctx, "c@example.com").Return(false, nil)
		work.customers.On("Insert", ctx, mock.MatchedBy(func(c customer.Customer) bool {
			return c.Email == "a@example.com"
		})).Return(&customer.Customer{ID: 1, Name: "A", Email: "a@example.com"}, nil)
		work.customers.On("Insert", ctx, mock.MatchedBy(func(c customer.Customer) bool {
			return c.Email == "c@example.com"
		})).Return(&customer.Customer{ID: 2, Name: "C", Email: "c@example.com"}, nil)

		result, err := svc.BulkCreateCustomers(ctx, []CreateCustomerInput{
			{Name: "A", Email: "a@example.com"},
			{Name: "B", Email: "dup@example.com"},
			{Name: "C", Email: "c@example.com"},
		})

		require.NoError(t, err)
		require.Len(t, result.Customers, 2)
		assert.Equal(t, "a@example.com", result.Customers[0].Email)
		assert.Equal(t, "c@example.com", result.Customers[1].Email)
		assert.Equal(t, []string{"Row 2: Email already exists"}, result.Errors)
		assert.True(t, work.began)
		assert.True(t, work.committed)
		assert.False(t, work.rolledBack)
	})

	t.Run("invalid phone rows are skipped with indexed errors", func(t *testing.T) {
		svc, work := newFixture()
		work.customers.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
		work.customers.On("Insert", ctx, mock.AnythingOfType("customer.Customer")).
			Return(&customer.Customer{ID: 1, Name: "B", Email: "b@example.com"}, nil)

		result, err := svc.BulkCreateCustomers(ctx, []CreateCustomerInput{
			{Name: "A", Email: "a@example.com", Phone: "bad"},
			{Name: "B", Email: "b@example.com", Phone: "+1234567890"},
		})

		require.NoError(t, err)
		require.Len(t, result.Customers, 1)
		assert.Equal(t, []string{"Row 1: Invalid phone format"}, result.Errors)
	})

	t.Run("storage failure rolls back the whole batch", func(t *testing.T) {
		svc, work := newFixture()
		work.customers.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
		work.customers.On("Insert", ctx, mock.MatchedBy(func(c customer.Customer) bool {
			return c.Email == "a@example.com"
		})).Return(&customer.Customer{ID: 1, Name: "A", Email: "a@example.com"}, nil)
		work.customers.On("Insert", ctx, mock.MatchedBy(func(c customer.Customer) bool {
			return c.Email == "b@example.com"
		})).Return(nil, errors.New("connection lost"))

		_, err := svc.BulkCreateCustomers(ctx, []CreateCustomerInput{
			{Name: "A", Email: "a@example.com"},
			{Name: "B", Email: "b@example.com"},
		})

		var storageErr *errs.StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.True(t, work.rolledBack)
		assert.False(t, work.committed)
	})

	t.Run("commit failure means zero rows persisted", func(t *testing.T) {
		svc, work := newFixture()
		work.commitErr = errors.New("connection lost")
		work.customers.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
		work.customers.On("Insert", ctx, mock.AnythingOfType("customer.Customer")).
			Return(&customer.Customer{ID: 1, Name: "A", Email: "a@example.com"}, nil)

		_, err := svc.BulkCreateCustomers(ctx, []CreateCustomerInput{
			{Name: "A", Email: "a@example.com"},
		})

		var storageErr *errs.StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.True(t, work.rolledBack)
	})
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("zero price fails validation", func(t *testing.T) {
		svc, _ := newFixture()

		_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Widget", Price: decimal.Zero})

		var validationErr *errs.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Price must be positive", validationErr.Message)
	})

	t.Run("negative stock fails validation", func(t *testing.T) {
		svc, _ := newFixture()
		negative := -1

		_, err := svc.CreateProduct(ctx, CreateProductInput{
			Name:  "Widget",
			Price: decimal.NewFromInt(10),
			Stock: &negative,
		})

		var validationErr *errs.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Stock cannot be negative", validationErr.Message)
	})

	t.Run("absent stock defaults to zero", func(t *testing.T) {
		svc, work := newFixture()
		work.products.On("Insert", ctx, mock.MatchedBy(func(p product.Product) bool {
			return p.Stock == 0
		})).Return(&product.Product{ID: 1, Name: "Widget", Price: decimal.NewFromInt(10)}, nil)

		created, err := svc.CreateProduct(ctx, CreateProductInput{
			Name:  "Widget",
			Price: decimal.NewFromInt(10),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		work.products.AssertExpectations(t)
	})
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("empty product list fails validation", func(t *testing.T) {
		svc, _ := newFixture()

		_, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 1})

		var validationErr *errs.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "At least one product must be selected", validationErr.Message)
	})

	t.Run("unknown customer fails with NotFoundError", func(t *testing.T) {
		svc, work := newFixture()
		work.customers.On("GetByID", ctx, int64(42)).Return(nil, pgx.ErrNoRows)

		_, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 42, ProductIDs: []int64{1}})

		var notFoundErr *errs.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "Invalid customer ID", notFoundErr.Message)
		assert.True(t, work.rolledBack)
	})

	t.Run("partial product match is entirely invalid", func(t *testing.T) {
		svc, work := newFixture()
		work.customers.On("GetByID", ctx, int64(1)).
			Return(&customer.Customer{ID: 1, Email: "alice@example.com"}, nil)
		work.products.On("GetByIDs", ctx, []int64{1, 2}).
			Return([]product.Product{{ID: 1, Price: decimal.NewFromInt(10)}}, nil)

		_, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 1, ProductIDs: []int64{1, 2}})

		var validationErr *errs.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "One or more product IDs are invalid", validationErr.Message)
		assert.True(t, work.rolledBack)
		work.orders.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("total amount is the sum of product prices", func(t *testing.T) {
		svc, work := newFixture()
		products := []product.Product{
			{ID: 1, Name: "A", Price: decimal.RequireFromString("10.00")},
			{ID: 2, Name: "B", Price: decimal.RequireFromString("15.00")},
		}
		work.customers.On("GetByID", ctx, int64(1)).
			Return(&customer.Customer{ID: 1, Email: "alice@example.com"}, nil)
		work.products.On("GetByIDs", ctx, []int64{1, 2}).Return(products, nil)
		work.orders.On("Insert", ctx, mock.MatchedBy(func(o order.Order) bool {
			return o.TotalAmount.Equal(decimal.RequireFromString("25.00"))
		})).Return(&order.Order{ID: 7, CustomerID: 1, TotalAmount: decimal.RequireFromString("25.00")}, nil)
		work.orders.On("InsertOrderProducts", ctx, int64(7), []int64{1, 2}).Return(nil)

		created, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 1, ProductIDs: []int64{1, 2}})

		require.NoError(t, err)
		assert.True(t, created.TotalAmount.Equal(decimal.RequireFromString("25.00")))
		assert.True(t, work.committed)
		work.orders.AssertExpectations(t)
	})

	t.Run("order date defaults to now when absent", func(t *testing.T) {
		svc, work := newFixture()
		before := time.Now()
		work.customers.On("GetByID", ctx, int64(1)).
			Return(&customer.Customer{ID: 1, Email: "alice@example.com"}, nil)
		work.products.On("GetByIDs", ctx, []int64{1}).
			Return([]product.Product{{ID: 1, Price: decimal.NewFromInt(5)}}, nil)
		work.orders.On("Insert", ctx, mock.MatchedBy(func(o order.Order) bool {
			return !o.OrderDate.Before(before)
		})).Return(&order.Order{ID: 1, CustomerID: 1}, nil)
		work.orders.On("InsertOrderProducts", ctx, int64(1), []int64{1}).Return(nil)

		_, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 1, ProductIDs: []int64{1}})

		require.NoError(t, err)
		work.orders.AssertExpectations(t)
	})
}

func TestUpdateLowStockProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("increments every product under the threshold by ten", func(t *testing.T) {
		svc, work := newFixture()
		work.products.On("QueryLowStock", ctx, 10).Return([]product.Product{
			{ID: 1, Name: "A", Stock: 5},
			{ID: 3, Name: "C", Stock: 9},
		}, nil)
		work.products.On("UpdateStock", ctx, int64(1), 15).Return(nil)
		work.products.On("UpdateStock", ctx, int64(3), 19).Return(nil)

		result, err := svc.UpdateLowStockProducts(ctx)

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "Updated 2 products", result.Message)
		require.Len(t, result.UpdatedProducts, 2)
		assert.Equal(t, 15, result.UpdatedProducts[0].Stock)
		assert.Equal(t, 19, result.UpdatedProducts[1].Stock)
		work.products.AssertExpectations(t)
	})

	t.Run("replenishment is additive, not corrective to the threshold", func(t *testing.T) {
		store := newStatefulProductStore(map[int64]int{1: 5, 2: 12, 3: 9})
		svc := MustNewCRMService(WithUnitOfWorkFactory(func() unitOfWork {
			return &statefulUnitOfWork{products: store}
		}))

		first, err := svc.UpdateLowStockProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Updated 2 products", first.Message)
		assert.Equal(t, 15, store.stock[1])
		assert.Equal(t, 12, store.stock[2])
		assert.Equal(t, 19, store.stock[3])

		// Nothing is under the threshold anymore, so a second run on the
		// stored state updates nothing.
		second, err := svc.UpdateLowStockProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Updated 0 products", second.Message)

		// A product dropping under the threshold again is incremented
		// again: the operation adds a fixed amount every time rather
		// than restocking to a target level.
		store.stock[1] = 3
		third, err := svc.UpdateLowStockProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Updated 1 products", third.Message)
		assert.Equal(t, 13, store.stock[1])
	})
}

// statefulProductStore is a minimal in-memory product repository used to
// observe replenishment across successive runs.
type statefulProductStore struct {
	stock map[int64]int
}

func newStatefulProductStore(stock map[int64]int) *statefulProductStore {
	return &statefulProductStore{stock: stock}
}

func (s *statefulProductStore) Insert(_ context.Context, p product.Product) (*product.Product, error) {
	return &p, nil
}

func (s *statefulProductStore) GetByIDs(_ context.Context, _ []int64) ([]product.Product, error) {
	return nil, nil
}

func (s *statefulProductStore) QueryLowStock(_ context.Context, threshold int) ([]product.Product, error) {
	ids := make([]int64, 0, len(s.stock))
	for id := range s.stock {
		ids = append(ids, id)
	}
	// Deterministic order keeps assertions simple.
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}

	var low []product.Product
	for _, id := range ids {
		if s.stock[id] < threshold {
			low = append(low, product.Product{ID: id, Stock: s.stock[id]})
		}
	}
	return low, nil
}

func (s *statefulProductStore) UpdateStock(_ context.Context, id int64, stock int) error {
	s.stock[id] = stock
	return nil
}

func (s *statefulProductStore) Query(_ context.Context, _ *product.QueryProductsModel) ([]product.Product, error) {
	return nil, nil
}

type statefulUnitOfWork struct {
	products *statefulProductStore
}

func (u *statefulUnitOfWork) Begin(_ context.Context) error    { return nil }
func (u *statefulUnitOfWork) Commit(_ context.Context) error   { return nil }
func (u *statefulUnitOfWork) Rollback(_ context.Context) error { return nil }

func (u *statefulUnitOfWork) CustomerRepository() icustomerrepo.ICustomerRepository { return nil }
func (u *statefulUnitOfWork) ProductRepository() iproductrepo.IProductRepository    { return u.products }
func (u *statefulUnitOfWork) OrderRepository() iorderrepo.IOrderRepository          { return nil }
