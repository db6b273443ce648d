package crmsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sellerdesk/crm-svc/internal/dal/interfaces/iauditrepo"
	"github.com/sellerdesk/crm-svc/internal/dal/interfaces/icustomerrepo"
	"github.com/sellerdesk/crm-svc/internal/dal/interfaces/iorderrepo"
	"github.com/sellerdesk/crm-svc/internal/dal/interfaces/iproductrepo"
	"github.com/sellerdesk/crm-svc/internal/dal/postgres"
	"github.com/sellerdesk/crm-svc/internal/dal/uow"
	"github.com/sellerdesk/crm-svc/internal/service/models/customer"
	"github.com/sellerdesk/crm-svc/internal/service/models/errs"
	"github.com/sellerdesk/crm-svc/internal/service/models/order"
	"github.com/sellerdesk/crm-svc/internal/service/models/product"
	"github.com/sellerdesk/crm-svc/internal/service/validation"
	"github.com/shopspring/decimal"
)

const (
	// lowStockThreshold and restockAmount mirror the inventory policy:
	// every product under the threshold is bumped by a fixed amount, so a
	// second run keeps incrementing products that are still under it.
	lowStockThreshold = 10
	restockAmount     = 10
)

const (
	msgEmailExists     = "Email already exists"
	msgInvalidPhone    = "Invalid phone format"
	msgCustomerCreated = "Customer created successfully"
)

// CRMService orchestrates validation and persistence for customer, product
// and order writes.
type CRMService struct {
	pgClient  *postgres.Client
	auditRepo iauditrepo.IAuditRepository
	newUOW    func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	CustomerRepository() icustomerrepo.ICustomerRepository
	ProductRepository() iproductrepo.IProductRepository
	OrderRepository() iorderrepo.IOrderRepository
}

// option is a function that configures the CRMService.
type option func(*CRMService)

// MustNewCRMService creates a new CRMService.
func MustNewCRMService(opts ...option) *CRMService {
	s := &CRMService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the CRMService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CRMService) {
		s.pgClient = pgClient
	}
}

// WithAuditRepository sets the audit event publisher for the CRMService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(auditRepo iauditrepo.IAuditRepository) option {
	return func(s *CRMService) {
		s.auditRepo = auditRepo
	}
}

// WithUnitOfWorkFactory overrides how units of work are created.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *CRMService) {
		s.newUOW = factory
	}
}

// CreateCustomerInput carries the fields of a customer to create.
type CreateCustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// CreateCustomerResult is the outcome of CreateCustomer. Business-rule
// rejections come back as a nil Customer plus a message, not as an error.
type CreateCustomerResult struct {
	Customer *customer.Customer `json:"customer"`
	Message  string             `json:"message"`
}

// CreateCustomer creates a single customer. Duplicate email and malformed
// phone are soft failures reported through the result message.
func (s *CRMService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CreateCustomerResult, error) {
	work := s.newUOW()

	exists, err := work.CustomerRepository().ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, errs.NewStorage("failed to check email existence", err)
	}
	if exists {
		return &CreateCustomerResult{Message: msgEmailExists}, nil
	}
	if !validation.ValidPhone(input.Phone) {
		return &CreateCustomerResult{Message: msgInvalidPhone}, nil
	}

	created, err := work.CustomerRepository().Insert(ctx, customer.Customer{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: time.Now(),
	})
	if err != nil {
		// The unique constraint is the final authority: a concurrent
		// insert between the existence check and ours surfaces as the
		// same duplicate outcome.
		if errors.Is(err, icustomerrepo.ErrDuplicateEmail) {
			return &CreateCustomerResult{Message: msgEmailExists}, nil
		}
		return nil, errs.NewStorage("failed to insert customer", err)
	}

	return &CreateCustomerResult{Customer: created, Message: msgCustomerCreated}, nil
}

// BulkCreateCustomersResult is the outcome of BulkCreateCustomers. Partial
// success is the normal case: failed rows are reported in Errors while the
// rest commit together.
type BulkCreateCustomersResult struct {
	Customers []customer.Customer `json:"customers"`
	Errors    []string            `json:"errors"`
}

// BulkCreateCustomers validates entries in input order, skipping rows that
// fail the duplicate or phone checks, and inserts the rest inside a single
// transaction. A storage failure rolls back every insert of the call.
func (s *CRMService) BulkCreateCustomers(ctx context.Context, inputs []CreateCustomerInput) (*BulkCreateCustomersResult, error) {
	now := time.Now()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, errs.NewStorage("failed to begin transaction", err)
	}

	created := make([]customer.Customer, 0, len(inputs))
	rowErrors := make([]string, 0)

	for idx, input := range inputs {
		exists, err := work.CustomerRepository().ExistsByEmail(ctx, input.Email)
		if err != nil {
			_ = work.Rollback(ctx)
			return nil, errs.NewStorage("failed to check email existence", err)
		}
		if exists {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %s", idx+1, msgEmailExists))
			continue
		}
		if !validation.ValidPhone(input.Phone) {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %s", idx+1, msgInvalidPhone))
			continue
		}

		c, err := work.CustomerRepository().Insert(ctx, customer.Customer{
			Name:      input.Name,
			Email:     input.Email,
			Phone:     input.Phone,
			CreatedAt: now,
		})
		if err != nil {
			// Any insert failure inside the transaction aborts it,
			// including a duplicate-key race: no row of this batch
			// persists.
			_ = work.Rollback(ctx)
			return nil, errs.NewStorage("failed to insert customer", err)
		}

		created = append(created, *c)
	}

	if err := work.Commit(ctx); err != nil {
		_ = work.Rollback(ctx)
		return nil, errs.NewStorage("failed to commit transaction", err)
	}

	return &BulkCreateCustomersResult{Customers: created, Errors: rowErrors}, nil
}

// CreateProductInput carries the fields of a product to create. A nil Stock
// defaults to zero.
type CreateProductInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock,omitempty"`
}

// CreateProduct creates a single product after validating price and stock.
func (s *CRMService) CreateProduct(ctx context.Context, input CreateProductInput) (*product.Product, error) {
	if !validation.ValidPrice(input.Price) {
		return nil, errs.NewValidation("Price must be positive")
	}
	if !validation.ValidStock(input.Stock) {
		return nil, errs.NewValidation("Stock cannot be negative")
	}

	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}

	work := s.newUOW()

	created, err := work.ProductRepository().Insert(ctx, product.Product{
		Name:  input.Name,
		Price: input.Price,
		Stock: stock,
	})
	if err != nil {
		return nil, errs.NewStorage("failed to insert product", err)
	}

	return created, nil
}

// CreateOrderInput carries the fields of an order to create. A nil OrderDate
// defaults to the current time.
type CreateOrderInput struct {
	CustomerID int64      `json:"customerId"`
	ProductIDs []int64    `json:"productIds"`
	OrderDate  *time.Time `json:"orderDate,omitempty"`
}

// CreateOrder creates an order referencing an existing customer and a
// non-empty set of existing products. The total amount is the sum of the
// referenced products' current prices.
func (s *CRMService) CreateOrder(ctx context.Context, input CreateOrderInput) (*order.Order, error) {
	if len(input.ProductIDs) == 0 {
		return nil, errs.NewValidation("At least one product must be selected")
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, errs.NewStorage("failed to begin transaction", err)
	}

	cust, err := work.CustomerRepository().GetByID(ctx, input.CustomerID)
	if err != nil {
		_ = work.Rollback(ctx)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NewNotFound("Invalid customer ID")
		}
		return nil, errs.NewStorage("failed to get customer", err)
	}

	products, err := work.ProductRepository().GetByIDs(ctx, input.ProductIDs)
	if err != nil {
		_ = work.Rollback(ctx)
		return nil, errs.NewStorage("failed to get products", err)
	}
	// A partial match means at least one requested id is invalid; the
	// order is rejected as a whole.
	if len(products) != len(input.ProductIDs) {
		_ = work.Rollback(ctx)
		return nil, errs.NewValidation("One or more product IDs are invalid")
	}

	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}

	orderDate := time.Now()
	if input.OrderDate != nil {
		orderDate = *input.OrderDate
	}

	created, err := work.OrderRepository().Insert(ctx, order.Order{
		CustomerID:    cust.ID,
		CustomerEmail: cust.Email,
		TotalAmount:   total,
		OrderDate:     orderDate,
		Products:      products,
	})
	if err != nil {
		_ = work.Rollback(ctx)
		return nil, errs.NewStorage("failed to insert order", err)
	}

	if err := work.OrderRepository().InsertOrderProducts(ctx, created.ID, input.ProductIDs); err != nil {
		_ = work.Rollback(ctx)
		return nil, errs.NewStorage("failed to insert order products", err)
	}

	if err := work.Commit(ctx); err != nil {
		_ = work.Rollback(ctx)
		return nil, errs.NewStorage("failed to commit transaction", err)
	}

	if s.auditRepo != nil {
		if err := s.auditRepo.LogOrderCreated(ctx, []order.Order{*created}); err != nil {
			slog.Error("Failed to publish order created event", "order_id", created.ID, "error", err)
		}
	}

	return created, nil
}

// RestockResult is the outcome of UpdateLowStockProducts.
type RestockResult struct {
	Success         bool              `json:"success"`
	Message         string            `json:"message"`
	UpdatedProducts []product.Product `json:"updatedProducts"`
}

// UpdateLowStockProducts increments the stock of every product under the low
// stock threshold by a fixed amount and reports the updated products.
func (s *CRMService) UpdateLowStockProducts(ctx context.Context) (*RestockResult, error) {
	work := s.newUOW()

	lowStock, err := work.ProductRepository().QueryLowStock(ctx, lowStockThreshold)
	if err != nil {
		return nil, errs.NewStorage("failed to query low stock products", err)
	}

	updated := make([]product.Product, 0, len(lowStock))
	for _, p := range lowStock {
		p.Stock += restockAmount
		if err := work.ProductRepository().UpdateStock(ctx, p.ID, p.Stock); err != nil {
			return nil, errs.NewStorage("failed to update product stock", err)
		}
		updated = append(updated, p)
	}

	return &RestockResult{
		Success:         true,
		Message:         fmt.Sprintf("Updated %d products", len(updated)),
		UpdatedProducts: updated,
	}, nil
}

// ListCustomers retrieves customers matching the filter.
func (s *CRMService) ListCustomers(ctx context.Context, filter *customer.QueryCustomersModel) ([]customer.Customer, error) {
	work := s.newUOW()

	customers, err := work.CustomerRepository().Query(ctx, filter)
	if err != nil {
		return nil, errs.NewStorage("failed to query customers", err)
	}
	if customers == nil {
		customers = []customer.Customer{}
	}

	return customers, nil
}

// ListProducts retrieves products matching the filter.
func (s *CRMService) ListProducts(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error) {
	work := s.newUOW()

	products, err := work.ProductRepository().Query(ctx, filter)
	if err != nil {
		return nil, errs.NewStorage("failed to query products", err)
	}
	if products == nil {
		products = []product.Product{}
	}

	return products, nil
}

// ListOrders retrieves orders matching the filter.
func (s *CRMService) ListOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, filter)
	if err != nil {
		return nil, errs.NewStorage("failed to query orders", err)
	}
	if orders == nil {
		orders = []order.Order{}
	}

	return orders, nil
}
