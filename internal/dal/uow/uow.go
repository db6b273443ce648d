package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/sellerdesk/crm-svc/internal/dal/interfaces/icustomerrepo"
	"github.com/sellerdesk/crm-svc/internal/dal/interfaces/iorderrepo"
	"github.com/sellerdesk/crm-svc/internal/dal/interfaces/iproductrepo"
	"github.com/sellerdesk/crm-svc/internal/dal/postgres"
	customerrepo "github.com/sellerdesk/crm-svc/internal/dal/repositories/customer/postgres"
	orderrepo "github.com/sellerdesk/crm-svc/internal/dal/repositories/order/postgres"
	productrepo "github.com/sellerdesk/crm-svc/internal/dal/repositories/product/postgres"
)

type unitOfWork struct {
	client       *postgres.Client
	tx           pgx.Tx
	customerRepo icustomerrepo.ICustomerRepository
	productRepo  iproductrepo.IProductRepository
	orderRepo    iorderrepo.IOrderRepository
}

func (u *unitOfWork) CustomerRepository() icustomerrepo.ICustomerRepository {
	return u.customerRepo
}

func (u *unitOfWork) ProductRepository() iproductrepo.IProductRepository {
	return u.productRepo
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

// NewUnitOfWork creates a unit of work whose repositories run on the pool
// until Begin rebinds them to a transaction.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		client:       client,
		customerRepo: customerrepo.NewPostgresCustomerRepository(client.Pool()),
		productRepo:  productrepo.NewPostgresProductRepository(client.Pool()),
		orderRepo:    orderrepo.NewPostgresOrderRepository(client.Pool()),
	}
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.customerRepo = customerrepo.NewPostgresCustomerRepository(tx)
	u.productRepo = productrepo.NewPostgresProductRepository(tx)
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
