package icustomerrepo

import (
	"context"
	"errors"

	"github.com/sellerdesk/crm-svc/internal/service/models/customer"
)

// ErrDuplicateEmail is returned by Insert when the unique constraint on email
// rejects the row. The store is the final authority on uniqueness, so
// concurrent inserts that pass the existence check still end up here.
var ErrDuplicateEmail = errors.New("duplicate email")

// ICustomerRepository is an interface for customer postgres repository.
type ICustomerRepository interface {
	Insert(ctx context.Context, c customer.Customer) (*customer.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id int64) (*customer.Customer, error)
	Query(ctx context.Context, filter *customer.QueryCustomersModel) ([]customer.Customer, error)
}
