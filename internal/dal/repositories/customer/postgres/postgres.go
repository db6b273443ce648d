package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sellerdesk/crm-svc/internal/dal/interfaces/icustomerrepo"
	"github.com/sellerdesk/crm-svc/internal/dal/postgres"
	"github.com/sellerdesk/crm-svc/internal/service/models/customer"
)

const uniqueViolationCode = "23505"

type PostgresCustomerRepository struct {
	conn postgres.Querier
}

func NewPostgresCustomerRepository(conn postgres.Querier) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		conn: conn,
	}
}

// Insert stores a single customer and returns it with the generated id.
// A unique constraint violation on email is reported as ErrDuplicateEmail.
func (r *PostgresCustomerRepository) Insert(ctx context.Context, c customer.Customer) (*customer.Customer, error) {
	var phone *string
	if c.Phone != "" {
		phone = &c.Phone
	}

	query, args, err := sq.Insert("customers").
		Columns("name", "email", "phone", "created_at").
		Values(c.Name, c.Email, phone, c.CreatedAt).
		Suffix("RETURNING id, name, email, phone, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := r.scanCustomer(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, icustomerrepo.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}

	return inserted, nil
}

// ExistsByEmail reports whether a customer with the given email is stored.
func (r *PostgresCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query, args, err := sq.Select("1").
		From("customers").
		Where(sq.Eq{"email": email}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build select query: %w", err)
	}

	var one int
	err = r.conn.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return true, nil
}

// GetByID retrieves a customer by id. Returns pgx.ErrNoRows when absent.
func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	query, args, err := sq.Select("id", "name", "email", "phone", "created_at").
		From("customers").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.scanCustomer(r.conn.QueryRow(ctx, query, args...))
}

// Query retrieves customers based on filter criteria
func (r *PostgresCustomerRepository) Query(ctx context.Context, filter *customer.QueryCustomersModel) ([]customer.Customer, error) {
	builder := sq.Select("id", "name", "email", "phone", "created_at").
		From("customers").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if filter.Name != "" {
		builder = builder.Where(sq.ILike{"name": "%" + filter.Name + "%"})
	}
	if filter.Email != "" {
		builder = builder.Where(sq.ILike{"email": "%" + filter.Email + "%"})
	}
	if filter.PhonePrefix != "" {
		builder = builder.Where(sq.Like{"phone": filter.PhonePrefix + "%"})
	}
	if filter.CreatedAtGte != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.CreatedAtGte})
	}
	if filter.CreatedAtLte != nil {
		builder = builder.Where(sq.LtOrEq{"created_at": *filter.CreatedAtLte})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var result []customer.Customer
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		result = append(result, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func (r *PostgresCustomerRepository) scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	var phone *string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &phone, &c.CreatedAt); err != nil {
		return nil, err
	}
	if phone != nil {
		c.Phone = *phone
	}
	return &c, nil
}
