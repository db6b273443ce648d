package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/sellerdesk/crm-svc/internal/dal/postgres"
	"github.com/sellerdesk/crm-svc/internal/service/models/product"
)

type PostgresProductRepository struct {
	conn postgres.Querier
}

func NewPostgresProductRepository(conn postgres.Querier) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
	}
}

// Insert stores a single product and returns it with the generated id.
func (r *PostgresProductRepository) Insert(ctx context.Context, p product.Product) (*product.Product, error) {
	query, args, err := sq.Insert("products").
		Columns("name", "price", "stock").
		Values(p.Name, p.Price, p.Stock).
		Suffix("RETURNING id, name, price, stock").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := scanProduct(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return inserted, nil
}

// GetByIDs retrieves the products whose ids are in ids. Missing ids are not an
// error; callers compare the result length against the request.
func (r *PostgresProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]product.Product, error) {
	if len(ids) == 0 {
		return []product.Product{}, nil
	}

	query, args, err := sq.Select("id", "name", "price", "stock").
		From("products").
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.queryProducts(ctx, query, args)
}

// QueryLowStock retrieves the products with stock below threshold.
func (r *PostgresProductRepository) QueryLowStock(ctx context.Context, threshold int) ([]product.Product, error) {
	query, args, err := sq.Select("id", "name", "price", "stock").
		From("products").
		Where(sq.Lt{"stock": threshold}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.queryProducts(ctx, query, args)
}

// UpdateStock sets the stock level of the given product.
func (r *PostgresProductRepository) UpdateStock(ctx context.Context, id int64, stock int) error {
	query, args, err := sq.Update("products").
		Set("stock", stock).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}

	return nil
}

// Query retrieves products based on filter criteria
func (r *PostgresProductRepository) Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error) {
	builder := sq.Select("id", "name", "price", "stock").
		From("products").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if filter.Name != "" {
		builder = builder.Where(sq.ILike{"name": "%" + filter.Name + "%"})
	}
	if filter.PriceGte != nil {
		builder = builder.Where(sq.GtOrEq{"price": *filter.PriceGte})
	}
	if filter.PriceLte != nil {
		builder = builder.Where(sq.LtOrEq{"price": *filter.PriceLte})
	}
	if filter.StockGte != nil {
		builder = builder.Where(sq.GtOrEq{"stock": *filter.StockGte})
	}
	if filter.StockLte != nil {
		builder = builder.Where(sq.LtOrEq{"stock": *filter.StockLte})
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

	return r.queryProducts(ctx, query, args)
}

func (r *PostgresProductRepository) queryProducts(ctx context.Context, query string, args []interface{}) ([]product.Product, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
		return nil, err
	}
	return &p, nil
}
