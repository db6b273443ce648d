package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/sellerdesk/crm-svc/internal/dal/postgres"
	"github.com/sellerdesk/crm-svc/internal/service/models/order"
	"github.com/sellerdesk/crm-svc/internal/service/models/product"
)

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert stores a single order and returns it with the generated id. Product
// associations are written separately with InsertOrderProducts.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns("customer_id", "total_amount", "order_date").
		Values(o.CustomerID, o.TotalAmount, o.OrderDate).
		Suffix("RETURNING id, customer_id, total_amount, order_date").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	var inserted order.Order
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&inserted.ID,
		&inserted.CustomerID,
		&inserted.TotalAmount,
		&inserted.OrderDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	inserted.CustomerEmail = o.CustomerEmail
	inserted.Products = o.Products

	return &inserted, nil
}

// InsertOrderProducts associates the order with its products.
func (r *PostgresOrderRepository) InsertOrderProducts(ctx context.Context, orderID int64, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}

	builder := sq.Insert("order_products").
		Columns("order_id", "product_id").
		PlaceholderFormat(sq.Dollar)
	for _, productID := range productIDs {
		builder = builder.Values(orderID, productID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order products: %w", err)
	}

	return nil
}

// Query retrieves orders based on filter criteria. The customer email is
// joined in for callers that notify customers about their orders.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(
		"o.id",
		"o.customer_id",
		"c.email",
		"o.total_amount",
		"o.order_date",
	).
		From("orders o").
		Join("customers c ON c.id = o.customer_id").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"o.id": filter.Ids})
	}
	if len(filter.CustomerIds) > 0 {
		builder = builder.Where(sq.Eq{"o.customer_id": filter.CustomerIds})
	}
	if len(filter.ProductIds) > 0 {
		builder = builder.Where(sq.Expr(
			"EXISTS (SELECT 1 FROM order_products op WHERE op.order_id = o.id AND op.product_id = ANY(?))",
			filter.ProductIds,
		))
	}
	if filter.TotalGte != nil {
		builder = builder.Where(sq.GtOrEq{"o.total_amount": *filter.TotalGte})
	}
	if filter.TotalLte != nil {
		builder = builder.Where(sq.LtOrEq{"o.total_amount": *filter.TotalLte})
	}
	if filter.OrderDateGte != nil {
		builder = builder.Where(sq.GtOrEq{"o.order_date": *filter.OrderDateGte})
	}
	if filter.OrderDateLte != nil {
		builder = builder.Where(sq.LtOrEq{"o.order_date": *filter.OrderDateLte})
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
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var o order.Order
		err := rows.Scan(
			&o.ID,
			&o.CustomerID,
			&o.CustomerEmail,
			&o.TotalAmount,
			&o.OrderDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if len(result) == 0 {
		return result, nil
	}

	return r.attachProducts(ctx, result)
}

// attachProducts loads the products of each order in a single query.
func (r *PostgresOrderRepository) attachProducts(ctx context.Context, orders []order.Order) ([]order.Order, error) {
	orderIds := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIds = append(orderIds, o.ID)
	}

	query, args, err := sq.Select("op.order_id", "p.id", "p.name", "p.price", "p.stock").
		From("order_products op").
		Join("products p ON p.id = op.product_id").
		Where(sq.Eq{"op.order_id": orderIds}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order products: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[int64][]product.Product)
	for rows.Next() {
		var orderID int64
		var p product.Product
		if err := rows.Scan(&orderID, &p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan order product: %w", err)
		}
		byOrder[orderID] = append(byOrder[orderID], p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	for i := range orders {
		orders[i].Products = byOrder[orders[i].ID]
	}

	return orders, nil
}
