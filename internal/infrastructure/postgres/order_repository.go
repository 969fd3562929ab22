package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgeup/marketplace/internal/domain/order"
)

const orderColumns = `id, order_id, buyer_id, seller_id, product_id, price, quantity, status, shipping_address, negotiation_id, created_at, updated_at`

// OrderStore implements order.Store.
type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

func (s *OrderStore) InTx(ctx context.Context, fn func(tx order.Tx) error) error {
	return runInTx(ctx, s.pool, "orders.tx", func(tx pgx.Tx) error {
		return fn(&marketTx{tx: tx})
	})
}

func (s *OrderStore) GetByID(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id=$1`, orderID)
	o, err := scanOrder(row)
	return o, mapError("orders.get", err)
}

func (s *OrderStore) List(ctx context.Context, filter order.Filter, limit, offset int) ([]*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}
	idx := 1
	if filter.BuyerID != nil {
		query += " WHERE buyer_id=$" + itoa(idx)
		args = append(args, *filter.BuyerID)
		idx++
	}
	if filter.SellerID != nil {
		query += addWhere(query) + " seller_id=$" + itoa(idx)
		args = append(args, *filter.SellerID)
		idx++
	}
	if filter.Status != nil {
		query += addWhere(query) + " status=$" + itoa(idx)
		args = append(args, *filter.Status)
		idx++
	}
	query += " ORDER BY created_at DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("orders.list", err)
	}
	defer rows.Close()
	var out []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, mapError("orders.list", err)
		}
		out = append(out, o)
	}
	return out, mapError("orders.list", rows.Err())
}

func (s *OrderStore) HasDelivered(ctx context.Context, buyerID, productID uuid.UUID) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM orders WHERE buyer_id=$1 AND product_id=$2 AND status='delivered'
		)
	`, buyerID, productID).Scan(&ok)
	if err != nil {
		return false, mapError("orders.has_delivered", err)
	}
	return ok, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	if err := row.Scan(&o.ID, &o.OrderID, &o.BuyerID, &o.SellerID, &o.ProductID, &o.Price, &o.Quantity, &o.Status, &o.ShippingAddress, &o.NegotiationID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}
