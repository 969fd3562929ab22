package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	"github.com/edgeup/marketplace/internal/domain/negotiation"
	"github.com/edgeup/marketplace/internal/domain/order"
	"github.com/edgeup/marketplace/internal/domain/product"
	"github.com/edgeup/marketplace/internal/domain/user"
)

// marketTx is the unit of work behind both the negotiation and the order
// stores. Lock* methods take row locks held until commit or rollback.
type marketTx struct {
	tx pgx.Tx
}

var (
	_ negotiation.Tx = (*marketTx)(nil)
	_ order.Tx       = (*marketTx)(nil)
)

func (t *marketTx) LockNegotiation(ctx context.Context, negotiationID uuid.UUID) (*negotiation.Negotiation, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+negotiationColumns+` FROM negotiations WHERE negotiation_id=$1 FOR UPDATE`, negotiationID)
	n, err := scanNegotiation(row)
	return n, mapError("negotiations.lock", err)
}

func (t *marketTx) LockProduct(ctx context.Context, productID uuid.UUID) (*product.Product, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE product_id=$1 FOR UPDATE`, productID)
	p, err := scanProduct(row)
	return p, mapError("products.lock", err)
}

func (t *marketTx) LockOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id=$1 FOR UPDATE`, orderID)
	o, err := scanOrder(row)
	return o, mapError("orders.lock", err)
}

func (t *marketTx) GetUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return getUser(ctx, t.tx, userID)
}

func (t *marketTx) CreateNegotiation(ctx context.Context, n *negotiation.Negotiation) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO negotiations
		(negotiation_id, product_id, buyer_id, seller_id, offered_price, quantity, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, n.NegotiationID, n.ProductID, n.BuyerID, n.SellerID, n.OfferedPrice, n.Quantity, n.Status, n.CreatedAt, n.UpdatedAt).Scan(&n.ID)
	return mapError("negotiations.create", err)
}

// UpdateNegotiationStatus only applies when the row is still in from.
func (t *marketTx) UpdateNegotiationStatus(ctx context.Context, negotiationID uuid.UUID, from, to negotiation.Status) error {
	res, err := t.tx.Exec(ctx, `
		UPDATE negotiations SET status=$1, updated_at=$2
		WHERE negotiation_id=$3 AND status=$4
	`, to, time.Now().UTC(), negotiationID, from)
	if err != nil {
		return mapError("negotiations.update_status", err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("negotiation %s is no longer %s: %w", negotiationID, from, apperror.ErrInvalidState)
	}
	return nil
}

// DecrementStock never takes stock below zero.
func (t *marketTx) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	res, err := t.tx.Exec(ctx, `
		UPDATE products SET stock = stock - $1, updated_at=$2
		WHERE product_id=$3 AND stock >= $1
	`, qty, time.Now().UTC(), productID)
	if err != nil {
		return mapError("products.decrement_stock", err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("product %s has fewer than %d units: %w", productID, qty, apperror.ErrOutOfStock)
	}
	return nil
}

func (t *marketTx) IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE products SET stock = stock + $1, updated_at=$2 WHERE product_id=$3
	`, qty, time.Now().UTC(), productID)
	return mapError("products.increment_stock", err)
}

func (t *marketTx) CreateOrder(ctx context.Context, o *order.Order) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders
		(order_id, buyer_id, seller_id, product_id, price, quantity, status, shipping_address, negotiation_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`, o.OrderID, o.BuyerID, o.SellerID, o.ProductID, o.Price, o.Quantity, o.Status, o.ShippingAddress, o.NegotiationID, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	return mapError("orders.create", err)
}

func (t *marketTx) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to order.Status) error {
	res, err := t.tx.Exec(ctx, `
		UPDATE orders SET status=$1, updated_at=$2
		WHERE order_id=$3 AND status=$4
	`, to, time.Now().UTC(), orderID, from)
	if err != nil {
		return mapError("orders.update_status", err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("order %s is no longer %s: %w", orderID, from, apperror.ErrInvalidState)
	}
	return nil
}
