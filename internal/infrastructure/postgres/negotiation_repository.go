package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgeup/marketplace/internal/domain/negotiation"
)

const negotiationColumns = `id, negotiation_id, product_id, buyer_id, seller_id, offered_price, quantity, status, created_at, updated_at`

// NegotiationStore implements negotiation.Store.
type NegotiationStore struct {
	pool *pgxpool.Pool
}

func NewNegotiationStore(pool *pgxpool.Pool) *NegotiationStore {
	return &NegotiationStore{pool: pool}
}

func (s *NegotiationStore) InTx(ctx context.Context, fn func(tx negotiation.Tx) error) error {
	return runInTx(ctx, s.pool, "negotiations.tx", func(tx pgx.Tx) error {
		return fn(&marketTx{tx: tx})
	})
}

func (s *NegotiationStore) GetByID(ctx context.Context, negotiationID uuid.UUID) (*negotiation.Negotiation, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+negotiationColumns+` FROM negotiations WHERE negotiation_id=$1`, negotiationID)
	n, err := scanNegotiation(row)
	return n, mapError("negotiations.get", err)
}

func (s *NegotiationStore) List(ctx context.Context, filter negotiation.Filter, limit, offset int) ([]*negotiation.Negotiation, error) {
	query := `SELECT ` + negotiationColumns + ` FROM negotiations`
	args := []interface{}{}
	idx := 1
	switch {
	case filter.BuyerID != nil && filter.SellerID != nil:
		query += " WHERE (buyer_id=$" + itoa(idx) + " OR seller_id=$" + itoa(idx+1) + ")"
		args = append(args, *filter.BuyerID, *filter.SellerID)
		idx += 2
	case filter.BuyerID != nil:
		query += " WHERE buyer_id=$" + itoa(idx)
		args = append(args, *filter.BuyerID)
		idx++
	case filter.SellerID != nil:
		query += " WHERE seller_id=$" + itoa(idx)
		args = append(args, *filter.SellerID)
		idx++
	}
	if filter.ProductID != nil {
		query += addWhere(query) + " product_id=$" + itoa(idx)
		args = append(args, *filter.ProductID)
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
		return nil, mapError("negotiations.list", err)
	}
	defer rows.Close()
	var out []*negotiation.Negotiation
	for rows.Next() {
		n, err := scanNegotiation(rows)
		if err != nil {
			return nil, mapError("negotiations.list", err)
		}
		out = append(out, n)
	}
	return out, mapError("negotiations.list", rows.Err())
}

// ListRuleCandidates returns pending offers on active products that carry an
// auto-reject rule, in id order after afterID.
func (s *NegotiationStore) ListRuleCandidates(ctx context.Context, afterID int64, limit int) ([]*negotiation.RuleCandidate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT n.id, n.negotiation_id, n.product_id, n.buyer_id, n.seller_id, n.offered_price, n.quantity, n.status, n.created_at, n.updated_at,
		       p.auto_reject_rule, p.price, p.stock
		FROM negotiations n
		JOIN products p ON p.product_id = n.product_id
		WHERE n.status = 'PENDING' AND p.status = 'ACTIVE'
		  AND p.auto_reject_rule IS NOT NULL AND p.auto_reject_rule <> ''
		  AND n.id > $1
		ORDER BY n.id ASC
		LIMIT $2
	`, afterID, limit)
	if err != nil {
		return nil, mapError("negotiations.rule_candidates", err)
	}
	defer rows.Close()
	var out []*negotiation.RuleCandidate
	for rows.Next() {
		var n negotiation.Negotiation
		var c negotiation.RuleCandidate
		if err := rows.Scan(&n.ID, &n.NegotiationID, &n.ProductID, &n.BuyerID, &n.SellerID, &n.OfferedPrice, &n.Quantity, &n.Status, &n.CreatedAt, &n.UpdatedAt,
			&c.Rule, &c.ListPrice, &c.Stock); err != nil {
			return nil, mapError("negotiations.rule_candidates", err)
		}
		c.Negotiation = &n
		out = append(out, &c)
	}
	return out, mapError("negotiations.rule_candidates", rows.Err())
}

func scanNegotiation(row pgx.Row) (*negotiation.Negotiation, error) {
	var n negotiation.Negotiation
	if err := row.Scan(&n.ID, &n.NegotiationID, &n.ProductID, &n.BuyerID, &n.SellerID, &n.OfferedPrice, &n.Quantity, &n.Status, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}
