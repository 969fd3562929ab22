package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgeup/marketplace/internal/domain/product"
)

const productColumns = `id, product_id, seller_id, title, description, category, image_url, price, stock, status, auto_reject_rule, created_at, updated_at`

// ProductRepository implements product.Repository.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products
		(product_id, seller_id, title, description, category, image_url, price, stock, status, auto_reject_rule, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id
	`, p.ProductID, p.SellerID, p.Title, p.Description, p.Category, p.ImageURL, p.Price, p.Stock, p.Status, p.AutoRejectRule, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	return mapError("products.create", err)
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE products
		SET title=$1, description=$2, category=$3, image_url=$4, price=$5, stock=$6, status=$7, auto_reject_rule=$8, updated_at=$9
		WHERE product_id=$10
	`, p.Title, p.Description, p.Category, p.ImageURL, p.Price, p.Stock, p.Status, p.AutoRejectRule, p.UpdatedAt, p.ProductID)
	return mapError("products.update", err)
}

func (r *ProductRepository) GetByID(ctx context.Context, productID uuid.UUID) (*product.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE product_id=$1`, productID)
	p, err := scanProduct(row)
	return p, mapError("products.get", err)
}

func (r *ProductRepository) List(ctx context.Context, filter product.Filter, limit, offset int) ([]*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []interface{}{}
	idx := 1
	if filter.Status != nil {
		query += " WHERE status=$" + itoa(idx)
		args = append(args, *filter.Status)
		idx++
	}
	if filter.Category != nil {
		query += addWhere(query) + " category=$" + itoa(idx)
		args = append(args, *filter.Category)
		idx++
	}
	if filter.SellerID != nil {
		query += addWhere(query) + " seller_id=$" + itoa(idx)
		args = append(args, *filter.SellerID)
		idx++
	}
	if filter.Search != nil && *filter.Search != "" {
		query += addWhere(query) + " (title ILIKE $" + itoa(idx) + " OR description ILIKE $" + itoa(idx) + ")"
		args = append(args, "%"+*filter.Search+"%")
		idx++
	}
	if filter.MinPrice != nil {
		query += addWhere(query) + " price >= $" + itoa(idx)
		args = append(args, *filter.MinPrice)
		idx++
	}
	if filter.MaxPrice != nil {
		query += addWhere(query) + " price <= $" + itoa(idx)
		args = append(args, *filter.MaxPrice)
		idx++
	}
	query += " ORDER BY created_at DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("products.list", err)
	}
	defer rows.Close()
	var out []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError("products.list", err)
		}
		out = append(out, p)
	}
	return out, mapError("products.list", rows.Err())
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	if err := row.Scan(&p.ID, &p.ProductID, &p.SellerID, &p.Title, &p.Description, &p.Category, &p.ImageURL, &p.Price, &p.Stock, &p.Status, &p.AutoRejectRule, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
