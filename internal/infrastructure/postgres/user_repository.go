package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgeup/marketplace/internal/domain/user"
)

const userColumns = `id, user_id, email, name, password_hash, role, country, city, karma, avatar_url, created_at, updated_at`

// UserRepository implements user.Repository.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users
		(user_id, email, name, password_hash, role, country, city, karma, avatar_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`, u.UserID, u.Email, u.Name, u.PasswordHash, u.Role, u.Country, u.City, u.Karma, u.AvatarURL, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	return mapError("users.create", err)
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email=$1, name=$2, password_hash=$3, role=$4, country=$5, city=$6, karma=$7, avatar_url=$8, updated_at=$9
		WHERE user_id=$10
	`, u.Email, u.Name, u.PasswordHash, u.Role, u.Country, u.City, u.Karma, u.AvatarURL, u.UpdatedAt, u.UserID)
	return mapError("users.update", err)
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return getUser(ctx, r.pool, userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	u, err := scanUser(row)
	return u, mapError("users.get_by_email", err)
}

func (r *UserRepository) List(ctx context.Context, filter user.Filter, limit, offset int) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	idx := 1
	if filter.Role != nil {
		query += " WHERE role=$" + itoa(idx)
		args = append(args, *filter.Role)
		idx++
	}
	if filter.Country != nil {
		query += addWhere(query) + " country=$" + itoa(idx)
		args = append(args, *filter.Country)
		idx++
	}
	if filter.City != nil {
		query += addWhere(query) + " city=$" + itoa(idx)
		args = append(args, *filter.City)
		idx++
	}
	query += " ORDER BY created_at DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("users.list", err)
	}
	defer rows.Close()
	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError("users.list", err)
		}
		users = append(users, u)
	}
	return users, mapError("users.list", rows.Err())
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, mapError("users.count", err)
	}
	return count, nil
}

func getUser(ctx context.Context, q querier, userID uuid.UUID) (*user.User, error) {
	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=$1`, userID)
	u, err := scanUser(row)
	return u, mapError("users.get", err)
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.UserID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Country, &u.City, &u.Karma, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
