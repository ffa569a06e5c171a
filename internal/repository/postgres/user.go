package postgres

import (
	"context"
	"database/sql"
	"time"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, first_name, last_name, COALESCE(shop_name, ''), city, address, phone, email, password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.ShopName, &u.City, &u.Address, &u.Phone, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (first_name, last_name, shop_name, city, address, phone, email, password_hash, role, created_at, updated_at)
	          VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, query, u.FirstName, u.LastName, u.ShopName, u.City, u.Address, u.Phone, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	return translate("create user", err)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate("get user", err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translate("get user by email", err)
	}
	return u, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role, page, pageSize int32) ([]domain.User, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE role = $1`, role).Scan(&count); err != nil {
		return nil, 0, translate("count users", err)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY last_name, first_name, id LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, role, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, translate("list users", err)
	}
	defer rows.Close()

	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, 0, translate("list users", err)
	}
	return users, count, nil
}

// collect drains rows through scan.
func collect[T any](rows *sql.Rows, scan func(interface{ Scan(...any) error }) (*T, error)) ([]T, error) {
	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}
