package postgres

import (
	"context"
	"time"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/logger"
	"suit-rental-backend/internal/repository"
)

type suitRepository struct {
	db DBTX
}

func NewSuitRepository(db DBTX) repository.SuitRepository {
	return &suitRepository{db: db}
}

const suitColumns = `id, owner_id, name, description, size, color, gender, category, price_per_day_cents, status, created_at, updated_at`

func scanSuit(row interface{ Scan(...any) error }) (*domain.Suit, error) {
	s := &domain.Suit{}
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.Size, &s.Color, &s.Gender, &s.Category, &s.PricePerDayCents, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *suitRepository) Create(ctx context.Context, s *domain.Suit) error {
	query := `INSERT INTO suits (owner_id, name, description, size, color, gender, category, price_per_day_cents, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, query, s.OwnerID, s.Name, s.Description, s.Size, s.Color, s.Gender, s.Category, s.PricePerDayCents, s.Status, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	return translate("create suit", err)
}

func (r *suitRepository) GetByID(ctx context.Context, id int32) (*domain.Suit, error) {
	query := `SELECT ` + suitColumns + ` FROM suits WHERE id = $1`
	s, err := scanSuit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate("get suit", err)
	}
	return s, nil
}

func (r *suitRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Suit, error) {
	query := `SELECT ` + suitColumns + ` FROM suits WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("lock suit", query, "suitID", id)
	s, err := scanSuit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		logger.DatabaseResult("lock suit", 0, err, "suitID", id)
		return nil, translate("lock suit", err)
	}
	logger.DatabaseResult("lock suit", 1, nil, "suitID", id)
	return s, nil
}

func (r *suitRepository) Update(ctx context.Context, s *domain.Suit) error {
	query := `UPDATE suits SET name=$1, description=$2, size=$3, color=$4, gender=$5, category=$6, price_per_day_cents=$7, status=$8, updated_at=$9 WHERE id=$10`
	s.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, s.Name, s.Description, s.Size, s.Color, s.Gender, s.Category, s.PricePerDayCents, s.Status, s.UpdatedAt, s.ID)
	return requireRow("update suit", res, err)
}

func (r *suitRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM suits WHERE id = $1`, id)
	return requireRow("delete suit", res, err)
}

func (r *suitRepository) SetStatus(ctx context.Context, id int32, status domain.SuitStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE suits SET status=$1, updated_at=$2 WHERE id=$3`, status, time.Now().UTC(), id)
	return requireRow("set suit status", res, err)
}

func (r *suitRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Suit, int32, error) {
	return r.list(ctx, "owner_id", ownerID, page, pageSize)
}

func (r *suitRepository) ListByStatus(ctx context.Context, status domain.SuitStatus, page, pageSize int32) ([]domain.Suit, int32, error) {
	return r.list(ctx, "status", status, page, pageSize)
}

func (r *suitRepository) list(ctx context.Context, column string, value any, page, pageSize int32) ([]domain.Suit, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM suits WHERE `+column+` = $1`, value).Scan(&count); err != nil {
		return nil, 0, translate("count suits", err)
	}

	query := `SELECT ` + suitColumns + ` FROM suits WHERE ` + column + ` = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, value, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, translate("list suits", err)
	}
	defer rows.Close()

	suits, err := collect(rows, scanSuit)
	if err != nil {
		return nil, 0, translate("list suits", err)
	}
	return suits, count, nil
}
