package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/logger"
	"suit-rental-backend/internal/repository"
)

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `r.id, r.suit_id, r.client_id, r.creator_id, r.start_date, r.status, r.payment_status, r.total_price_cents, r.notes, r.created_at, r.updated_at`

func scanRental(row interface{ Scan(...any) error }) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var notes sql.NullString
	err := row.Scan(&rt.ID, &rt.SuitID, &rt.ClientID, &rt.CreatorID, &rt.StartDate, &rt.Status, &rt.PaymentStatus, &rt.TotalPriceCents, &notes, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		rt.Notes = &notes.String
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (suit_id, client_id, creator_id, start_date, status, payment_status, total_price_cents, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now().UTC()
	rt.CreatedAt = now
	rt.UpdatedAt = now
	logger.DatabaseCall("insert rental", query, "suitID", rt.SuitID, "clientID", rt.ClientID)
	err := r.db.QueryRowContext(ctx, query, rt.SuitID, rt.ClientID, rt.CreatorID, rt.StartDate, rt.Status, rt.PaymentStatus, rt.TotalPriceCents, rt.Notes, rt.CreatedAt, rt.UpdatedAt).Scan(&rt.ID)
	logger.DatabaseResult("insert rental", 1, err, "rentalID", rt.ID)
	return translate("insert rental", err)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r WHERE r.id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate("get rental", err)
	}
	return rt, nil
}

func (r *rentalRepository) UpdateState(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status=$1, payment_status=$2, notes=$3, updated_at=$4 WHERE id=$5`
	rt.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, rt.Status, rt.PaymentStatus, rt.Notes, rt.UpdatedAt, rt.ID)
	return requireRow("update rental", res, err)
}

func (r *rentalRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	return requireRow("delete rental", res, err)
}

func (r *rentalRepository) List(ctx context.Context, f repository.RentalFilter) ([]domain.Rental, int32, error) {
	where := ` FROM rentals r WHERE 1=1`
	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND "+clause, len(args))
	}
	if f.CreatorID != 0 {
		add("r.creator_id = $%d", f.CreatorID)
	}
	if f.ClientID != 0 {
		add("r.client_id = $%d", f.ClientID)
	}
	if f.SuitID != 0 {
		add("r.suit_id = $%d", f.SuitID)
	}
	if f.Status != "" {
		add("r.status = $%d", f.Status)
	}
	if f.StartFrom != nil {
		add("r.start_date >= $%d", *f.StartFrom)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*)`+where, args...).Scan(&count); err != nil {
		return nil, 0, translate("count rentals", err)
	}

	query := `SELECT ` + rentalColumns + where + fmt.Sprintf(" ORDER BY r.created_at DESC, r.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, translate("list rentals", err)
	}
	defer rows.Close()

	rentals, err := collect(rows, scanRental)
	if err != nil {
		return nil, 0, translate("list rentals", err)
	}
	return rentals, count, nil
}

func (r *rentalRepository) CountActiveBySuit(ctx context.Context, suitID, excludeRentalID int32) (int32, error) {
	query := `SELECT count(*) FROM rentals WHERE suit_id = $1 AND status = $2 AND id <> $3`
	var count int32
	err := r.db.QueryRowContext(ctx, query, suitID, domain.RentalStatusActive, excludeRentalID).Scan(&count)
	if err != nil {
		return 0, translate("count active rentals", err)
	}
	return count, nil
}

func (r *rentalRepository) ListElapsedActive(ctx context.Context, before domain.Day) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r
	          WHERE r.status = $1
	            AND NOT EXISTS (SELECT 1 FROM rental_days d WHERE d.rental_id = r.id AND d.day >= $2)
	          ORDER BY r.id`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusActive, before)
	if err != nil {
		return nil, translate("list elapsed rentals", err)
	}
	defer rows.Close()

	rentals, err := collect(rows, scanRental)
	if err != nil {
		return nil, translate("list elapsed rentals", err)
	}
	return rentals, nil
}
