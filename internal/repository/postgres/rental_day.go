package postgres

import (
	"context"
	"time"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/logger"
	"suit-rental-backend/internal/repository"

	"github.com/lib/pq"
)

type rentalDayRepository struct {
	db DBTX
}

func NewRentalDayRepository(db DBTX) repository.RentalDayRepository {
	return &rentalDayRepository{db: db}
}

func (r *rentalDayRepository) DaysOf(ctx context.Context, rentalID int32) ([]domain.Day, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT day FROM rental_days WHERE rental_id = $1 ORDER BY day`, rentalID)
	if err != nil {
		return nil, translate("list rental days", err)
	}
	defer rows.Close()

	var days []domain.Day
	for rows.Next() {
		var d domain.Day
		if err := rows.Scan(&d); err != nil {
			return nil, translate("list rental days", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list rental days", err)
	}
	return days, nil
}

func (r *rentalDayRepository) DaysOfRentals(ctx context.Context, rentalIDs []int32) (map[int32][]domain.Day, error) {
	out := make(map[int32][]domain.Day, len(rentalIDs))
	if len(rentalIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT rental_id, day FROM rental_days WHERE rental_id = ANY($1) ORDER BY rental_id, day`, pq.Array(rentalIDs))
	if err != nil {
		return nil, translate("list rental days", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int32
		var d domain.Day
		if err := rows.Scan(&id, &d); err != nil {
			return nil, translate("list rental days", err)
		}
		out[id] = append(out[id], d)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list rental days", err)
	}
	return out, nil
}

func (r *rentalDayRepository) InsertDays(ctx context.Context, rentalID int32, days []domain.Day) error {
	if len(days) == 0 {
		return nil
	}
	if err := repository.CheckDuplicateDays(days); err != nil {
		return err
	}

	// Days travel as one array parameter, so the bind count stays at three.
	query := `INSERT INTO rental_days (rental_id, day, created_at)
	          SELECT $1, d, $3 FROM unnest($2::date[]) AS d`
	args := []any{rentalID, pq.Array(domain.DayStrings(days)), time.Now().UTC()}

	logger.DatabaseCall("insert rental days", query, "rentalID", rentalID, "count", len(days))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("insert rental days", 0, err, "rentalID", rentalID)
		return translate("insert rental days", err)
	}
	affected, _ := res.RowsAffected()
	logger.DatabaseResult("insert rental days", affected, nil, "rentalID", rentalID)
	return nil
}

func (r *rentalDayRepository) ActiveDaysBySuit(ctx context.Context, suitID int32, within []domain.Day) ([]domain.Day, error) {
	query := `SELECT DISTINCT d.day FROM rental_days d
	          JOIN rentals r ON r.id = d.rental_id
	          WHERE r.suit_id = $1 AND r.status = $2`
	args := []any{suitID, domain.RentalStatusActive}
	if within != nil {
		if len(within) == 0 {
			return nil, nil
		}
		query += ` AND d.day = ANY($3::date[])`
		args = append(args, pq.Array(domain.DayStrings(within)))
	}
	query += ` ORDER BY d.day`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("list active days", err)
	}
	defer rows.Close()

	var days []domain.Day
	for rows.Next() {
		var d domain.Day
		if err := rows.Scan(&d); err != nil {
			return nil, translate("list active days", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list active days", err)
	}
	return days, nil
}
