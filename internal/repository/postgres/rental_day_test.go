package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentalDayRepository_InsertDays(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalDayRepository(db)
	ctx := context.Background()
	d1 := domain.NewDay(2025, time.June, 1)
	d2 := domain.NewDay(2025, time.June, 3)

	t.Run("Days bound as one array", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO rental_days \\(rental_id, day, created_at\\)\\s+SELECT \\$1, d, \\$3 FROM unnest\\(\\$2::date\\[\\]\\)").
			WithArgs(int32(7), `{"2025-06-01","2025-06-03"}`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 2))

		assert.NoError(t, repo.InsertDays(ctx, 7, []domain.Day{d1, d2}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Long booking still binds three parameters", func(t *testing.T) {
		long := make([]domain.Day, 0, 25000)
		for i := 0; i < cap(long); i++ {
			long = append(long, d1.AddDays(i))
		}
		mock.ExpectExec("INSERT INTO rental_days").
			WithArgs(int32(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, int64(len(long))))

		assert.NoError(t, repo.InsertDays(ctx, 7, long))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.InsertDays(ctx, 7, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Repeated day never reaches the store", func(t *testing.T) {
		err := repo.InsertDays(ctx, 7, []domain.Day{d1, d2, d1})
		var dup *domain.DuplicateDayError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, []domain.Day{d1}, dup.Days)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalDayRepository_DaysOf(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalDayRepository(db)

	mock.ExpectQuery("SELECT day FROM rental_days WHERE rental_id = \\$1 ORDER BY day").
		WithArgs(int32(4)).
		WillReturnRows(sqlmock.NewRows([]string{"day"}).
			AddRow(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)).
			AddRow(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))

	days, err := repo.DaysOf(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-01", "2025-06-02"}, domain.DayStrings(days))
}

func TestRentalDayRepository_DaysOfRentals(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalDayRepository(db)

	mock.ExpectQuery("SELECT rental_id, day FROM rental_days WHERE rental_id = ANY\\(\\$1\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"rental_id", "day"}).
			AddRow(1, "2025-06-01").
			AddRow(1, "2025-06-02").
			AddRow(2, "2025-07-01"))

	byRental, err := repo.DaysOfRentals(context.Background(), []int32{1, 2})
	require.NoError(t, err)
	assert.Len(t, byRental[1], 2)
	assert.Equal(t, "2025-07-01", byRental[2][0].String())

	empty, err := repo.DaysOfRentals(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRentalDayRepository_ActiveDaysBySuit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalDayRepository(db)
	ctx := context.Background()

	t.Run("All active days", func(t *testing.T) {
		mock.ExpectQuery("SELECT DISTINCT d.day FROM rental_days d\\s+JOIN rentals r ON r.id = d.rental_id\\s+WHERE r.suit_id = \\$1 AND r.status = \\$2 ORDER BY d.day").
			WithArgs(int32(2), "ACTIVE").
			WillReturnRows(sqlmock.NewRows([]string{"day"}).AddRow("2025-06-01").AddRow("2025-06-02"))

		days, err := repo.ActiveDaysBySuit(ctx, 2, nil)
		require.NoError(t, err)
		assert.Len(t, days, 2)
	})

	t.Run("Restricted to candidate days", func(t *testing.T) {
		mock.ExpectQuery("AND d.day = ANY\\(\\$3::date\\[\\]\\)").
			WithArgs(int32(2), "ACTIVE", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"day"}).AddRow("2025-06-02"))

		days, err := repo.ActiveDaysBySuit(ctx, 2, []domain.Day{domain.NewDay(2025, time.June, 2), domain.NewDay(2025, time.June, 9)})
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-06-02"}, domain.DayStrings(days))
	})

	t.Run("Empty candidate set skips the query", func(t *testing.T) {
		days, err := repo.ActiveDaysBySuit(ctx, 2, []domain.Day{})
		require.NoError(t, err)
		assert.Empty(t, days)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Query failure", func(t *testing.T) {
		mock.ExpectQuery("SELECT DISTINCT d.day").WillReturnError(errors.New("boom"))
		_, err := repo.ActiveDaysBySuit(ctx, 2, nil)
		assert.ErrorIs(t, err, domain.ErrStorage)
	})
}
