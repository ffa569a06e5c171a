package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/repository"
)

func now() time.Time { return time.Now().UTC() }

func errForeignKey(column string) error {
	return fmt.Errorf("foreign key violation on %s", column)
}

func copyRental(rt domain.Rental) domain.Rental {
	if rt.Notes != nil {
		n := *rt.Notes
		rt.Notes = &n
	}
	rt.Days = nil
	return rt
}

type rentalRepository struct{ b backend }

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.suits[rt.SuitID]; !ok {
			return &domain.StorageError{Op: "insert rental", Err: errForeignKey("rentals.suit_id")}
		}
		if _, ok := st.users[rt.ClientID]; !ok {
			return &domain.StorageError{Op: "insert rental", Err: errForeignKey("rentals.client_id")}
		}
		st.nextRentalID++
		rt.ID = st.nextRentalID
		rt.CreatedAt = now()
		rt.UpdatedAt = rt.CreatedAt
		st.rentals[rt.ID] = copyRental(*rt)
		return nil
	})
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	var out domain.Rental
	err := r.b.read(func(st *state) error {
		rt, ok := st.rentals[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = copyRental(rt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *rentalRepository) UpdateState(ctx context.Context, rt *domain.Rental) error {
	return r.b.write(func(st *state) error {
		existing, ok := st.rentals[rt.ID]
		if !ok {
			return domain.ErrNotFound
		}
		existing.Status = rt.Status
		existing.PaymentStatus = rt.PaymentStatus
		existing.Notes = rt.Notes
		existing.UpdatedAt = now()
		rt.UpdatedAt = existing.UpdatedAt
		st.rentals[rt.ID] = copyRental(existing)
		return nil
	})
}

func (r *rentalRepository) Delete(ctx context.Context, id int32) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.rentals[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.rentals, id)
		delete(st.days, id)
		return nil
	})
}

func (r *rentalRepository) List(ctx context.Context, f repository.RentalFilter) ([]domain.Rental, int32, error) {
	var all []domain.Rental
	_ = r.b.read(func(st *state) error {
		for _, rt := range st.rentals {
			switch {
			case f.CreatorID != 0 && rt.CreatorID != f.CreatorID:
			case f.ClientID != 0 && rt.ClientID != f.ClientID:
			case f.SuitID != 0 && rt.SuitID != f.SuitID:
			case f.Status != "" && rt.Status != f.Status:
			case f.StartFrom != nil && rt.StartDate.Before(*f.StartFrom):
			default:
				all = append(all, copyRental(rt))
			}
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, f.Page, f.PageSize), int32(len(all)), nil
}

func (r *rentalRepository) CountActiveBySuit(ctx context.Context, suitID, excludeRentalID int32) (int32, error) {
	var count int32
	_ = r.b.read(func(st *state) error {
		for _, rt := range st.rentals {
			if rt.SuitID == suitID && rt.Status == domain.RentalStatusActive && rt.ID != excludeRentalID {
				count++
			}
		}
		return nil
	})
	return count, nil
}

func (r *rentalRepository) ListElapsedActive(ctx context.Context, before domain.Day) ([]domain.Rental, error) {
	var out []domain.Rental
	_ = r.b.read(func(st *state) error {
		for _, rt := range st.rentals {
			if rt.Status != domain.RentalStatusActive {
				continue
			}
			elapsed := true
			for _, d := range st.days[rt.ID] {
				if !d.Before(before) {
					elapsed = false
					break
				}
			}
			if elapsed {
				out = append(out, copyRental(rt))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type rentalDayRepository struct{ b backend }

func (r *rentalDayRepository) DaysOf(ctx context.Context, rentalID int32) ([]domain.Day, error) {
	var out []domain.Day
	_ = r.b.read(func(st *state) error {
		out = append(out, st.days[rentalID]...)
		return nil
	})
	domain.SortDays(out)
	return out, nil
}

func (r *rentalDayRepository) DaysOfRentals(ctx context.Context, rentalIDs []int32) (map[int32][]domain.Day, error) {
	out := make(map[int32][]domain.Day, len(rentalIDs))
	_ = r.b.read(func(st *state) error {
		for _, id := range rentalIDs {
			if days, ok := st.days[id]; ok {
				sorted := append([]domain.Day(nil), days...)
				domain.SortDays(sorted)
				out[id] = sorted
			}
		}
		return nil
	})
	return out, nil
}

func (r *rentalDayRepository) InsertDays(ctx context.Context, rentalID int32, days []domain.Day) error {
	if len(days) == 0 {
		return nil
	}
	if err := repository.CheckDuplicateDays(days); err != nil {
		return err
	}
	if err := r.b.insertDaysFault(); err != nil {
		return &domain.StorageError{Op: "insert rental days", Err: err}
	}
	return r.b.write(func(st *state) error {
		if _, ok := st.rentals[rentalID]; !ok {
			return &domain.StorageError{Op: "insert rental days", Err: errForeignKey("rental_days.rental_id")}
		}
		existing := domain.NewDaySet(st.days[rentalID]...)
		for _, d := range days {
			if existing.Contains(d) {
				return fmt.Errorf("%w: rental %d already holds %s", domain.ErrAlreadyExists, rentalID, d)
			}
		}
		st.days[rentalID] = append(st.days[rentalID], days...)
		return nil
	})
}

func (r *rentalDayRepository) ActiveDaysBySuit(ctx context.Context, suitID int32, within []domain.Day) ([]domain.Day, error) {
	if within != nil && len(within) == 0 {
		return nil, nil
	}
	var filter domain.DaySet
	if within != nil {
		filter = domain.NewDaySet(within...)
	}
	held := domain.NewDaySet()
	_ = r.b.read(func(st *state) error {
		for id, rt := range st.rentals {
			if rt.SuitID != suitID || rt.Status != domain.RentalStatusActive {
				continue
			}
			for _, d := range st.days[id] {
				if filter == nil || filter.Contains(d) {
					held.Add(d)
				}
			}
		}
		return nil
	})
	if held.Len() == 0 {
		return nil, nil
	}
	return held.Sorted(), nil
}
