package service

import (
	"context"
	"errors"
	"fmt"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/logger"
	"suit-rental-backend/internal/repository"
	"suit-rental-backend/internal/utils"
)

type rentalService struct {
	store   repository.Store
	cache   AvailabilityCache
	listing ListingNotifier
}

func NewRentalService(store repository.Store, cache AvailabilityCache, listing ListingNotifier) RentalService {
	if cache == nil {
		cache = noopCache{}
	}
	if listing == nil {
		listing = ListingNotifiers(nil)
	}
	return &rentalService{
		store:   store,
		cache:   cache,
		listing: listing,
	}
}

func (s *rentalService) CreateRental(ctx context.Context, actor domain.Actor, in CreateRentalInput) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.CreateRental", "actorID", actor.UserID, "suitID", in.SuitID, "clientID", in.ClientID, "days", len(in.Days))

	rental, err := s.prepareRental(actor, in)
	if err != nil {
		logger.ExitMethodWithError("rentalService.CreateRental", err, "suitID", in.SuitID)
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		suit, err := repos.Suits.GetByIDForUpdate(ctx, in.SuitID)
		if err != nil {
			return fmt.Errorf("suit %d: %w", in.SuitID, err)
		}
		if suit.OwnerID != actor.UserID {
			return fmt.Errorf("suit %d belongs to another shop: %w", suit.ID, domain.ErrUnauthorized)
		}

		client, err := repos.Users.GetByID(ctx, in.ClientID)
		if err != nil {
			return fmt.Errorf("client %d: %w", in.ClientID, err)
		}
		if client.Role != domain.RoleUser {
			return fmt.Errorf("client %d: %w", in.ClientID, domain.ErrNotFound)
		}

		conflicts, err := findConflicts(ctx, repos.RentalDays, suit.ID, domain.NewDaySet(rental.Days...))
		if err != nil {
			return err
		}
		if conflicts.Len() > 0 {
			return &domain.ConflictError{Days: conflicts.Sorted()}
		}

		total, err := utils.CalculateRentalCost(suit.PricePerDayCents, len(rental.Days))
		if err != nil {
			return err
		}
		rental.TotalPriceCents = total

		if err := repos.Rentals.Create(ctx, rental); err != nil {
			return err
		}
		return repos.RentalDays.InsertDays(ctx, rental.ID, rental.Days)
	})
	if err != nil {
		err = domain.AsStorageError("create rental", err)
		logger.ExitMethodWithError("rentalService.CreateRental", err, "suitID", in.SuitID)
		return nil, err
	}

	s.afterCommit(ctx, rental.SuitID, false)
	logger.ExitMethod("rentalService.CreateRental", "rentalID", rental.ID, "totalPriceCents", rental.TotalPriceCents)
	return rental, nil
}

// prepareRental validates the input without touching the store.
func (s *rentalService) prepareRental(actor domain.Actor, in CreateRentalInput) (*domain.Rental, error) {
	if len(in.Days) == 0 {
		return nil, domain.ErrEmptyBooking
	}
	set, dups := domain.NormalizeDays(in.Days)
	if len(dups) > 0 {
		return nil, &domain.DuplicateDayError{Days: dups}
	}
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only shop admins create rentals: %w", domain.ErrUnauthorized)
	}

	payment := domain.PaymentStatusUnpaid
	if in.PaymentStatus != nil {
		if !in.PaymentStatus.Valid() {
			return nil, fmt.Errorf("%w: unknown payment status %q", domain.ErrInvalidInput, *in.PaymentStatus)
		}
		payment = *in.PaymentStatus
	}

	days := set.Sorted()
	return &domain.Rental{
		SuitID:        in.SuitID,
		ClientID:      in.ClientID,
		CreatorID:     actor.UserID,
		Status:        domain.RentalStatusActive,
		PaymentStatus: payment,
		Notes:         in.Notes,
		StartDate:     days[0],
		Days:          days,
	}, nil
}

func (s *rentalService) UpdateRental(ctx context.Context, actor domain.Actor, rentalID int32, upd RentalUpdate) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.UpdateRental", "actorID", actor.UserID, "rentalID", rentalID)

	if upd.PaymentStatus != nil && !upd.PaymentStatus.Valid() {
		err := fmt.Errorf("%w: unknown payment status %q", domain.ErrInvalidInput, *upd.PaymentStatus)
		logger.ExitMethodWithError("rentalService.UpdateRental", err, "rentalID", rentalID)
		return nil, err
	}

	var result *domain.Rental
	var lastActive bool
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		rental, suit, err := s.lockRental(ctx, repos, actor, rentalID)
		if err != nil {
			return err
		}

		left := false
		if upd.Status != nil {
			if left, err = rental.TransitionTo(*upd.Status); err != nil {
				return err
			}
		}
		if upd.PaymentStatus != nil {
			rental.PaymentStatus = *upd.PaymentStatus
		}
		if upd.Notes != nil {
			rental.Notes = upd.Notes
		}
		if err := repos.Rentals.UpdateState(ctx, rental); err != nil {
			return err
		}

		if left {
			if lastActive, err = noOtherActive(ctx, repos, suit.ID, rental.ID); err != nil {
				return err
			}
		}

		if rental.Days, err = repos.RentalDays.DaysOf(ctx, rental.ID); err != nil {
			return err
		}
		result = rental
		return nil
	})
	if err != nil {
		err = domain.AsStorageError("update rental", err)
		logger.ExitMethodWithError("rentalService.UpdateRental", err, "rentalID", rentalID)
		return nil, err
	}

	s.afterCommit(ctx, result.SuitID, lastActive)
	logger.ExitMethod("rentalService.UpdateRental", "rentalID", rentalID, "status", result.Status)
	return result, nil
}

func (s *rentalService) CompleteRental(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Rental, error) {
	status := domain.RentalStatusCompleted
	return s.UpdateRental(ctx, actor, rentalID, RentalUpdate{Status: &status})
}

func (s *rentalService) CancelRental(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Rental, error) {
	status := domain.RentalStatusCancelled
	return s.UpdateRental(ctx, actor, rentalID, RentalUpdate{Status: &status})
}

func (s *rentalService) DeleteRental(ctx context.Context, actor domain.Actor, rentalID int32) error {
	logger.EnterMethod("rentalService.DeleteRental", "actorID", actor.UserID, "rentalID", rentalID)

	var suitID int32
	var lastActive bool
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		rental, suit, err := s.lockRental(ctx, repos, actor, rentalID)
		if err != nil {
			return err
		}
		if rental.Status != domain.RentalStatusActive {
			return fmt.Errorf("%w: cannot delete a %s rental", domain.ErrInvalidState, rental.Status)
		}
		if err := repos.Rentals.Delete(ctx, rental.ID); err != nil {
			return err
		}
		suitID = suit.ID
		lastActive, err = noOtherActive(ctx, repos, suit.ID, rental.ID)
		return err
	})
	if err != nil {
		err = domain.AsStorageError("delete rental", err)
		logger.ExitMethodWithError("rentalService.DeleteRental", err, "rentalID", rentalID)
		return err
	}

	s.afterCommit(ctx, suitID, lastActive)
	logger.ExitMethod("rentalService.DeleteRental", "rentalID", rentalID)
	return nil
}

// lockRental loads the rental, locks its suit and re-reads the rental so the
// returned state cannot change before the transaction ends.
func (s *rentalService) lockRental(ctx context.Context, repos repository.Repositories, actor domain.Actor, rentalID int32) (*domain.Rental, *domain.Suit, error) {
	if !actor.IsAdmin() {
		return nil, nil, domain.ErrUnauthorized
	}
	rental, err := repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, nil, fmt.Errorf("rental %d: %w", rentalID, err)
	}
	suit, err := repos.Suits.GetByIDForUpdate(ctx, rental.SuitID)
	if err != nil {
		return nil, nil, fmt.Errorf("suit %d: %w", rental.SuitID, err)
	}
	if rental, err = repos.Rentals.GetByID(ctx, rentalID); err != nil {
		return nil, nil, fmt.Errorf("rental %d: %w", rentalID, err)
	}
	if !rental.ManageableBy(actor, suit.OwnerID) {
		return nil, nil, domain.ErrUnauthorized
	}
	return rental, suit, nil
}

func noOtherActive(ctx context.Context, repos repository.Repositories, suitID, rentalID int32) (bool, error) {
	n, err := repos.Rentals.CountActiveBySuit(ctx, suitID, rentalID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// afterCommit drops the cached availability of the suit and, when its last
// active rental just ended, tells the listing the suit is free again.
func (s *rentalService) afterCommit(ctx context.Context, suitID int32, lastActive bool) {
	if err := s.cache.Invalidate(ctx, suitID); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate availability cache", "suitID", suitID, "error", err)
	}
	if !lastActive {
		return
	}
	if err := s.listing.SetAvailabilityHint(ctx, suitID, true); err != nil {
		logger.WarnContext(ctx, "Failed to send availability hint", "suitID", suitID, "error", err)
	}
}

func (s *rentalService) GetRental(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.GetRental", "actorID", actor.UserID, "rentalID", rentalID)

	repos := s.store.Repositories()
	rental, err := repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		err = domain.AsStorageError("get rental", err)
		logger.ExitMethodWithError("rentalService.GetRental", err, "rentalID", rentalID)
		return nil, err
	}
	suit, err := repos.Suits.GetByID(ctx, rental.SuitID)
	if err != nil {
		err = domain.AsStorageError("get suit", err)
		logger.ExitMethodWithError("rentalService.GetRental", err, "rentalID", rentalID)
		return nil, err
	}
	if !rental.VisibleTo(actor, suit.OwnerID) {
		logger.ExitMethodWithError("rentalService.GetRental", domain.ErrUnauthorized, "rentalID", rentalID)
		return nil, domain.ErrUnauthorized
	}
	if rental.Days, err = repos.RentalDays.DaysOf(ctx, rental.ID); err != nil {
		err = domain.AsStorageError("get rental days", err)
		logger.ExitMethodWithError("rentalService.GetRental", err, "rentalID", rentalID)
		return nil, err
	}

	logger.ExitMethod("rentalService.GetRental", "rentalID", rentalID)
	return rental, nil
}

func (s *rentalService) ListAdminRentals(ctx context.Context, actor domain.Actor, filter repository.RentalFilter) ([]domain.Rental, int32, error) {
	if !actor.IsAdmin() {
		return nil, 0, domain.ErrUnauthorized
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown rental status %q", domain.ErrInvalidInput, filter.Status)
	}
	filter.CreatorID = actor.UserID
	return s.listWithDays(ctx, "rentalService.ListAdminRentals", filter)
}

func (s *rentalService) ListClientRentals(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.listWithDays(ctx, "rentalService.ListClientRentals", repository.RentalFilter{
		ClientID: actor.UserID,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *rentalService) listWithDays(ctx context.Context, method string, filter repository.RentalFilter) ([]domain.Rental, int32, error) {
	logger.EnterMethod(method, "creatorID", filter.CreatorID, "clientID", filter.ClientID, "status", filter.Status)
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)

	repos := s.store.Repositories()
	rentals, count, err := repos.Rentals.List(ctx, filter)
	if err != nil {
		err = domain.AsStorageError("list rentals", err)
		logger.ExitMethodWithError(method, err)
		return nil, 0, err
	}

	ids := make([]int32, len(rentals))
	for i := range rentals {
		ids[i] = rentals[i].ID
	}
	days, err := repos.RentalDays.DaysOfRentals(ctx, ids)
	if err != nil {
		err = domain.AsStorageError("list rental days", err)
		logger.ExitMethodWithError(method, err)
		return nil, 0, err
	}
	for i := range rentals {
		rentals[i].Days = days[rentals[i].ID]
	}

	logger.ExitMethod(method, "count", len(rentals), "total", count)
	return rentals, count, nil
}

func (s *rentalService) CompleteElapsedRentals(ctx context.Context, today domain.Day) (int, error) {
	logger.EnterMethod("rentalService.CompleteElapsedRentals", "today", today.String())

	candidates, err := s.store.Repositories().Rentals.ListElapsedActive(ctx, today)
	if err != nil {
		err = domain.AsStorageError("list elapsed rentals", err)
		logger.ExitMethodWithError("rentalService.CompleteElapsedRentals", err)
		return 0, err
	}

	completed := 0
	var errs []error
	for _, c := range candidates {
		done, lastActive, err := s.completeElapsed(ctx, c.ID, c.SuitID, today)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to complete elapsed rental", "rentalID", c.ID, "error", err)
			errs = append(errs, fmt.Errorf("rental %d: %w", c.ID, err))
			continue
		}
		if done {
			completed++
			s.afterCommit(ctx, c.SuitID, lastActive)
		}
	}

	logger.ExitMethod("rentalService.CompleteElapsedRentals", "candidates", len(candidates), "completed", completed)
	return completed, errors.Join(errs...)
}

func (s *rentalService) completeElapsed(ctx context.Context, rentalID, suitID int32, today domain.Day) (done, lastActive bool, err error) {
	err = s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Suits.GetByIDForUpdate(ctx, suitID); err != nil {
			return err
		}
		rental, err := repos.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if rental.Status != domain.RentalStatusActive {
			return nil
		}
		if rental.Days, err = repos.RentalDays.DaysOf(ctx, rental.ID); err != nil {
			return err
		}
		if len(rental.Days) > 0 && !rental.LastDay().Before(today) {
			return nil
		}
		if _, err := rental.TransitionTo(domain.RentalStatusCompleted); err != nil {
			return err
		}
		if err := repos.Rentals.UpdateState(ctx, rental); err != nil {
			return err
		}
		done = true
		lastActive, err = noOtherActive(ctx, repos, suitID, rentalID)
		return err
	})
	if err != nil {
		return false, false, domain.AsStorageError("complete elapsed rental", err)
	}
	return done, lastActive, nil
}
