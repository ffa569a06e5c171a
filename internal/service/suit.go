package service

import (
	"context"
	"errors"
	"fmt"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/logger"
	"suit-rental-backend/internal/repository"
)

type suitService struct {
	store repository.Store
	cache AvailabilityCache
}

func NewSuitService(store repository.Store, cache AvailabilityCache) SuitService {
	if cache == nil {
		cache = noopCache{}
	}
	return &suitService{store: store, cache: cache}
}

func (s *suitService) AddSuit(ctx context.Context, actor domain.Actor, suit *domain.Suit) error {
	logger.EnterMethod("suitService.AddSuit", "actorID", actor.UserID, "name", suit.Name)
	if !actor.IsAdmin() {
		return domain.ErrUnauthorized
	}
	suit.OwnerID = actor.UserID
	if suit.Status == "" {
		suit.Status = domain.SuitStatusAvailable
	}
	if err := suit.Validate(); err != nil {
		logger.ExitMethodWithError("suitService.AddSuit", err)
		return err
	}
	if err := s.store.Repositories().Suits.Create(ctx, suit); err != nil {
		err = domain.AsStorageError("create suit", err)
		logger.ExitMethodWithError("suitService.AddSuit", err)
		return err
	}
	logger.ExitMethod("suitService.AddSuit", "suitID", suit.ID)
	return nil
}

func (s *suitService) UpdateSuit(ctx context.Context, actor domain.Actor, suit *domain.Suit) error {
	logger.EnterMethod("suitService.UpdateSuit", "actorID", actor.UserID, "suitID", suit.ID)
	repos := s.store.Repositories()
	existing, err := repos.Suits.GetByID(ctx, suit.ID)
	if err != nil {
		err = domain.AsStorageError("get suit", err)
		logger.ExitMethodWithError("suitService.UpdateSuit", err, "suitID", suit.ID)
		return err
	}
	if !actor.IsAdmin() || existing.OwnerID != actor.UserID {
		return domain.ErrUnauthorized
	}
	suit.OwnerID = existing.OwnerID
	suit.CreatedAt = existing.CreatedAt
	if suit.Status == "" {
		suit.Status = existing.Status
	}
	if err := suit.Validate(); err != nil {
		return err
	}
	if err := repos.Suits.Update(ctx, suit); err != nil {
		err = domain.AsStorageError("update suit", err)
		logger.ExitMethodWithError("suitService.UpdateSuit", err, "suitID", suit.ID)
		return err
	}
	logger.ExitMethod("suitService.UpdateSuit", "suitID", suit.ID)
	return nil
}

// DeleteSuit removes a suit and its rental history. Suits with an ACTIVE
// rental cannot be deleted.
func (s *suitService) DeleteSuit(ctx context.Context, actor domain.Actor, id int32) error {
	logger.EnterMethod("suitService.DeleteSuit", "actorID", actor.UserID, "suitID", id)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		suit, err := repos.Suits.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() || suit.OwnerID != actor.UserID {
			return domain.ErrUnauthorized
		}
		active, err := repos.Rentals.CountActiveBySuit(ctx, id, 0)
		if err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: suit has %d active rentals", domain.ErrInvalidState, active)
		}
		return repos.Suits.Delete(ctx, id)
	})
	if err != nil {
		err = domain.AsStorageError("delete suit", err)
		logger.ExitMethodWithError("suitService.DeleteSuit", err, "suitID", id)
		return err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate availability cache", "suitID", id, "error", err)
	}
	logger.ExitMethod("suitService.DeleteSuit", "suitID", id)
	return nil
}

func (s *suitService) GetSuit(ctx context.Context, id int32) (*domain.Suit, error) {
	suit, err := s.store.Repositories().Suits.GetByID(ctx, id)
	if err != nil {
		return nil, domain.AsStorageError("get suit", err)
	}
	return suit, nil
}

func (s *suitService) ListMySuits(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Suit, int32, error) {
	if !actor.IsAdmin() {
		return nil, 0, domain.ErrUnauthorized
	}
	page, pageSize = normalizePage(page, pageSize)
	suits, count, err := s.store.Repositories().Suits.ListByOwner(ctx, actor.UserID, page, pageSize)
	if err != nil {
		return nil, 0, domain.AsStorageError("list suits", err)
	}
	return suits, count, nil
}

func (s *suitService) ListSuits(ctx context.Context, page, pageSize int32) ([]domain.Suit, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	suits, count, err := s.store.Repositories().Suits.ListByStatus(ctx, domain.SuitStatusAvailable, page, pageSize)
	if err != nil {
		return nil, 0, domain.AsStorageError("list suits", err)
	}
	return suits, count, nil
}

func (s *suitService) GetPricePerDay(ctx context.Context, suitID int32) (int64, error) {
	suit, err := s.GetSuit(ctx, suitID)
	if err != nil {
		return 0, err
	}
	return suit.PricePerDayCents, nil
}

func (s *suitService) GetOwnerID(ctx context.Context, suitID int32) (int32, error) {
	suit, err := s.GetSuit(ctx, suitID)
	if err != nil {
		return 0, err
	}
	return suit.OwnerID, nil
}

// SetAvailabilityHint flips the listing status between AVAILABLE and RENTED.
func (s *suitService) SetAvailabilityHint(ctx context.Context, suitID int32, available bool) error {
	status := domain.SuitStatusRented
	if available {
		status = domain.SuitStatusAvailable
	}
	logger.Debug("Setting suit listing status", "suitID", suitID, "status", status)
	if err := s.store.Repositories().Suits.SetStatus(ctx, suitID, status); err != nil {
		return domain.AsStorageError("set suit status", err)
	}
	return nil
}

// ListingNotifiers fans a hint out to every notifier and joins their errors.
type ListingNotifiers []ListingNotifier

func (ns ListingNotifiers) SetAvailabilityHint(ctx context.Context, suitID int32, available bool) error {
	var errs []error
	for _, n := range ns {
		if err := n.SetAvailabilityHint(ctx, suitID, available); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
