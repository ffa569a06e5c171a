package service

import (
	"context"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, domain.AsStorageError("get user", err)
	}
	return u, nil
}

// ListClients lists the accounts an admin can book rentals for.
func (s *userService) ListClients(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.User, int32, error) {
	if !actor.IsAdmin() {
		return nil, 0, domain.ErrUnauthorized
	}
	page, pageSize = normalizePage(page, pageSize)
	users, count, err := s.userRepo.ListByRole(ctx, domain.RoleUser, page, pageSize)
	if err != nil {
		return nil, 0, domain.AsStorageError("list clients", err)
	}
	return users, count, nil
}
