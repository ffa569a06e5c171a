package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/logger"
	"suit-rental-backend/internal/repository"
	"suit-rental-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 5

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	logger.EnterMethod("authService.Register", "email", in.Email, "role", in.Role)
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if err := validateRegistration(in); err != nil {
		logger.ExitMethodWithError("authService.Register", err, "email", in.Email)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		City:         strings.TrimSpace(in.City),
		Address:      strings.TrimSpace(in.Address),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if in.Role == domain.RoleAdmin {
		user.ShopName = strings.TrimSpace(in.ShopName)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		err = domain.AsStorageError("create user", err)
		logger.ExitMethodWithError("authService.Register", err, "email", in.Email)
		return nil, err
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	logger.ExitMethod("authService.Register", "userID", user.ID)
	return session, nil
}

func validateRegistration(in RegisterInput) error {
	var problems []string
	if strings.TrimSpace(in.FirstName) == "" {
		problems = append(problems, "first_name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		problems = append(problems, "last_name is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		problems = append(problems, "phone is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		problems = append(problems, "email is invalid")
	}
	if len(in.Password) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if !in.Role.Valid() {
		problems = append(problems, "role must be admin or user")
	}
	if in.Role == domain.RoleAdmin && strings.TrimSpace(in.ShopName) == "" {
		problems = append(problems, "shop_name is required for admins")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	logger.EnterMethod("authService.Login", "email", email)
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.AsStorageError("get user by email", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	logger.ExitMethod("authService.Login", "userID", user.ID)
	return session, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (domain.Actor, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return domain.Actor{}, err
	}
	return claims.Actor(), nil
}

func (s *authService) issue(user *domain.User) (*Session, error) {
	token, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
