package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	jwtsvc "fitstudio/internal/pkg/jwt"
)

type Service struct {
	repo Repository
	jwt  *jwtsvc.Service
}

func NewService(repo Repository, jwt *jwtsvc.Service) *Service {
	return &Service{repo: repo, jwt: jwt}
}

// Login checks credentials and returns a signed token plus the account.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Staff, error) {
	staff, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(staff.ID, staff.Role)
	if err != nil {
		return "", nil, err
	}
	return token, staff, nil
}

// HashPassword is used by the seed command and account creation.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
