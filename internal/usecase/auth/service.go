package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// AuthService handles registration, login and token issuance.
// Downstream services never see credentials, only the verified user id
// carried by the token.
type AuthService struct {
	UserRepo   domain.UserRepository
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// NewAuthService creates a new AuthService instance
func NewAuthService(userRepo domain.UserRepository, jwtSecret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		UserRepo:   userRepo,
		JWTSecret:  jwtSecret,
		TokenTTL:   tokenTTL,
		BcryptCost: bcryptCost,
	}
}

// RegisterInput represents the input for registering a user
type RegisterInput struct {
	PhoneNumber string
	Name        string
	Password    string
}

// Register creates a new user account with a zero balance
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		PhoneNumber:  input.PhoneNumber,
		Name:         input.Name,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Balance:      decimal.Zero,
		CreatedAt:    time.Now(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and issues a token.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, phoneNumber, password string) (*domain.User, string, error) {
	user, err := s.UserRepo.GetByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := GenerateToken(s.JWTSecret, user.ID, s.TokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// VerifyToken resolves a token to the user it was issued for
func (s *AuthService) VerifyToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	userID, err := ParseToken(s.JWTSecret, tokenStr)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}
