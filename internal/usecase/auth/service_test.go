package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/adapter/repository/memory"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() *AuthService {
	store := memory.NewStore()
	// minimum bcrypt cost keeps the tests fast
	return NewAuthService(memory.NewUserRepo(store), "test-secret", time.Hour, 4)
}

func TestRegister_CreatesUserWithZeroBalance(t *testing.T) {
	service := newAuthFixture()
	ctx := context.Background()

	user, err := service.Register(ctx, RegisterInput{
		PhoneNumber: "9876543210",
		Name:        "Asha",
		Password:    "secret123",
	})

	require.NoError(t, err)
	assert.True(t, user.Balance.IsZero())
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestRegister_RejectsInvalidPhoneNumber(t *testing.T) {
	service := newAuthFixture()
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{
		PhoneNumber: "12345",
		Name:        "Asha",
		Password:    "secret123",
	})

	assert.Error(t, err)
}

func TestRegister_RejectsDuplicatePhoneNumber(t *testing.T) {
	service := newAuthFixture()
	ctx := context.Background()

	input := RegisterInput{PhoneNumber: "9876543210", Name: "Asha", Password: "secret123"}

	_, err := service.Register(ctx, input)
	require.NoError(t, err)

	_, err = service.Register(ctx, input)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	service := newAuthFixture()
	ctx := context.Background()

	registered, err := service.Register(ctx, RegisterInput{
		PhoneNumber: "9876543210",
		Name:        "Asha",
		Password:    "secret123",
	})
	require.NoError(t, err)

	user, token, err := service.Login(ctx, "9876543210", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, token)

	verified, err := service.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, verified.ID)
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	service := newAuthFixture()
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{
		PhoneNumber: "9876543210",
		Name:        "Asha",
		Password:    "secret123",
	})
	require.NoError(t, err)

	_, _, wrongPassword := service.Login(ctx, "9876543210", "nope-nope")
	_, _, unknownUser := service.Login(ctx, "9000000000", "secret123")

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
}

func TestVerifyToken_RejectsTamperedToken(t *testing.T) {
	service := newAuthFixture()
	ctx := context.Background()

	token, err := GenerateToken("another-secret", uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
