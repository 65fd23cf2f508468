package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/billmate/billing-api/internal/application/dto"
	"github.com/billmate/billing-api/internal/domain"
	"github.com/billmate/billing-api/internal/domain/entity"
)

type memUserRepo struct {
	users     map[string]*entity.User
	lookupErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(user *entity.User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *memUserRepo) GetByUsername(username string) (*entity.User, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func testJWTConfig() JWTConfig {
	return JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "billing-api"}
}

func TestRegisterAndLogin(t *testing.T) {
	uc := NewAuthUseCase(newMemUserRepo(), testJWTConfig())

	user, err := uc.Register(dto.RegisterRequest{Username: "asha", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "asha", user.Username)
	assert.NotEmpty(t, user.ID)

	resp, err := uc.Login(dto.LoginRequest{Username: "asha", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	uc := NewAuthUseCase(newMemUserRepo(), testJWTConfig())

	_, err := uc.Register(dto.RegisterRequest{Username: "asha", Password: "secret1"})
	require.NoError(t, err)
	_, err = uc.Register(dto.RegisterRequest{Username: "asha", Password: "another1"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegisterValidatesInput(t *testing.T) {
	uc := NewAuthUseCase(newMemUserRepo(), testJWTConfig())

	_, err := uc.Register(dto.RegisterRequest{Username: "", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Register(dto.RegisterRequest{Username: "asha", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterPropagatesLookupError(t *testing.T) {
	repo := newMemUserRepo()
	repo.lookupErr = errors.New("connection refused")
	uc := NewAuthUseCase(repo, testJWTConfig())

	_, err := uc.Register(dto.RegisterRequest{Username: "asha", Password: "secret1"})
	require.ErrorIs(t, err, repo.lookupErr)
	assert.Empty(t, repo.users)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMemUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users["u1"] = &entity.User{ID: "u1", Username: "asha", PasswordHash: string(hash)}
	uc := NewAuthUseCase(repo, testJWTConfig())

	_, err = uc.Login(dto.LoginRequest{Username: "asha", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	uc := NewAuthUseCase(newMemUserRepo(), testJWTConfig())

	_, err := uc.Login(dto.LoginRequest{Username: "ghost", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
