package service

import (
	"context"
	"errors"
	"time"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"github.com/freshplatter/platter-backend/pkg/redis"
	"github.com/freshplatter/platter-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService interface {
	Register(email, password, name, phone, address string) (*model.User, error)
	Login(email, password string) (string, *model.User, error)
	Logout(ctx context.Context, token string) error
	GetMe(userID uint) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	expiry    time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, expiry time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		expiry:    expiry,
	}
}

func (s *authService) Register(email, password, name, phone, address string) (*model.User, error) {
	logger.Info("Registering user", map[string]interface{}{
		"email": email,
	})

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Phone:        phone,
		Address:      address,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

func (s *authService) Login(email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !util.CheckPassword(password, user.PasswordHash) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"email": email,
		})
		return "", nil, ErrInvalidCredentials
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.expiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return token, user, nil
}

// Logout revokes the token for its remaining lifetime.
func (s *authService) Logout(ctx context.Context, token string) error {
	return redis.BlacklistToken(ctx, token, s.expiry)
}

func (s *authService) GetMe(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
