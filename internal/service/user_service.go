package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionInvalid     = errors.New("session is invalid or expired")
	ErrUserNotFound       = errors.New("user not found")
)

type IUserService interface {
	Register(ctx context.Context, email, password, userName string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.Session, *model.User, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	Authenticate(ctx context.Context, token string) (*model.User, error)
	GetUser(ctx context.Context, userID uint) (*model.User, error)
}

type UserService struct {
	userRepo    db.IUserRepository
	sessionRepo db.ISessionRepository
}

func NewUserService(userRepo db.IUserRepository, sessionRepo db.ISessionRepository) *UserService {
	return &UserService{userRepo: userRepo, sessionRepo: sessionRepo}
}

func (s *UserService) Register(ctx context.Context, email, password, userName string) (*model.User, error) {
	if _, err := s.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, db.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Email:          email,
		HashedPassword: string(hashed),
		UserName:       userName,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user failed: %w", err)
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session := &model.Session{
		SessionID: uuid.New(),
		UserID:    user.UserID,
		ExpiredAt: time.Now().UTC().Add(time.Duration(constants.SessionDuration) * time.Hour),
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session failed: %w", err)
	}
	return session, user, nil
}

func (s *UserService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessionRepo.DeleteSession(ctx, sessionID)
}

// Authenticate bearer token即session id
// 過期session順手刪掉
func (s *UserService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	sessionID, err := uuid.Parse(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	session, err := s.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if session.IsExpired(time.Now().UTC()) {
		_ = s.sessionRepo.DeleteSession(ctx, sessionID)
		return nil, ErrSessionInvalid
	}

	user, err := s.userRepo.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

var _ IUserService = (*UserService)(nil)
