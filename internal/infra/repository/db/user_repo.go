package db

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepoError error

var (
	ErrUserNotFound    UserRepoError = errors.New("user not found")
	ErrSessionNotFound UserRepoError = errors.New("session not found")
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type ISessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) error
}

type UserRepo struct {
	db *DbDao
}

func NewUserRepo(db *DbDao) *UserRepo {
	return &UserRepo{db: db}
}

func (s *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserRepo) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type SessionRepo struct {
	db *DbDao
}

func NewSessionRepo(db *DbDao) *SessionRepo {
	return &SessionRepo{db: db}
}

func (s *SessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *SessionRepo) GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var session model.Session
	err := s.db.WithContext(ctx).First(&session, "session_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionRepo) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Where("session_id = ?", id).Delete(&model.Session{}).Error
}

func (s *SessionRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) error {
	return s.db.WithContext(ctx).Where("expired_at < ?", before).Delete(&model.Session{}).Error
}

var _ IUserRepository = (*UserRepo)(nil)
var _ ISessionRepository = (*SessionRepo)(nil)
