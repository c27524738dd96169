package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"
)

type AuthService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, log *zap.Logger) *AuthService {
	return &AuthService{users: users, log: log}
}

// Register 先查重只是给用户友好提示，真正的保证是 users.email 的唯一索引：
// 并发注册撞索引时把插入错误同样映射成 ErrEmailTaken
func (s *AuthService) Register(email, name, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)

	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.users.Create(u); err != nil {
		if isDupKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("id", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (s *AuthService) Login(email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnknownEmail
	}
	if !CheckPassword(password, u.PasswordHash) {
		return nil, ErrWrongPassword
	}
	return u, nil
}
