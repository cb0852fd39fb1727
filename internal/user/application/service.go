// Package application 提供用户注册、登录与管理的应用服务
package application

import (
	"context"
	"errors"
	"time"

	"github.com/annaylee/estore-apis/internal/user/domain"
	"github.com/annaylee/estore-apis/pkg/logger"
	"github.com/annaylee/estore-apis/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// 错误定义
var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("name, email and password are required")
)

// RegisterCommand 注册命令
type RegisterCommand struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	IsAdmin   bool
	Street    string
	Apartment string
	City      string
	Zip       string
	Country   string
}

// UpdateUserCommand 更新用户命令
type UpdateUserCommand struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Phone     string
	IsAdmin   bool
	Street    string
	Apartment string
	City      string
	Zip       string
	Country   string
}

// LoginResult 登录结果
type LoginResult struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// UserService 用户应用服务
type UserService struct {
	repo     domain.UserRepository
	secret   string
	tokenTTL time.Duration
}

// NewUserService 构造函数
func NewUserService(repo domain.UserRepository, secret string, tokenTTL time.Duration) *UserService {
	return &UserService{repo: repo, secret: secret, tokenTTL: tokenTTL}
}

// Register 注册用户
func (s *UserService) Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: string(hash),
		Phone:        cmd.Phone,
		IsAdmin:      cmd.IsAdmin,
		Street:       cmd.Street,
		Apartment:    cmd.Apartment,
		City:         cmd.City,
		Zip:          cmd.Zip,
		Country:      cmd.Country,
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "User registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login 用户登录，成功后签发 JWT
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, err := token.Issue(s.secret, s.tokenTTL, user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     signed,
		ExpiresAt: time.Now().Add(s.tokenTTL).Unix(),
	}, nil
}

// Get 获取用户
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// List 获取全部用户
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Update 更新用户，密码为空时保持原密码
func (s *UserService) Update(ctx context.Context, cmd UpdateUserCommand) (*domain.User, error) {
	user, err := s.repo.Get(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if cmd.Name != "" {
		user.Name = cmd.Name
	}
	if cmd.Email != "" {
		user.Email = cmd.Email
	}
	if cmd.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.Phone = cmd.Phone
	user.IsAdmin = cmd.IsAdmin
	user.Street = cmd.Street
	user.Apartment = cmd.Apartment
	user.City = cmd.City
	user.Zip = cmd.Zip
	user.Country = cmd.Country

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete 删除用户
func (s *UserService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// Count 用户总数
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// GetUserName 实现订单服务的用户读取端口，用户不存在时返回空串
func (s *UserService) GetUserName(ctx context.Context, id string) (string, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return user.Name, nil
}

// Exists 判断用户是否存在
func (s *UserService) Exists(ctx context.Context, id string) (bool, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}
