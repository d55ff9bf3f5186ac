package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Gopher0727/StudyHub/internal/models"
	"github.com/Gopher0727/StudyHub/internal/repositories"
	"github.com/Gopher0727/StudyHub/internal/utils"
	jwtmw "github.com/Gopher0727/StudyHub/middleware/jwt"
)

var (
	ErrUserAlreadyExists = errors.New("该邮箱已被注册")
	// ErrInvalidCredentials 对"用户不存在"和"密码错误"返回同一个错误，不泄露是哪种情况
	ErrInvalidCredentials = errors.New("邮箱或密码错误")

	// 校验类错误，handler 层据此决定哪些错误原文可以返回给客户端
	ErrInvalidName     = errors.New("名字不能为空")
	ErrInvalidEmail    = errors.New("邮箱格式不正确")
	ErrInvalidPassword = errors.New("密码至少需要6个字符")
)

type UserService struct {
	UserRepo     *repositories.UserRepository
	TokenManager *jwtmw.TokenManager
}

func NewUserService(userRepo *repositories.UserRepository, tm *jwtmw.TokenManager) *UserService {
	return &UserService{
		UserRepo:     userRepo,
		TokenManager: tm,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserInfo 用户公开信息
type UserInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

func (s *UserService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if !utils.ValidateName(req.Name) {
		return nil, ErrInvalidName
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, ErrInvalidEmail
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, ErrInvalidPassword
	}

	exists, err := s.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	if err := s.UserRepo.Create(user); err != nil {
		// 并发注册同一邮箱时 ExistsByEmail 预检可能双双通过，邮箱唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	token, err := s.TokenManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User: UserInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}

func (s *UserService) Login(req *LoginRequest) (*AuthResponse, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, ErrInvalidEmail
	}

	user, err := s.UserRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.TokenManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User: UserInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}
