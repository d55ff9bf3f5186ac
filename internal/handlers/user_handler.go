package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/StudyHub/internal/services"
)

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		UserService: userService,
	}
}

// registerErrorResponse 注册错误到 HTTP 的映射
// 只有校验类哨兵错误的原文可以返回给客户端，其余一律 500 + 通用提示，不泄露内部细节
func registerErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrUserAlreadyExists):
		return http.StatusBadRequest, "用户已存在"
	case errors.Is(err, services.ErrInvalidName),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidPassword):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "注册失败"
	}
}

// loginErrorResponse 登录错误到 HTTP 的映射
func loginErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrInvalidEmail):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "登录失败"
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	req := services.RegisterRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	resp, err := h.UserService.Register(&req)
	if err != nil {
		status, msg := registerErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Login(c *gin.Context) {
	req := services.LoginRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	resp, err := h.UserService.Login(&req)
	if err != nil {
		status, msg := loginErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, resp)
}
