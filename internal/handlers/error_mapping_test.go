package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gopher0727/StudyHub/internal/services"
)

func TestRegisterErrorResponse(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"重复邮箱", services.ErrUserAlreadyExists, http.StatusBadRequest, "用户已存在"},
		{"名字为空", services.ErrInvalidName, http.StatusBadRequest, services.ErrInvalidName.Error()},
		{"邮箱格式", services.ErrInvalidEmail, http.StatusBadRequest, services.ErrInvalidEmail.Error()},
		{"密码太短", services.ErrInvalidPassword, http.StatusBadRequest, services.ErrInvalidPassword.Error()},
		{"存储故障", errors.New("failed to connect to host"), http.StatusInternalServerError, "注册失败"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, msg := registerErrorResponse(c.err)
			assert.Equal(t, c.wantStatus, status)
			assert.Equal(t, c.wantMsg, msg)
		})
	}
}

// 驱动层错误的原文绝不能出现在响应体里
func TestRegisterErrorResponseHidesInternals(t *testing.T) {
	driverErr := fmt.Errorf("ERROR: duplicated key not allowed (SQLSTATE 23505)")
	status, msg := registerErrorResponse(driverErr)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, msg, "SQLSTATE")
	assert.NotContains(t, msg, "duplicated key")
}

func TestLoginErrorResponse(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"凭证错误", services.ErrInvalidCredentials, http.StatusUnauthorized, services.ErrInvalidCredentials.Error()},
		{"邮箱格式", services.ErrInvalidEmail, http.StatusBadRequest, services.ErrInvalidEmail.Error()},
		{"存储故障", errors.New("connection refused"), http.StatusInternalServerError, "登录失败"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, msg := loginErrorResponse(c.err)
			assert.Equal(t, c.wantStatus, status)
			assert.Equal(t, c.wantMsg, msg)
		})
	}
}
