package utils

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// HashPassword 使用 bcrypt 对密码进行哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword 验证密码
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidateEmail 验证邮箱格式（必须包含 @ 和带点的域名）
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword 验证密码强度（至少6个字符）
func ValidatePassword(password string) bool {
	return len(password) >= 6
}

// ValidateName 验证显示名（去掉首尾空白后非空）
func ValidateName(name string) bool {
	return strings.TrimSpace(name) != ""
}
