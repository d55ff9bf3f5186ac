package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"a@b.co",
		"joao.silva@universidade.edu",
		"user+tag@example.org",
	}
	invalid := []string{
		"",
		"plain",
		"no-at.example.com",
		"no-domain@",
		"no-dot@example",
		"two words@example.com",
	}

	for _, e := range valid {
		assert.True(t, ValidateEmail(e), "expected valid: %s", e)
	}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), "expected invalid: %s", e)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword(""))
	assert.False(t, ValidatePassword("12345"))
	assert.True(t, ValidatePassword("123456"))
	assert.True(t, ValidatePassword("a-much-longer-password"))
}

func TestValidateName(t *testing.T) {
	assert.False(t, ValidateName(""))
	assert.False(t, ValidateName("   "))
	assert.True(t, ValidateName("João Silva"))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}
