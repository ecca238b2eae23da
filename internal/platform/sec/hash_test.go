// Copyright (c) 2026 Souqly. All rights reserved.

package sec_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqly/backend/internal/platform/sec"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse battery staple", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
}

func TestPasswordHashing_SaltedPerCall(t *testing.T) {
	first, err := sec.HashPassword("same input")
	require.NoError(t, err)
	second, err := sec.HashPassword("same input")
	require.NoError(t, err)

	// bcrypt embeds a random salt, so equal inputs hash differently.
	assert.NotEqual(t, first, second)
}

func TestGenerateResetCode(t *testing.T) {
	sixDigits := regexp.MustCompile(`^\d{6}$`)

	for i := 0; i < 50; i++ {
		code, err := sec.GenerateResetCode()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}

func TestHashResetCode_Deterministic(t *testing.T) {
	assert.Equal(t, sec.HashResetCode("123456"), sec.HashResetCode("123456"))
	assert.NotEqual(t, sec.HashResetCode("123456"), sec.HashResetCode("654321"))

	// Hex-encoded SHA-256.
	assert.Len(t, sec.HashResetCode("123456"), 64)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, sec.HashToken("token"), sec.HashToken("token"))
	assert.NotEqual(t, "token", sec.HashToken("token"))
	assert.Len(t, sec.HashToken("token"), 64)
}
