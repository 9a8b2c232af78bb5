package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenConfig_Defaults(t *testing.T) {
	cfg, err := NewTokenConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Empty(t, cfg.Pepper)
}

func TestNewTokenConfig_InvalidCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")
	_, err := NewTokenConfig()
	assert.ErrorContains(t, err, "invalid BCRYPT_COST")

	t.Setenv("BCRYPT_COST", "4")
	_, err = NewTokenConfig()
	assert.ErrorContains(t, err, "out of range")
}

func TestHashAndVerifyToken(t *testing.T) {
	cfg := &TokenConfig{BcryptCost: 10}

	hash, err := cfg.HashToken("local-access-token")
	require.NoError(t, err)
	assert.NotEqual(t, "local-access-token", hash)

	assert.True(t, cfg.VerifyToken("local-access-token", hash))
	assert.False(t, cfg.VerifyToken("wrong-token", hash))
}

func TestVerifyToken_PepperMatters(t *testing.T) {
	peppered := &TokenConfig{BcryptCost: 10, Pepper: "side-secret"}
	plain := &TokenConfig{BcryptCost: 10}

	hash, err := peppered.HashToken("token")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyToken("token", hash))
	assert.False(t, plain.VerifyToken("token", hash))
}
