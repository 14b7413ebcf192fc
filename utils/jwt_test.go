package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/config"
)

func TestGenerateAndExtractPatientToken(t *testing.T) {
	token, err := GenerateToken("pat-42", "Alex Morgan", "alex@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, name, email, err := ExtractPatientFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "pat-42", id)
	assert.Equal(t, "Alex Morgan", name)
	assert.Equal(t, "alex@example.com", email)
}

func TestExtractPatientFromExpiredToken(t *testing.T) {
	token, err := GenerateToken("pat-42", "Alex Morgan", "alex@example.com", -time.Minute)
	require.NoError(t, err)

	_, _, _, err = ExtractPatientFromToken(token)
	require.Error(t, err)
}

func TestExtractPatientFromGarbageToken(t *testing.T) {
	_, _, _, err := ExtractPatientFromToken("not.a.token")
	require.Error(t, err)
}

func TestTokenSecretComesFromConfigWhenSet(t *testing.T) {
	prev := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = "config-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = prev })

	token, err := GenerateToken("pat-42", "Alex Morgan", "alex@example.com", time.Hour)
	require.NoError(t, err)

	id, _, _, err := ExtractPatientFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "pat-42", id)

	// A token signed under one secret fails under another.
	config.AppConfig.JWTSecret = "rotated-secret"
	_, _, _, err = ExtractPatientFromToken(token)
	require.Error(t, err)
}

func TestHashTokenIsDeterministic(t *testing.T) {
	a := HashToken("some-token")
	b := HashToken("some-token")
	c := HashToken("another-token")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
