package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("S3cure-pass!")
	require.NoError(t, err)
	assert.NotEqual(t, "S3cure-pass!", hash)

	assert.True(t, CheckPasswordHash("S3cure-pass!", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		username string
		problems int
	}{
		{"valid", "Tr1cky-horse", "alice", 0},
		{"too short", "Ab1!", "alice", 1},
		{"numeric and common", "12345678", "alice", 2},
		{"similar to username", "alice-long-name", "alice-long-name", 1},
		{"common", "Password1", "alice", 1},
		{"empty", "", "alice", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ValidatePassword(tt.password, tt.username), tt.problems)
		})
	}
}
