package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famshare/family_budget_app/internal/utils"
)

func TestGenerateJoinCode(t *testing.T) {
	code, err := utils.GenerateJoinCode()
	require.NoError(t, err)
	assert.Len(t, code, utils.JoinCodeLength)

	for _, r := range code {
		assert.False(t, strings.ContainsRune("01OIL", r), "code %q contains ambiguous character %q", code, r)
	}

	other, err := utils.GenerateJoinCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, utils.CheckPasswordHash("hunter2", hash))
	assert.False(t, utils.CheckPasswordHash("hunter3", hash))
}
