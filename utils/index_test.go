package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidYMD(t *testing.T) {
	assert.True(t, IsValidYMD("2026-03-14"))
	assert.False(t, IsValidYMD("2026-3-14"))
	assert.False(t, IsValidYMD("14/03/2026"))
	assert.False(t, IsValidYMD("2026-13-01"))
	assert.False(t, IsValidYMD(""))
}

func TestCalculateGrowth(t *testing.T) {
	assert.Equal(t, 0.0, CalculateGrowth(0, 0))
	assert.Equal(t, 100.0, CalculateGrowth(50, 0))
	assert.Equal(t, 50.0, CalculateGrowth(150, 100))
	assert.Equal(t, -50.0, CalculateGrowth(50, 100))
}
