package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/hostelsim-go/pkg/utils"
)

func TestMax(t *testing.T) {
	assert.Equal(t, 5, utils.Max(3, 5))
	assert.Equal(t, 5, utils.Max(5, 3))
	assert.Equal(t, -1, utils.Max(-1, -4))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2.0, utils.Clamp(2, 0, 10))
	assert.Equal(t, 0.0, utils.Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, utils.Clamp(42, 0, 10))
}
