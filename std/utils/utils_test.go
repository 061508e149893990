package utils_test

import (
	"testing"

	"github.com/N3ro47/lockfree/std/utils"
	"github.com/stretchr/testify/require"
)

func TestIf(t *testing.T) {
	require.Equal(t, "ok", utils.If(true, "ok", "fail"))
	require.Equal(t, 2, utils.If(false, 1, 2))
}
