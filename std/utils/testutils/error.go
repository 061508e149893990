package utils

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"
)

var testT *testing.T

// SetT selects the test that NoErr and Err report to.
func SetT(t *testing.T) {
	testT = t
}

// NoErr fails the test on err and passes v through.
func NoErr[T any](v T, err error) T {
	require.NoError(testT, err)
	return v
}

// Err fails the test unless err is set, and returns it.
func Err[T any](_ T, err error) error {
	require.Error(testT, err)
	return err
}

// Collect gathers every element of seq.
func Collect[T any](seq iter.Seq[T]) []T {
	out := []T{}
	for v := range seq {
		out = append(out, v)
	}
	return out
}
