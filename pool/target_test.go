package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetConverter_ClassNames(t *testing.T) {
	c := NewTargetConverter([]string{"a", "b"})

	v, err := c.Convert("a")
	require.NoError(t, err)
	assert.Equal(t, float32(0), v)

	v, err = c.Convert("b")
	require.NoError(t, err)
	assert.Equal(t, float32(1), v)

	_, err = c.Convert("c")
	var unknown *UnknownClassError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "c", unknown.Class)
}

func TestTargetConverter_FirstMatchWins(t *testing.T) {
	c := NewTargetConverter([]string{"x", "x", "y"})

	v, err := c.Convert("x")
	require.NoError(t, err)
	assert.Equal(t, float32(0), v)
}

func TestTargetConverter_Regression(t *testing.T) {
	c := NewTargetConverter(nil)

	v, err := c.Convert("1.5")
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), v)

	v, err = c.Convert("-2")
	require.NoError(t, err)
	assert.Equal(t, float32(-2), v)

	_, err = c.Convert("nan")
	assert.True(t, errors.Is(err, ErrMissingTarget))

	_, err = c.Convert("not-a-number")
	assert.Error(t, err)
}

func TestIsNaNValue(t *testing.T) {
	for _, s := range []string{"nan", "NaN", "NAN", "NA", "Na", "na"} {
		assert.True(t, IsNaNValue(s), s)
	}
	for _, s := range []string{"", "nA", "NAn", "null", "n/a", " nan"} {
		assert.False(t, IsNaNValue(s), s)
	}
}
