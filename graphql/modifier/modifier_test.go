package modifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequire(t *testing.T) {
	v, err := Require("count", 3, Int)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = Require("count", nil, Int)
	assert.Error(t, err)
}

func TestRequireList(t *testing.T) {
	v, err := RequireList("names", []interface{}{"a", "b"}, String)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestRequireNullableList(t *testing.T) {
	v, err := RequireNullableList("names", nil, String)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestFindNullable(t *testing.T) {
	v, ok, err := FindNullable("name", nil, String)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", v)

	v, ok, err = FindNullable("name", "hi", String)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hi", v)
}

func TestConvertListResult(t *testing.T) {
	out, err := ConvertListResult([]int{1, 2, 3}, IntResult)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, 2, 3}, out)
}

type Color string

const (
	ColorRed  Color = "RED"
	ColorBlue Color = "BLUE"
)

var colorNames = map[string]Color{
	"RED":  ColorRed,
	"BLUE": ColorBlue,
}

func TestEnum(t *testing.T) {
	v, err := Enum(colorNames)("RED")
	require.NoError(t, err)
	assert.Equal(t, ColorRed, v)

	_, err = Enum(colorNames)("GREEN")
	assert.Error(t, err)
}
