package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOkErr(t *testing.T) {
	ok := Ok(42)
	assert.True(t, ok.IsOk())
	assert.False(t, ok.IsErr())
	v, isOk := ok.Value()
	assert.True(t, isOk)
	assert.Equal(t, 42, v)
	assert.NoError(t, ok.Error())

	errBoom := errors.New("boom")
	failed := Err[int](errBoom)
	assert.False(t, failed.IsOk())
	assert.True(t, failed.IsErr())
	_, isOk = failed.Value()
	assert.False(t, isOk)
	assert.Equal(t, errBoom, failed.Error())
}

func TestUnwrap(t *testing.T) {
	assert.Equal(t, 7, Ok(7).Unwrap())
	assert.Panics(t, func() { Err[int](errors.New("x")).Unwrap() })
}

func TestUnwrapOr(t *testing.T) {
	assert.Equal(t, 7, Ok(7).UnwrapOr(0))
	assert.Equal(t, 9, Err[int](errors.New("x")).UnwrapOr(9))
}

func TestMap(t *testing.T) {
	doubled := Map(Ok(5), func(v int) int { return v * 2 })
	assert.Equal(t, 10, doubled.Unwrap())

	errBoom := errors.New("boom")
	stillErr := Map(Err[int](errBoom), func(v int) int { return v * 2 })
	require.True(t, stillErr.IsErr())
	assert.Equal(t, errBoom, stillErr.Error())
}

func TestFlatMap(t *testing.T) {
	half := func(v int) Result[int] {
		if v%2 != 0 {
			return Err[int](errors.New("odd"))
		}
		return Ok(v / 2)
	}
	assert.Equal(t, 5, FlatMap(Ok(10), half).Unwrap())
	assert.True(t, FlatMap(Ok(7), half).IsErr())

	errBoom := errors.New("boom")
	assert.Equal(t, errBoom, FlatMap(Err[int](errBoom), half).Error())
}

func TestMatch(t *testing.T) {
	out := Match(Ok(3), func(v int) string { return "ok" }, func(err error) string { return "err" })
	assert.Equal(t, "ok", out)

	out = Match(Err[int](errors.New("x")), func(v int) string { return "ok" }, func(err error) string { return "err" })
	assert.Equal(t, "err", out)
}

func TestVoid(t *testing.T) {
	assert.True(t, Void(Ok(42)).IsOk())
	errBoom := errors.New("boom")
	voided := Void(Err[int](errBoom))
	assert.True(t, voided.IsErr())
	assert.Equal(t, errBoom, voided.Error())
}

func TestJoin(t *testing.T) {
	sum := func(vs []int) Result[int] {
		total := 0
		for _, v := range vs {
			total += v
		}
		return Ok(total)
	}
	joined := Join(sum, Ok(1), Ok(2), Ok(3))
	assert.Equal(t, 6, joined.Unwrap())

	errFirst := errors.New("first")
	errSecond := errors.New("second")
	joined = Join(sum, Ok(1), Err[int](errFirst), Err[int](errSecond))
	require.True(t, joined.IsErr())
	assert.Equal(t, errFirst, joined.Error(), "leftmost error wins")
}

func TestJoin2(t *testing.T) {
	concat := func(a int, b string) Result[string] {
		return Ok(b)
	}
	joined := Join2(Ok(1), Ok("hi"), concat)
	assert.Equal(t, "hi", joined.Unwrap())

	errBoom := errors.New("boom")
	joined = Join2(Err[int](errBoom), Ok("hi"), concat)
	assert.Equal(t, errBoom, joined.Error())
}

func TestFlatten(t *testing.T) {
	double := func(v int) Result[int] { return Ok(v * 2) }
	out := Flatten([]int{1, 2, 3}, double)
	assert.Equal(t, []int{2, 4, 6}, out.Unwrap())

	errBoom := errors.New("boom")
	failing := func(v int) Result[int] {
		if v == 2 {
			return Err[int](errBoom)
		}
		return Ok(v)
	}
	out = Flatten([]int{1, 2, 3}, failing)
	require.True(t, out.IsErr())
	assert.Equal(t, errBoom, out.Error())
}
