package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseSensitivity(t *testing.T) {
	insensitive := NewInsensitive()
	insensitive.Set("ClientID", "42")
	v, ok := insensitive.Lookup("clientid")
	require.True(t, ok)
	assert.Equal(t, "42", v)

	sensitive := NewSensitive()
	sensitive.Set("ClientID", "42")
	_, ok = sensitive.Lookup("clientid")
	assert.False(t, ok)
	v, ok = sensitive.Lookup("ClientID")
	require.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestSetFirstWins(t *testing.T) {
	m := NewInsensitive()
	m.Set("RightAscension", "1.0")
	m.Set("RightAscension", "2.0")
	v, _ := m.Lookup("RightAscension")
	assert.Equal(t, "1.0", v)
}

func TestFieldNotFound(t *testing.T) {
	m := NewInsensitive()
	r := StringField("Missing").Get(m)
	require.True(t, r.IsErr())
	assert.Contains(t, r.Error().Error(), "not found")
}

func TestBoolField(t *testing.T) {
	m := NewInsensitive()
	m.Set("Tracking", "True")
	r := BoolField("Tracking").Get(m)
	require.True(t, r.IsOk())
	assert.True(t, r.Unwrap())

	m2 := NewInsensitive()
	m2.Set("Tracking", "nope")
	r2 := BoolField("Tracking").Get(m2)
	require.True(t, r2.IsErr())
	assert.Contains(t, r2.Error().Error(), "Invalid")
}

func TestIntField(t *testing.T) {
	m := NewInsensitive()
	m.Set("Axis", "  3 ")
	r := IntField("Axis").Get(m)
	require.True(t, r.IsOk())
	assert.Equal(t, 3, r.Unwrap())

	m2 := NewInsensitive()
	m2.Set("Axis", "not-a-number")
	r2 := IntField("Axis").Get(m2)
	assert.True(t, r2.IsErr())
}

func TestFloatField(t *testing.T) {
	m := NewInsensitive()
	m.Set("RightAscension", "12.345")
	r := FloatField("RightAscension").Get(m)
	require.True(t, r.IsOk())
	assert.InDelta(t, 12.345, r.Unwrap(), 1e-9)
}

func TestBuild2(t *testing.T) {
	m := NewInsensitive()
	m.Set("RightAscension", "1.5")
	m.Set("Declination", "2.5")

	type coord struct{ ra, dec float64 }
	r := Build2(m, FloatField("RightAscension"), FloatField("Declination"), func(ra, dec float64) coord {
		return coord{ra, dec}
	})
	require.True(t, r.IsOk())
	assert.Equal(t, coord{1.5, 2.5}, r.Unwrap())

	m2 := NewInsensitive()
	m2.Set("RightAscension", "1.5")
	r2 := Build2(m2, FloatField("RightAscension"), FloatField("Declination"), func(ra, dec float64) coord {
		return coord{ra, dec}
	})
	assert.True(t, r2.IsErr())
}
