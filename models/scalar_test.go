package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceIntFirst(t *testing.T) {
	assert.Equal(t, int64(42), Coerce("42").Value())
	assert.Equal(t, int64(-7), Coerce("-7").Value())
	assert.Equal(t, int64(0), Coerce("0").Value())
}

func TestCoerceFloatSecond(t *testing.T) {
	assert.Equal(t, 19.99, Coerce("19.99").Value())
	assert.Equal(t, 42.0, Coerce("42.0").Value())
	assert.Equal(t, -0.5, Coerce("-0.5").Value())
}

func TestCoerceStringFallback(t *testing.T) {
	assert.Equal(t, "abc", Coerce("abc").Value())
	assert.Equal(t, "12 kg", Coerce("12 kg").Value())
	assert.Equal(t, "", Coerce("").Value())
	// leading zeros still parse as an integer
	assert.Equal(t, int64(7), Coerce("007").Value())
}
