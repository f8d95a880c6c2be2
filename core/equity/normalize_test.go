package equity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_AnchorsAtMax(t *testing.T) {
	raw := map[string]float64{
		"top":    0.5,
		"middle": 0.25,
		"low":    0.05,
	}

	public, err := Normalize(raw, 100)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, public["top"], 1e-12)
	assert.InDelta(t, 50.0, public["middle"], 1e-12)
	assert.InDelta(t, 10.0, public["low"], 1e-12)
}

func TestNormalize_Empty(t *testing.T) {
	_, err := Normalize(nil, 100)
	var derr *DegenerateInputError
	require.ErrorAs(t, err, &derr)
}

func TestNormalize_AllZero(t *testing.T) {
	public, err := Normalize(map[string]float64{"a": 0, "b": 0}, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, public["a"])
	assert.Equal(t, 0.0, public["b"])
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := map[string]float64{"a": 0.7, "b": 0.3}

	first, err := Normalize(raw, 100)
	require.NoError(t, err)
	second, err := Normalize(raw, 100)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Input is untouched.
	assert.Equal(t, 0.7, raw["a"])
}

func TestNormalize_CustomScale(t *testing.T) {
	public, err := Normalize(map[string]float64{"a": 2.0, "b": 1.0}, 10)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, public["a"], 1e-12)
	assert.InDelta(t, 5.0, public["b"], 1e-12)
}
