package material

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetDiffusivity(t *testing.T) {
	assert.InDelta(t, 0.6/(1000*4180), CoffeePreset().Diffusivity(), 1e-18)
	assert.InDelta(t, 1.5/(2400*800), CeramicPreset().Diffusivity(), 1e-18)
	assert.InDelta(t, 0.025/(1.2*1005), AirPreset().Diffusivity(), 1e-15)

	table := DefaultTable()
	require.NoError(t, table.Validate())
	assert.Equal(t, AirPreset().Diffusivity(), table.MaxDiffusivity())
}

func TestNewRejectsDegenerateValues(t *testing.T) {
	cases := []struct {
		name string
		k    float64
		rho  float64
		c    float64
		ref  float64
	}{
		{"zero conductivity", 0, 1000, 4180, 300},
		{"negative density", 0.6, -1, 4180, 300},
		{"zero specific heat", 0.6, 1000, 0, 300},
		{"nan conductivity", math.NaN(), 1000, 4180, 300},
		{"infinite density", 0.6, math.Inf(1), 4180, 300},
		{"zero reference", 0.6, 1000, 4180, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.k, tc.rho, tc.c, tc.ref)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidMaterial), "got %v", err)
		})
	}

	m, err := New(2, 3, 4, 5)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/12.0, m.Diffusivity(), 1e-15)
}

func TestNewTableRequiresThreeEntries(t *testing.T) {
	_, err := NewTable([]Material{CoffeePreset(), CeramicPreset()})
	assert.ErrorIs(t, err, ErrTableSize)

	_, err = NewTable([]Material{CoffeePreset(), CeramicPreset(), {}})
	assert.ErrorIs(t, err, ErrInvalidMaterial)

	table, err := NewTable([]Material{CoffeePreset(), CeramicPreset(), AirPreset()})
	require.NoError(t, err)
	assert.Equal(t, CeramicPreset(), table.Get(CupMaterial))
}

func TestInterfaceConductivityIsSymmetricHarmonicMean(t *testing.T) {
	table := DefaultTable()
	assert.Equal(t, 0.6, table.InterfaceConductivity(Coffee, Coffee))

	ab := table.InterfaceConductivity(Coffee, CupMaterial)
	ba := table.InterfaceConductivity(CupMaterial, Coffee)
	assert.Equal(t, ab, ba)
	assert.InDelta(t, 2*0.6*1.5/(0.6+1.5), ab, 1e-12)

	// The harmonic mean is bounded by the smaller conductivity's double.
	air := table.InterfaceConductivity(CupMaterial, Air)
	assert.Less(t, air, 2*0.025)
	assert.Greater(t, air, 0.025)
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("tea")
	assert.Error(t, err)
	assert.False(t, Kind(7).Valid())
}
