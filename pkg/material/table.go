package material

import (
	"errors"
	"fmt"
)

// ErrTableSize is returned when a material list does not hold exactly one
// entry per Kind.
var ErrTableSize = errors.New("material table must hold exactly three materials")

// Table resolves a Kind to its Material by index. Points store only the
// Kind tag; the table is supplied separately to the solver.
type Table [Count]Material

// DefaultTable returns the coffee, ceramic and air presets.
func DefaultTable() Table {
	return Table{CoffeePreset(), CeramicPreset(), AirPreset()}
}

// NewTable builds a table from a list ordered as {Coffee, CupMaterial, Air}.
func NewTable(materials []Material) (Table, error) {
	var t Table
	if len(materials) != Count {
		return t, fmt.Errorf("%w: got %d", ErrTableSize, len(materials))
	}
	copy(t[:], materials)
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Validate checks every entry.
func (t Table) Validate() error {
	for _, k := range Kinds {
		if err := t[k].Validate(); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

// Get returns the material for k.
func (t Table) Get(k Kind) Material { return t[k] }

// InterfaceConductivity returns the conductivity used for heat exchanged
// between a point of kind a and a point of kind b: the material's own value
// when they match, the harmonic mean otherwise.
func (t Table) InterfaceConductivity(a, b Kind) float64 {
	ka := t[a].Conductivity
	if a == b {
		return ka
	}
	kb := t[b].Conductivity
	return 2 * ka * kb / (ka + kb)
}

// MaxDiffusivity returns the largest diffusivity in the table.
func (t Table) MaxDiffusivity() float64 {
	peak := 0.0
	for _, m := range t {
		if d := m.Diffusivity(); d > peak {
			peak = d
		}
	}
	return peak
}
