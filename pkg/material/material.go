package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Kind enumerates the closed set of material classes a point can carry.
type Kind uint8

const (
	Coffee Kind = iota
	CupMaterial
	Air
)

// Count is the number of material kinds.
const Count = 3

// Kinds lists every material kind in table order.
var Kinds = [Count]Kind{Coffee, CupMaterial, Air}

// String returns the material name.
func (k Kind) String() string {
	switch k {
	case Coffee:
		return "coffee"
	case CupMaterial:
		return "cup"
	case Air:
		return "air"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool { return k < Count }

// ParseKind resolves a material name as printed by String.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown material %q", name)
}

// ErrInvalidMaterial is returned for degenerate physical property values.
var ErrInvalidMaterial = errors.New("invalid material")

var validate = validator.New()

// Material holds the physical properties of one material class. It is a
// value type and is never mutated after construction.
type Material struct {
	// Conductivity in W/(m·K).
	Conductivity float64 `yaml:"conductivity" validate:"gt=0"`
	// Density in kg/m³.
	Density float64 `yaml:"density" validate:"gt=0"`
	// SpecificHeat in J/(kg·K).
	SpecificHeat float64 `yaml:"specific_heat" validate:"gt=0"`
	// ReferenceTemperature in K.
	ReferenceTemperature float64 `yaml:"reference_temperature" validate:"gt=0"`
}

// New validates and returns a material.
func New(conductivity, density, specificHeat, referenceTemperature float64) (Material, error) {
	m := Material{
		Conductivity:         conductivity,
		Density:              density,
		SpecificHeat:         specificHeat,
		ReferenceTemperature: referenceTemperature,
	}
	if err := m.Validate(); err != nil {
		return Material{}, err
	}
	return m, nil
}

// CoffeePreset returns brewed coffee at ~90 °C.
func CoffeePreset() Material {
	return Material{Conductivity: 0.6, Density: 1000, SpecificHeat: 4180, ReferenceTemperature: 363.15}
}

// CeramicPreset returns a ceramic cup body at ~20 °C.
func CeramicPreset() Material {
	return Material{Conductivity: 1.5, Density: 2400, SpecificHeat: 800, ReferenceTemperature: 293.15}
}

// AirPreset returns still room air at ~20 °C.
func AirPreset() Material {
	return Material{Conductivity: 0.025, Density: 1.2, SpecificHeat: 1005, ReferenceTemperature: 293.15}
}

// Validate checks that every property is finite and strictly positive.
func (m Material) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"conductivity", m.Conductivity},
		{"density", m.Density},
		{"specific heat", m.SpecificHeat},
		{"reference temperature", m.ReferenceTemperature},
	}
	for _, f := range fields {
		if math.IsInf(f.value, 0) || math.IsNaN(f.value) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidMaterial, f.name, f.value)
		}
	}
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s must be > %s, got %v", ErrInvalidMaterial, fe.Field(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidMaterial, err)
	}
	return nil
}

// VolumetricHeatCapacity returns density * specific heat in J/(m³·K).
func (m Material) VolumetricHeatCapacity() float64 {
	return m.Density * m.SpecificHeat
}

// Diffusivity returns conductivity / (density * specific heat) in m²/s.
func (m Material) Diffusivity() float64 {
	return m.Conductivity / m.VolumetricHeatCapacity()
}
