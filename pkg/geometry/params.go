package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"cupheat/pkg/material"

	"github.com/go-playground/validator/v10"
)

// MaxWallSpacingRatio bounds how much coarser than the wall thickness the
// point spacing may be. The generator always places one radial layer inside
// the wall; past this ratio that layer no longer represents the wall.
const MaxWallSpacingRatio = 10.0

// ErrInvalidParameters is returned when geometry parameters fail validation.
var ErrInvalidParameters = errors.New("invalid geometry parameters")

var validate = validator.New()

// Parameters describes the vessel and the sampling resolution. All lengths
// are in metres and temperatures in kelvin.
type Parameters struct {
	InnerRadius   float64 `yaml:"inner_radius" validate:"gt=0"`
	WallThickness float64 `yaml:"wall_thickness" validate:"gt=0"`
	Height        float64 `yaml:"height" validate:"gt=0"`
	CoffeeHeight  float64 `yaml:"coffee_height" validate:"gt=0,ltefield=Height"`
	PointSpacing  float64 `yaml:"point_spacing" validate:"gt=0"`
	// AirMargin is the radial thickness of the air shell around the wall.
	AirMargin float64 `yaml:"air_margin" validate:"gt=0"`

	CoffeeTemperature float64 `yaml:"coffee_temperature" validate:"gt=0"`
	CupTemperature    float64 `yaml:"cup_temperature" validate:"gt=0"`
	AirTemperature    float64 `yaml:"air_temperature" validate:"gt=0"`
}

// DefaultParameters returns the reference mug: 3.5 cm inner radius, 3 mm
// wall, 9 cm tall, filled to 8 cm, sampled every 5 mm.
func DefaultParameters() Parameters {
	return Parameters{
		InnerRadius:       0.035,
		WallThickness:     0.003,
		Height:            0.09,
		CoffeeHeight:      0.08,
		PointSpacing:      0.005,
		AirMargin:         0.02,
		CoffeeTemperature: material.CoffeePreset().ReferenceTemperature,
		CupTemperature:    material.CeramicPreset().ReferenceTemperature,
		AirTemperature:    material.AirPreset().ReferenceTemperature,
	}
}

// Validate reports the first problem found with p.
func (p Parameters) Validate() error {
	for _, f := range p.fields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidParameters, f.name, f.value)
		}
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameters, describe(err))
	}
	if p.PointSpacing > MaxWallSpacingRatio*p.WallThickness {
		return fmt.Errorf("%w: point spacing %g cannot resolve wall thickness %g (max ratio %g)",
			ErrInvalidParameters, p.PointSpacing, p.WallThickness, MaxWallSpacingRatio)
	}
	return nil
}

// OuterRadius returns the outer radius of the wall.
func (p Parameters) OuterRadius() float64 { return p.InnerRadius + p.WallThickness }

// BoundingRadius returns the radius of the sampled cylinder, air shell included.
func (p Parameters) BoundingRadius() float64 { return p.OuterRadius() + p.AirMargin }

// Temperature returns the configured initial temperature for k.
func (p Parameters) Temperature(k material.Kind) float64 {
	switch k {
	case material.Coffee:
		return p.CoffeeTemperature
	case material.CupMaterial:
		return p.CupTemperature
	default:
		return p.AirTemperature
	}
}

// Classify returns the material occupying radial distance r and height z
// inside the bounding cylinder.
func (p Parameters) Classify(r, z float64) material.Kind {
	switch {
	case r <= p.InnerRadius && z <= p.CoffeeHeight:
		return material.Coffee
	case r > p.InnerRadius && r <= p.OuterRadius():
		return material.CupMaterial
	default:
		return material.Air
	}
}

// Contains reports whether position v lies inside the bounding cylinder.
func (p Parameters) Contains(v Vec3) bool {
	return v.Z >= 0 && v.Z <= p.Height && v.Radial() <= p.BoundingRadius()
}

// EstimatedPoints approximates the number of samples a generator will emit.
func (p Parameters) EstimatedPoints() float64 {
	r := p.BoundingRadius()
	return math.Pi * r * r * p.Height / (p.PointSpacing * p.PointSpacing * p.PointSpacing)
}

type namedValue struct {
	name  string
	value float64
}

func (p Parameters) fields() []namedValue {
	return []namedValue{
		{"inner radius", p.InnerRadius},
		{"wall thickness", p.WallThickness},
		{"height", p.Height},
		{"coffee height", p.CoffeeHeight},
		{"point spacing", p.PointSpacing},
		{"air margin", p.AirMargin},
		{"coffee temperature", p.CoffeeTemperature},
		{"cup temperature", p.CupTemperature},
		{"air temperature", p.AirTemperature},
	}
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be > %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		case "ltefield":
			msgs = append(msgs, fmt.Sprintf("%s must not exceed %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}
