package coffee

import (
	"strconv"

	"cupheat/internal/core"
)

var _ core.ParameterProvider = (*Session)(nil)

// Parameters describes the session's settings for the viewer HUD.
func (s *Session) Parameters() core.ParameterSnapshot {
	g := s.cfg.Geometry
	m := s.cfg.Materials
	groups := []core.ParameterGroup{
		{
			Name: "Run",
			Params: []core.Parameter{
				stringParam("run_id", "Run", s.id.String()),
				intParam("points", "Points", s.solver.Len()),
				floatParam("dt", "Time step", s.cfg.TimeStep, "s"),
				floatParam("dt_max", "Stability bound", s.solver.MaxStableStep(), "s"),
				floatParam("duration", "Duration", s.cfg.Duration, "s"),
			},
		},
		{
			Name: "Geometry",
			Params: []core.Parameter{
				floatParam("inner_radius", "Inner radius", g.InnerRadius, "m"),
				floatParam("wall_thickness", "Wall thickness", g.WallThickness, "m"),
				floatParam("height", "Height", g.Height, "m"),
				floatParam("coffee_height", "Coffee height", g.CoffeeHeight, "m"),
				floatParam("point_spacing", "Point spacing", g.PointSpacing, "m"),
				floatParam("air_margin", "Air margin", g.AirMargin, "m"),
			},
		},
		{
			Name: "Initial temperature",
			Params: []core.Parameter{
				floatParam("coffee_temp", "Coffee", g.CoffeeTemperature, "K"),
				floatParam("cup_temp", "Cup", g.CupTemperature, "K"),
				floatParam("air_temp", "Air", g.AirTemperature, "K"),
			},
		},
		{
			Name: "Conductivity",
			Params: []core.Parameter{
				floatParam("coffee_k", "Coffee", m.Coffee.Conductivity, "W/(m·K)"),
				floatParam("cup_k", "Cup", m.Cup.Conductivity, "W/(m·K)"),
				floatParam("air_k", "Air", m.Air.Conductivity, "W/(m·K)"),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64, unit string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'g', 6, 64),
		Unit:  unit,
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
