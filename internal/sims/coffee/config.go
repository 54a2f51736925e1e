package coffee

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"cupheat/pkg/geometry"
	"cupheat/pkg/material"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when run settings fail validation or an
// override cannot be applied.
var ErrInvalidConfig = errors.New("invalid coffee config")

var validate = validator.New()

// Materials lists the three material classes in scenario files.
type Materials struct {
	Coffee material.Material `yaml:"coffee"`
	Cup    material.Material `yaml:"cup"`
	Air    material.Material `yaml:"air"`
}

// Table returns the materials in enumeration order.
func (m Materials) Table() material.Table {
	return material.Table{m.Coffee, m.Cup, m.Air}
}

// Config controls one cooling run.
type Config struct {
	Geometry  geometry.Parameters `yaml:"geometry"`
	Materials Materials           `yaml:"materials"`

	// TimeStep is the solver dt in seconds.
	TimeStep float64 `yaml:"time_step" validate:"gt=0"`
	// Duration is the simulated time after which the session stops
	// running. Zero means unbounded.
	Duration float64 `yaml:"duration" validate:"gte=0"`
	// Workers caps the solver goroutines; zero uses GOMAXPROCS.
	Workers         int     `yaml:"workers" validate:"gte=0"`
	SmoothingFactor float64 `yaml:"smoothing_factor" validate:"gt=0"`
	// SampleEvery is the step interval between history samples; zero
	// disables recording.
	SampleEvery int `yaml:"sample_every" validate:"gte=0"`
}

// DefaultConfig returns the reference mug cooling for one minute.
func DefaultConfig() Config {
	return Config{
		Geometry: geometry.DefaultParameters(),
		Materials: Materials{
			Coffee: material.CoffeePreset(),
			Cup:    material.CeramicPreset(),
			Air:    material.AirPreset(),
		},
		TimeStep:        0.1,
		Duration:        60,
		SmoothingFactor: 1,
		SampleEvery:     10,
	}
}

// Table returns the configured material table.
func (c Config) Table() material.Table { return c.Materials.Table() }

// Validate checks geometry, materials and run settings.
func (c Config) Validate() error {
	if err := c.Geometry.Validate(); err != nil {
		return err
	}
	if err := c.Table().Validate(); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %s=%s, got %v", ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

type setter func(c *Config, v string) error

func floatField(get func(*Config) *float64) setter {
	return func(c *Config, v string) error {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*get(c) = parsed
		return nil
	}
}

func intField(get func(*Config) *int) setter {
	return func(c *Config, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*get(c) = parsed
		return nil
	}
}

var setters = map[string]setter{
	"inner_radius":     floatField(func(c *Config) *float64 { return &c.Geometry.InnerRadius }),
	"wall_thickness":   floatField(func(c *Config) *float64 { return &c.Geometry.WallThickness }),
	"height":           floatField(func(c *Config) *float64 { return &c.Geometry.Height }),
	"coffee_height":    floatField(func(c *Config) *float64 { return &c.Geometry.CoffeeHeight }),
	"point_spacing":    floatField(func(c *Config) *float64 { return &c.Geometry.PointSpacing }),
	"air_margin":       floatField(func(c *Config) *float64 { return &c.Geometry.AirMargin }),
	"coffee_temp":      floatField(func(c *Config) *float64 { return &c.Geometry.CoffeeTemperature }),
	"cup_temp":         floatField(func(c *Config) *float64 { return &c.Geometry.CupTemperature }),
	"air_temp":         floatField(func(c *Config) *float64 { return &c.Geometry.AirTemperature }),
	"coffee_k":         floatField(func(c *Config) *float64 { return &c.Materials.Coffee.Conductivity }),
	"coffee_rho":       floatField(func(c *Config) *float64 { return &c.Materials.Coffee.Density }),
	"coffee_c":         floatField(func(c *Config) *float64 { return &c.Materials.Coffee.SpecificHeat }),
	"cup_k":            floatField(func(c *Config) *float64 { return &c.Materials.Cup.Conductivity }),
	"cup_rho":          floatField(func(c *Config) *float64 { return &c.Materials.Cup.Density }),
	"cup_c":            floatField(func(c *Config) *float64 { return &c.Materials.Cup.SpecificHeat }),
	"air_k":            floatField(func(c *Config) *float64 { return &c.Materials.Air.Conductivity }),
	"air_rho":          floatField(func(c *Config) *float64 { return &c.Materials.Air.Density }),
	"air_c":            floatField(func(c *Config) *float64 { return &c.Materials.Air.SpecificHeat }),
	"dt":               floatField(func(c *Config) *float64 { return &c.TimeStep }),
	"duration":         floatField(func(c *Config) *float64 { return &c.Duration }),
	"smoothing_factor": floatField(func(c *Config) *float64 { return &c.SmoothingFactor }),
	"workers":          intField(func(c *Config) *int { return &c.Workers }),
	"sample_every":     intField(func(c *Config) *int { return &c.SampleEvery }),
}

// Keys returns the override keys accepted by Apply, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply sets the fields named by overrides (flag-style key/value pairs).
// Unknown keys and unparsable values are errors; the config is left
// unchanged in that case.
func (c *Config) Apply(overrides map[string]string) error {
	next := *c
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		set, ok := setters[strings.ToLower(k)]
		if !ok {
			return fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, k)
		}
		if err := set(&next, strings.TrimSpace(overrides[k])); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, k, overrides[k], err)
		}
	}
	*c = next
	return nil
}

// FromMap returns DefaultConfig with overrides applied and validated.
func FromMap(overrides map[string]string) (Config, error) {
	c := DefaultConfig()
	if err := c.Apply(overrides); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ReadConfig decodes a YAML scenario over DefaultConfig, so a file only
// needs the fields it changes.
func ReadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: decode yaml: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads a YAML scenario file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	c, err := ReadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WriteConfig encodes c as YAML.
func WriteConfig(w io.Writer, c Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
