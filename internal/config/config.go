package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/latnet/internal/generator"
	"github.com/san-kum/latnet/internal/pointset"
)

const (
	DefaultOutputDir = ".latnet/runs"
	DefaultCodec     = "zstd"
	DefaultPrecision = 17
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

type Config struct {
	Name       string               `yaml:"name,omitempty"`
	Definition generator.Definition `yaml:",inline"`
	// Level truncates the point set to base^level points when set.
	Level     *uint        `yaml:"level,omitempty"`
	MaxPoints uint64       `yaml:"max_points" validate:"gte=1"`
	Output    OutputConfig `yaml:"output"`
	Log       LogConfig    `yaml:"log"`
}

type OutputConfig struct {
	Dir       string `yaml:"dir" validate:"required"`
	Codec     string `yaml:"codec" validate:"oneof=none zstd lz4"`
	Precision int    `yaml:"precision" validate:"gte=1,lte=17"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func DefaultConfig() *Config {
	return &Config{
		MaxPoints: pointset.DefaultMaxPoints,
		Output: OutputConfig{
			Dir:       DefaultOutputDir,
			Codec:     DefaultCodec,
			Precision: DefaultPrecision,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Validate checks the settings and the generator definition.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: %q fails %s=%s", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag(), fe.Param())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	if err := c.Definition.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Level != nil && *c.Level > c.Definition.Resolution() {
		return fmt.Errorf("invalid config: level %d above %d: %w", *c.Level, c.Definition.Resolution(), pointset.ErrInvalidLevel)
	}
	return nil
}

// Truncated applies Level to ps, if set.
func (c *Config) Truncated(ps pointset.PointSet) (pointset.PointSet, error) {
	if c.Level == nil {
		return ps, nil
	}
	return ps.Truncate(*c.Level)
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto decodes the file at path over base, so values set in the file
// replace those of base (a preset, typically).
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseOnto(base, data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	return parseOnto(DefaultConfig(), data)
}

func parseOnto(cfg *Config, data []byte) (*Config, error) {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
