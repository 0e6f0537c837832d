package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/mockforge/internal/generator"
	"github.com/Lumos-Labs-HQ/mockforge/internal/schema"
	"github.com/Lumos-Labs-HQ/mockforge/internal/sink"
	"github.com/spf13/viper"
)

const (
	FileName          = "mockforge.config.json"
	EnvPrefix         = "MOCKFORGE"
	DefaultSchemaPath = "example-schema.json"
	DefaultPort       = 3000
)

type Config struct {
	SchemaPath string     `json:"schema_path" mapstructure:"schema_path"`
	Count      int        `json:"count" mapstructure:"count"`
	Endpoints  []string   `json:"endpoints,omitempty" mapstructure:"endpoints"`
	Seed       int64      `json:"seed,omitempty" mapstructure:"seed"`
	Generation Generation `json:"generation" mapstructure:"generation"`
	Sink       Sink       `json:"sink" mapstructure:"sink"`
	Server     Server     `json:"server" mapstructure:"server"`
}

type Generation struct {
	MaxUniqueAttempts int          `json:"max_unique_attempts" mapstructure:"max_unique_attempts"`
	MaxRegexAttempts  int          `json:"max_regex_attempts" mapstructure:"max_regex_attempts"`
	StringLength      int          `json:"string_length" mapstructure:"string_length"`
	ArrayLength       int          `json:"array_length" mapstructure:"array_length"`
	FloatPrecision    int          `json:"float_precision" mapstructure:"float_precision"`
	Integer           IntegerRange `json:"integer" mapstructure:"integer"`
	Float             FloatRange   `json:"float" mapstructure:"float"`
	Date              DateRange    `json:"date" mapstructure:"date"`
}

type IntegerRange struct {
	Min int64 `json:"min" mapstructure:"min"`
	Max int64 `json:"max" mapstructure:"max"`
}

type FloatRange struct {
	Min float64 `json:"min" mapstructure:"min"`
	Max float64 `json:"max" mapstructure:"max"`
}

// DateRange bounds are YYYY-MM-DD strings.
type DateRange struct {
	Min string `json:"min" mapstructure:"min"`
	Max string `json:"max" mapstructure:"max"`
}

type Sink struct {
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

type Server struct {
	Port int `json:"port" mapstructure:"port"`
}

func DefaultConfig() *Config {
	return &Config{
		SchemaPath: DefaultSchemaPath,
		Count:      schema.DefaultCount,
		Generation: Generation{
			MaxUniqueAttempts: generator.DefaultMaxUniqueAttempts,
			MaxRegexAttempts:  generator.DefaultMaxRegexAttempts,
			StringLength:      generator.DefaultStringLength,
			ArrayLength:       generator.DefaultArrayLength,
			FloatPrecision:    generator.DefaultFloatPrecision,
			Integer:           IntegerRange{Min: generator.DefaultIntegerMin, Max: generator.DefaultIntegerMax},
			Float:             FloatRange{Min: generator.DefaultFloatMin, Max: generator.DefaultFloatMax},
			Date:              DateRange{Min: generator.DefaultDateMin, Max: generator.DefaultDateMax},
		},
		Sink:   Sink{Timeout: sink.DefaultTimeout},
		Server: Server{Port: DefaultPort},
	}
}

// SetDefaults registers every key with its default so that config files and
// MOCKFORGE_* environment variables can override any of them.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("schema_path", d.SchemaPath)
	v.SetDefault("count", d.Count)
	v.SetDefault("endpoints", []string{})
	v.SetDefault("seed", d.Seed)
	v.SetDefault("generation.max_unique_attempts", d.Generation.MaxUniqueAttempts)
	v.SetDefault("generation.max_regex_attempts", d.Generation.MaxRegexAttempts)
	v.SetDefault("generation.string_length", d.Generation.StringLength)
	v.SetDefault("generation.array_length", d.Generation.ArrayLength)
	v.SetDefault("generation.float_precision", d.Generation.FloatPrecision)
	v.SetDefault("generation.integer.min", d.Generation.Integer.Min)
	v.SetDefault("generation.integer.max", d.Generation.Integer.Max)
	v.SetDefault("generation.float.min", d.Generation.Float.Min)
	v.SetDefault("generation.float.max", d.Generation.Float.Max)
	v.SetDefault("generation.date.min", d.Generation.Date.Min)
	v.SetDefault("generation.date.max", d.Generation.Date.Max)
	v.SetDefault("sink.timeout", d.Sink.Timeout)
	v.SetDefault("server.port", d.Server.Port)
}

// BindEnv makes MOCKFORGE_GENERATION_INTEGER_MAX and friends override
// their dotted keys.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	d := DefaultConfig()
	if cfg.SchemaPath == "" {
		cfg.SchemaPath = d.SchemaPath
	}
	if !v.IsSet("count") {
		cfg.Count = d.Count
	}
	if cfg.Generation.MaxUniqueAttempts == 0 {
		cfg.Generation.MaxUniqueAttempts = d.Generation.MaxUniqueAttempts
	}
	if cfg.Generation.MaxRegexAttempts == 0 {
		cfg.Generation.MaxRegexAttempts = d.Generation.MaxRegexAttempts
	}
	if cfg.Generation.StringLength == 0 {
		cfg.Generation.StringLength = d.Generation.StringLength
	}
	if !v.IsSet("generation.array_length") {
		cfg.Generation.ArrayLength = d.Generation.ArrayLength
	}
	if !v.IsSet("generation.float_precision") {
		cfg.Generation.FloatPrecision = d.Generation.FloatPrecision
	}
	if !v.IsSet("generation.integer.min") && !v.IsSet("generation.integer.max") {
		cfg.Generation.Integer = d.Generation.Integer
	}
	if !v.IsSet("generation.float.min") && !v.IsSet("generation.float.max") {
		cfg.Generation.Float = d.Generation.Float
	}
	if cfg.Generation.Date.Min == "" {
		cfg.Generation.Date.Min = d.Generation.Date.Min
	}
	if cfg.Generation.Date.Max == "" {
		cfg.Generation.Date.Max = d.Generation.Date.Max
	}
	if cfg.Sink.Timeout == 0 {
		cfg.Sink.Timeout = d.Sink.Timeout
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = d.Server.Port
	}

	endpoints, err := sink.ParseEndpoints(cfg.Endpoints...)
	if err != nil {
		return nil, fmt.Errorf("failed to load endpoints: %w", err)
	}
	cfg.Endpoints = endpoints

	return &cfg, nil
}

func (c *Config) Validate() error {
	g := c.Generation
	if c.SchemaPath == "" {
		return fmt.Errorf("schema_path cannot be empty")
	}
	if g.MaxUniqueAttempts < 1 {
		return fmt.Errorf("generation.max_unique_attempts must be at least 1, got %d", g.MaxUniqueAttempts)
	}
	if g.MaxRegexAttempts < 1 {
		return fmt.Errorf("generation.max_regex_attempts must be at least 1, got %d", g.MaxRegexAttempts)
	}
	if g.StringLength < 1 {
		return fmt.Errorf("generation.string_length must be at least 1, got %d", g.StringLength)
	}
	if g.ArrayLength < 0 {
		return fmt.Errorf("generation.array_length cannot be negative, got %d", g.ArrayLength)
	}
	if g.Integer.Min > g.Integer.Max {
		return fmt.Errorf("generation.integer.min %d is greater than max %d", g.Integer.Min, g.Integer.Max)
	}
	if g.Float.Min > g.Float.Max {
		return fmt.Errorf("generation.float.min %g is greater than max %g", g.Float.Min, g.Float.Max)
	}
	min, max, err := c.dateRange()
	if err != nil {
		return err
	}
	if min.After(max) {
		return fmt.Errorf("generation.date.min %s is greater than max %s", g.Date.Min, g.Date.Max)
	}
	if c.Sink.Timeout < 0 {
		return fmt.Errorf("sink.timeout cannot be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

// GeneratorOptions converts the generation settings. The configuration must
// have passed Validate.
func (c *Config) GeneratorOptions() (generator.Options, error) {
	min, max, err := c.dateRange()
	if err != nil {
		return generator.Options{}, err
	}

	g := c.Generation
	return generator.Options{
		Seed:              c.Seed,
		IntegerMin:        g.Integer.Min,
		IntegerMax:        g.Integer.Max,
		FloatMin:          g.Float.Min,
		FloatMax:          g.Float.Max,
		DateMin:           min,
		DateMax:           max,
		StringLength:      g.StringLength,
		ArrayLength:       g.ArrayLength,
		FloatPrecision:    g.FloatPrecision,
		MaxUniqueAttempts: g.MaxUniqueAttempts,
		MaxRegexAttempts:  g.MaxRegexAttempts,
	}, nil
}

func (c *Config) dateRange() (time.Time, time.Time, error) {
	min, err := time.Parse(schema.DateLayout, c.Generation.Date.Min)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("generation.date.min must be YYYY-MM-DD: %w", err)
	}
	max, err := time.Parse(schema.DateLayout, c.Generation.Date.Max)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("generation.date.max must be YYYY-MM-DD: %w", err)
	}
	return min, max, nil
}
