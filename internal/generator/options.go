package generator

import (
	"time"

	"github.com/Lumos-Labs-HQ/mockforge/internal/schema"
)

// Defaults applied when a specification omits a bound or a length.
const (
	DefaultIntegerMin int64 = 0
	DefaultIntegerMax int64 = 100000

	DefaultFloatMin = 0.0
	DefaultFloatMax = 100.0

	DefaultDateMin = "2000-01-01"
	DefaultDateMax = "2030-12-31"

	DefaultStringLength   = 10
	DefaultArrayLength    = 3
	DefaultFloatPrecision = 2

	DefaultMaxUniqueAttempts = 500
	DefaultMaxRegexAttempts  = 50
)

// Options tune generation. The zero value behaves like DefaultOptions; a
// partially filled Options keeps its explicit zeros, so a FloatPrecision of
// 0 rounds to whole numbers.
type Options struct {
	// Seed makes generation reproducible. Zero picks a random seed.
	Seed int64

	IntegerMin int64
	IntegerMax int64
	FloatMin   float64
	FloatMax   float64
	DateMin    time.Time
	DateMax    time.Time

	StringLength int
	ArrayLength  int
	// FloatPrecision is the number of decimals floats are rounded to.
	// Negative disables rounding.
	FloatPrecision int

	MaxUniqueAttempts int
	MaxRegexAttempts  int

	// Verbose enables progress lines on the color output.
	Verbose bool
}

func DefaultOptions() Options {
	dateMin, _ := time.Parse(schema.DateLayout, DefaultDateMin)
	dateMax, _ := time.Parse(schema.DateLayout, DefaultDateMax)

	return Options{
		IntegerMin:        DefaultIntegerMin,
		IntegerMax:        DefaultIntegerMax,
		FloatMin:          DefaultFloatMin,
		FloatMax:          DefaultFloatMax,
		DateMin:           dateMin,
		DateMax:           dateMax,
		StringLength:      DefaultStringLength,
		ArrayLength:       DefaultArrayLength,
		FloatPrecision:    DefaultFloatPrecision,
		MaxUniqueAttempts: DefaultMaxUniqueAttempts,
		MaxRegexAttempts:  DefaultMaxRegexAttempts,
	}
}

// normalize replaces unusable values with defaults.
func (o Options) normalize() Options {
	d := DefaultOptions()
	if o.unconfigured() {
		d.Seed, d.Verbose = o.Seed, o.Verbose
		return d
	}
	if o.IntegerMin > o.IntegerMax {
		o.IntegerMin, o.IntegerMax = d.IntegerMin, d.IntegerMax
	}
	if o.FloatMin > o.FloatMax {
		o.FloatMin, o.FloatMax = d.FloatMin, d.FloatMax
	}
	if (o.DateMin.IsZero() && o.DateMax.IsZero()) || o.DateMin.After(o.DateMax) {
		o.DateMin, o.DateMax = d.DateMin, d.DateMax
	}
	if o.StringLength <= 0 {
		o.StringLength = d.StringLength
	}
	if o.ArrayLength < 0 {
		o.ArrayLength = d.ArrayLength
	}
	if o.MaxUniqueAttempts <= 0 {
		o.MaxUniqueAttempts = d.MaxUniqueAttempts
	}
	if o.MaxRegexAttempts <= 0 {
		o.MaxRegexAttempts = d.MaxRegexAttempts
	}
	return o
}

// unconfigured reports whether every tuning field is left at its zero value.
// Seed and Verbose do not count.
func (o Options) unconfigured() bool {
	o.Seed, o.Verbose = 0, false
	return o == Options{}
}
