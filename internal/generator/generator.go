// Package generator turns schema specifications into concrete values.
//
// A Generator walks a schema recursively: scalar kinds are delegated to
// Values, object and array kinds recurse, and fields marked unique are
// checked against a Tracker that lives for one batch. Unique array items
// share the array's tracker key, so they are unique across the whole batch
// and not only within one record's array.
package generator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Lumos-Labs-HQ/mockforge/internal/record"
	"github.com/Lumos-Labs-HQ/mockforge/internal/schema"
	"github.com/fatih/color"
)

// batchPrealloc caps the initial capacity of a batch; larger batches grow
// by append.
const batchPrealloc = 1024

type Generator struct {
	values *Values
	opts   Options
}

func New(opts Options) *Generator {
	opts = opts.normalize()
	return &Generator{
		values: NewValues(opts),
		opts:   opts,
	}
}

// Batch generates count records against s, sharing one Tracker across the
// whole batch. Any error aborts the batch and no records are returned.
// A non-positive count yields an empty batch.
func (g *Generator) Batch(ctx context.Context, s schema.Schema, count int) ([]*record.Record, error) {
	if count <= 0 {
		return []*record.Record{}, nil
	}

	if g.opts.Verbose {
		color.Cyan("🌱 Generating %d record(s) from %d field(s)...", count, len(s))
	}

	tracker := NewTracker()
	batch := make([]*record.Record, 0, min(count, batchPrealloc))
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := g.Record(s, tracker)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		batch = append(batch, rec)
	}

	if g.opts.Verbose {
		color.Green("✅ Generated %d record(s)", len(batch))
	}
	return batch, nil
}

// Record generates one record; the root schema is an implicit object.
func (g *Generator) Record(s schema.Schema, tracker *Tracker) (*record.Record, error) {
	return g.object(s, schema.Path{}, tracker)
}

// Field generates the value of one specification at path.
func (g *Generator) Field(spec schema.Spec, path schema.Path, tracker *Tracker) (any, error) {
	switch sp := spec.(type) {
	case *schema.ObjectSpec:
		return g.object(sp.Fields, path, tracker)
	case *schema.ArraySpec:
		return g.array(sp, path, tracker)
	case *schema.StringSpec, *schema.IntegerSpec, *schema.FloatSpec, *schema.BooleanSpec,
		*schema.UUIDSpec, *schema.NameSpec, *schema.EmailSpec, *schema.PhoneSpec,
		*schema.DateSpec, *schema.ImageURLSpec, *schema.FileURLSpec:
		return g.leaf(spec, path, tracker)
	case nil:
		return nil, &schema.SchemaError{Path: path.String(), Reason: "specification is missing"}
	default:
		return nil, &schema.UnsupportedTypeError{Path: path.String(), Type: spec.Type()}
	}
}

func (g *Generator) object(fields schema.Schema, path schema.Path, tracker *Tracker) (*record.Record, error) {
	rec := record.New()
	for _, f := range fields {
		v, err := g.Field(f.Spec, path.Field(f.Name), tracker)
		if err != nil {
			return nil, err
		}
		rec.Set(f.Name, v)
	}
	return rec, nil
}

func (g *Generator) array(sp *schema.ArraySpec, path schema.Path, tracker *Tracker) ([]any, error) {
	if sp.Items == nil {
		return nil, &schema.SchemaError{Path: path.String(), Reason: `array specification requires "items"`}
	}

	length := g.opts.ArrayLength
	if sp.Length != nil {
		length = *sp.Length
	}

	out := make([]any, 0, length)
	for i := 0; i < length; i++ {
		v, err := g.Field(sp.Items, path.Index(i), tracker)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// leaf generates a scalar, retrying until the value is new for the field's
// uniqueness key when the specification is unique.
func (g *Generator) leaf(spec schema.Spec, path schema.Path, tracker *Tracker) (any, error) {
	if !spec.Base().Unique {
		return g.scalar(spec, path)
	}

	key := path.Key()
	size, known := g.domainSize(spec)
	attempts := 0
	for attempts < g.opts.MaxUniqueAttempts {
		if known && int64(tracker.Count(key)) >= size {
			break
		}
		attempts++

		v, err := g.scalar(spec, path)
		if err != nil {
			return nil, err
		}
		added, err := tracker.Add(key, v)
		if err != nil {
			return nil, &schema.SchemaError{Path: path.String(), Reason: err.Error()}
		}
		if added {
			return v, nil
		}
	}

	if !known {
		size = -1
	}
	return nil, &UniquenessExhaustedError{
		Path:       path.String(),
		Key:        key,
		DomainSize: size,
		Emitted:    tracker.Count(key),
		Attempts:   attempts,
	}
}

func (g *Generator) scalar(spec schema.Spec, path schema.Path) (any, error) {
	if enum := spec.Base().Enum; len(enum) > 0 {
		return g.values.Enum(enum), nil
	}

	switch sp := spec.(type) {
	case *schema.StringSpec:
		return g.values.String(sp, path)
	case *schema.IntegerSpec:
		min, max := g.integerBounds(sp)
		return g.values.Integer(min, max), nil
	case *schema.FloatSpec:
		min, max := g.floatBounds(sp)
		return g.values.Float(min, max), nil
	case *schema.BooleanSpec:
		return g.values.Boolean(), nil
	case *schema.UUIDSpec:
		return g.values.UUID(), nil
	case *schema.NameSpec:
		return g.values.Name(), nil
	case *schema.EmailSpec:
		return g.values.Email(), nil
	case *schema.PhoneSpec:
		return g.values.Phone(), nil
	case *schema.DateSpec:
		min, max, err := g.dateBounds(sp, path)
		if err != nil {
			return nil, err
		}
		return g.values.Date(min, max), nil
	case *schema.ImageURLSpec:
		return g.values.ImageURL(), nil
	case *schema.FileURLSpec:
		return g.values.FileURL(), nil
	}
	return nil, &schema.UnsupportedTypeError{Path: path.String(), Type: spec.Type()}
}

// integerBounds resolves omitted bounds from the defaults. A single bound
// outside the default range moves the other one so the default span is kept.
func (g *Generator) integerBounds(sp *schema.IntegerSpec) (int64, int64) {
	min, max := g.opts.IntegerMin, g.opts.IntegerMax
	span := max - min
	switch {
	case sp.Min != nil && sp.Max != nil:
		return *sp.Min, *sp.Max
	case sp.Min != nil:
		min = *sp.Min
		if min > max {
			max = min + span
			if max < min {
				max = math.MaxInt64
			}
		}
	case sp.Max != nil:
		max = *sp.Max
		if max < min {
			min = max - span
			if min > max {
				min = math.MinInt64
			}
		}
	}
	return min, max
}

func (g *Generator) floatBounds(sp *schema.FloatSpec) (float64, float64) {
	min, max := g.opts.FloatMin, g.opts.FloatMax
	span := max - min
	switch {
	case sp.Min != nil && sp.Max != nil:
		return *sp.Min, *sp.Max
	case sp.Min != nil:
		min = *sp.Min
		if min > max {
			max = min + span
		}
	case sp.Max != nil:
		max = *sp.Max
		if max < min {
			min = max - span
		}
	}
	return min, max
}

func (g *Generator) dateBounds(sp *schema.DateSpec, path schema.Path) (time.Time, time.Time, error) {
	min, max := g.opts.DateMin, g.opts.DateMax
	days := int((max.Unix() - min.Unix()) / 86400)
	switch {
	case sp.Min != nil && sp.Max != nil:
		min, max = *sp.Min, *sp.Max
	case sp.Min != nil:
		min = *sp.Min
		if min.After(max) {
			max = min.AddDate(0, 0, days)
		}
	case sp.Max != nil:
		max = *sp.Max
		if max.Before(min) {
			min = max.AddDate(0, 0, -days)
		}
	}
	if min.After(max) {
		return time.Time{}, time.Time{}, &schema.InvalidRangeError{
			Path: path.String(),
			Type: schema.TypeDate,
			Min:  min.Format(schema.DateLayout),
			Max:  max.Format(schema.DateLayout),
		}
	}
	return min, max, nil
}

// domainSize reports how many distinct values spec can produce, when that
// number is known.
func (g *Generator) domainSize(spec schema.Spec) (int64, bool) {
	if enum := spec.Base().Enum; len(enum) > 0 {
		distinct := make(map[string]struct{}, len(enum))
		for _, m := range enum {
			canon, err := canonical(m)
			if err != nil {
				return 0, false
			}
			distinct[canon] = struct{}{}
		}
		return int64(len(distinct)), true
	}

	switch sp := spec.(type) {
	case *schema.BooleanSpec:
		return 2, true
	case *schema.IntegerSpec:
		min, max := g.integerBounds(sp)
		size := uint64(max-min) + 1
		if size == 0 || size > math.MaxInt64 {
			return 0, false
		}
		return int64(size), true
	case *schema.FloatSpec:
		min, max := g.floatBounds(sp)
		if min == max {
			return 1, true
		}
		if lo, hi, ok := floatGrid(min, max, g.opts.FloatPrecision); ok {
			return hi - lo + 1, true
		}
	case *schema.DateSpec:
		min, max := g.opts.DateMin, g.opts.DateMax
		if sp.Min != nil && sp.Max != nil {
			min, max = *sp.Min, *sp.Max
		} else if sp.Min != nil || sp.Max != nil {
			return 0, false
		}
		if !min.After(max) {
			return (max.Unix()-min.Unix())/86400 + 1, true
		}
	}
	return 0, false
}
