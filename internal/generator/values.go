package generator

import (
	"fmt"
	"math"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/mockforge/internal/schema"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Values produces one value per call for each primitive kind. All randomness
// comes from a single faker, so a fixed seed reproduces a whole batch.
type Values struct {
	faker *gofakeit.Faker
	rand  *rand.Rand
	opts  Options
}

func NewValues(opts Options) *Values {
	opts = opts.normalize()
	f := gofakeit.New(opts.Seed)
	return &Values{
		faker: f,
		rand:  f.Rand,
		opts:  opts,
	}
}

// String returns a random token, or a string fully matching spec.Regex when
// one is set.
func (v *Values) String(spec *schema.StringSpec, path schema.Path) (string, error) {
	if spec.Regex == "" {
		return v.Token(v.opts.StringLength), nil
	}

	re, err := fullMatch(spec.Regex)
	if err != nil {
		return "", &schema.SchemaError{Path: path.String(), Reason: fmt.Sprintf("invalid regex %q: %v", spec.Regex, err)}
	}
	for i := 0; i < v.opts.MaxRegexAttempts; i++ {
		candidate := v.faker.Regex(spec.Regex)
		if re.MatchString(candidate) {
			return candidate, nil
		}
	}
	return "", &schema.SchemaError{
		Path:   path.String(),
		Reason: fmt.Sprintf("could not produce a value matching regex %q after %d attempts", spec.Regex, v.opts.MaxRegexAttempts),
	}
}

func (v *Values) Token(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenAlphabet[v.rand.Intn(len(tokenAlphabet))]
	}
	return string(b)
}

// Integer returns a uniform value in [min, max]. The caller guarantees
// min <= max.
func (v *Values) Integer(min, max int64) int64 {
	span := uint64(max - min)
	if span == math.MaxUint64 {
		return int64(v.rand.Uint64())
	}
	n := span + 1
	if n <= math.MaxInt64 {
		return min + v.rand.Int63n(int64(n))
	}
	return min + int64(v.rand.Uint64()%n)
}

// Float returns a uniform value in [min, max]. With rounding enabled it
// picks uniformly among the multiples of 10^-precision inside the range.
// A range holding no such multiple yields an unrounded value.
func (v *Values) Float(min, max float64) float64 {
	prec := v.opts.FloatPrecision
	if lo, hi, ok := floatGrid(min, max, prec); ok {
		f := float64(lo+v.rand.Int63n(hi-lo+1)) / math.Pow10(prec)
		return math.Min(math.Max(f, min), max)
	}

	f := min + v.rand.Float64()*(max-min)
	if prec >= 0 {
		p := math.Pow10(prec)
		if r := math.Round(f*p) / p; r >= min && r <= max {
			f = r
		}
	}
	return f
}

// maxFloatGrid keeps grid indices exactly representable as float64.
const maxFloatGrid = 1 << 53

// floatGrid returns the inclusive index range of the multiples of
// 10^-precision inside [min, max]. ok is false when rounding is disabled,
// the range holds no multiple, or the grid is too large to count.
func floatGrid(min, max float64, precision int) (lo, hi int64, ok bool) {
	if precision < 0 {
		return 0, 0, false
	}
	p := math.Pow10(precision)
	l := math.Ceil(snap(min * p))
	h := math.Floor(snap(max * p))
	if math.IsNaN(l) || math.IsNaN(h) || l > h {
		return 0, 0, false
	}
	if math.Abs(l) > maxFloatGrid || math.Abs(h) > maxFloatGrid || h-l >= maxFloatGrid {
		return 0, 0, false
	}
	return int64(l), int64(h), true
}

// snap absorbs representation error, so 0.07*100 counts as 7.
func snap(x float64) float64 {
	if r := math.Round(x); math.Abs(x-r) < 1e-9 {
		return r
	}
	return x
}

func (v *Values) Boolean() bool {
	return v.rand.Intn(2) == 1
}

// UUID returns a version 4 UUID drawn from the faker's source.
func (v *Values) UUID() string {
	id, err := uuid.NewRandomFromReader(v.rand)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (v *Values) Name() string {
	return v.faker.FirstName() + " " + v.faker.LastName()
}

// Email derives the local part from a generated name.
func (v *Values) Email() string {
	first := emailPart(v.faker.FirstName())
	last := emailPart(v.faker.LastName())
	if first == "" {
		first = "user"
	}
	if last == "" {
		return fmt.Sprintf("%s%d@%s", first, v.rand.Intn(1000), v.faker.DomainName())
	}
	return fmt.Sprintf("%s.%s%d@%s", first, last, v.rand.Intn(100), v.faker.DomainName())
}

func emailPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (v *Values) Phone() string {
	return fmt.Sprintf("+1-%03d-%03d-%04d", v.rand.Intn(800)+200, v.rand.Intn(1000), v.rand.Intn(10000))
}

// Date returns a uniform calendar date in [min, max] as YYYY-MM-DD.
func (v *Values) Date(min, max time.Time) string {
	days := (max.Unix() - min.Unix()) / 86400
	offset := v.Integer(0, days)
	return min.AddDate(0, 0, int(offset)).Format(schema.DateLayout)
}

func (v *Values) ImageURL() string {
	width := v.rand.Intn(601) + 200
	height := v.rand.Intn(601) + 200
	return fmt.Sprintf("%s?random=%d", v.faker.ImageURL(width, height), v.rand.Intn(1000000))
}

func (v *Values) FileURL() string {
	folder := url.PathEscape(strings.ToLower(v.faker.Word()))
	return fmt.Sprintf("https://files.example.com/%s/%s.%s", folder, v.Token(12), v.faker.FileExtension())
}

// Enum returns a uniformly chosen member.
func (v *Values) Enum(members []any) any {
	return members[v.rand.Intn(len(members))]
}
