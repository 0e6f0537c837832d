package schema

import "time"

// Type tokens accepted in the "type" attribute of a field specification.
const (
	TypeString   = "string"
	TypeInteger  = "integer"
	TypeFloat    = "float"
	TypeBoolean  = "boolean"
	TypeUUID     = "uuid"
	TypeName     = "name"
	TypeEmail    = "email"
	TypePhone    = "phone"
	TypeDate     = "date"
	TypeImageURL = "image_url"
	TypeFileURL  = "file_url"
	TypeArray    = "array"
	TypeObject   = "object"
)

// DateLayout is the wire format of date bounds and generated dates.
const DateLayout = "2006-01-02"

// Spec is a field specification. The set of implementations is closed: one
// pointer type per supported kind, each carrying its own constraints.
type Spec interface {
	Type() string
	Base() Common
	isSpec()
}

// Common holds the attributes shared by every kind. A non-empty Enum takes
// precedence over every other constraint of the kind.
type Common struct {
	Unique bool
	Enum   []any
}

func (c Common) Base() Common { return c }

func (Common) isSpec() {}

type StringSpec struct {
	Common
	Regex string
}

type IntegerSpec struct {
	Common
	Min *int64
	Max *int64
}

type FloatSpec struct {
	Common
	Min *float64
	Max *float64
}

type BooleanSpec struct{ Common }

type UUIDSpec struct{ Common }

type NameSpec struct{ Common }

type EmailSpec struct{ Common }

type PhoneSpec struct{ Common }

type DateSpec struct {
	Common
	Min *time.Time
	Max *time.Time
}

type ImageURLSpec struct{ Common }

type FileURLSpec struct{ Common }

// ArraySpec repeats Items exactly Length times. A nil Length means the
// generator's configured default length.
type ArraySpec struct {
	Common
	Length *int
	Items  Spec
}

type ObjectSpec struct {
	Common
	Fields Schema
}

func (*StringSpec) Type() string   { return TypeString }
func (*IntegerSpec) Type() string  { return TypeInteger }
func (*FloatSpec) Type() string    { return TypeFloat }
func (*BooleanSpec) Type() string  { return TypeBoolean }
func (*UUIDSpec) Type() string     { return TypeUUID }
func (*NameSpec) Type() string     { return TypeName }
func (*EmailSpec) Type() string    { return TypeEmail }
func (*PhoneSpec) Type() string    { return TypePhone }
func (*DateSpec) Type() string     { return TypeDate }
func (*ImageURLSpec) Type() string { return TypeImageURL }
func (*FileURLSpec) Type() string  { return TypeFileURL }
func (*ArraySpec) Type() string    { return TypeArray }
func (*ObjectSpec) Type() string   { return TypeObject }

// Field is one named entry of a Schema.
type Field struct {
	Name string
	Spec Spec
}

// Schema maps field names to specifications, in document order.
type Schema []Field

func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}
