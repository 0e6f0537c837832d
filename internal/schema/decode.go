package schema

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// rawSpec mirrors the wire form of a field specification before it is
// narrowed to one of the typed Spec implementations.
type rawSpec struct {
	Type   *string         `json:"type"`
	Min    json.RawMessage `json:"min"`
	Max    json.RawMessage `json:"max"`
	Regex  string          `json:"regex"`
	Enum   []any           `json:"enum"`
	Length json.RawMessage `json:"length"`
	Items  json.RawMessage `json:"items"`
	Schema json.RawMessage `json:"schema"`
	Unique bool            `json:"unique"`
}

var knownTypes = map[string]bool{
	TypeString: true, TypeInteger: true, TypeFloat: true, TypeBoolean: true,
	TypeUUID: true, TypeName: true, TypeEmail: true, TypePhone: true,
	TypeDate: true, TypeImageURL: true, TypeFileURL: true,
	TypeArray: true, TypeObject: true,
}

// Decode parses a JSON schema document: a mapping of field name to field
// specification. Field order follows the document.
func Decode(data []byte) (Schema, error) {
	return decodeSchema(data, Path{})
}

func decodeSchema(data []byte, path Path) (Schema, error) {
	keys, err := objectKeys(data)
	if err != nil {
		return nil, &SchemaError{Path: path.String(), Reason: err.Error()}
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, &SchemaError{Path: path.String(), Reason: fmt.Sprintf("malformed schema: %v", err)}
	}

	s := make(Schema, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, name := range keys {
		fieldPath := path.Field(name)
		if seen[name] {
			return nil, &SchemaError{Path: fieldPath.String(), Reason: "duplicate field"}
		}
		seen[name] = true

		spec, err := decodeSpec(values[name], fieldPath)
		if err != nil {
			return nil, err
		}
		s = append(s, Field{Name: name, Spec: spec})
	}
	return s, nil
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("malformed schema: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("schema must be an object mapping field names to specifications")
	}

	var keys []string
	depth := 0
	expectKey := true
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("malformed schema: %v", err)
		}

		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				if depth == 0 {
					return keys, nil
				}
				depth--
				if depth == 0 {
					expectKey = true
				}
			}
			continue
		}
		if depth > 0 {
			continue
		}

		if expectKey {
			key, _ := tok.(string)
			keys = append(keys, key)
			expectKey = false
		} else {
			expectKey = true
		}
	}
}

func decodeSpec(raw json.RawMessage, path Path) (Spec, error) {
	if absent(raw) {
		return nil, &SchemaError{Path: path.String(), Reason: "specification is missing"}
	}
	if trimmed := bytes.TrimSpace(raw); trimmed[0] != '{' {
		return nil, &SchemaError{Path: path.String(), Reason: "specification must be an object"}
	}

	var r rawSpec
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&r); err != nil {
		return nil, &SchemaError{Path: path.String(), Reason: fmt.Sprintf("malformed specification: %v", err)}
	}

	if r.Type == nil || *r.Type == "" {
		return nil, &SchemaError{Path: path.String(), Reason: `missing "type"`}
	}
	typ := *r.Type
	if !knownTypes[typ] {
		return nil, &UnsupportedTypeError{Path: path.String(), Type: typ}
	}

	if r.Enum != nil && len(r.Enum) == 0 {
		return nil, &SchemaError{Path: path.String(), Reason: "enum must list at least one value"}
	}
	common := Common{Unique: r.Unique, Enum: r.Enum}

	switch typ {
	case TypeString:
		if r.Regex != "" {
			if _, err := regexp.Compile(r.Regex); err != nil {
				return nil, &SchemaError{Path: path.String(), Reason: fmt.Sprintf("invalid regex %q: %v", r.Regex, err)}
			}
		}
		return &StringSpec{Common: common, Regex: r.Regex}, nil

	case TypeInteger:
		min, err := parseIntBound(r.Min, "min", path)
		if err != nil {
			return nil, err
		}
		max, err := parseIntBound(r.Max, "max", path)
		if err != nil {
			return nil, err
		}
		if min != nil && max != nil && *min > *max {
			return nil, &InvalidRangeError{
				Path: path.String(),
				Type: typ,
				Min:  strconv.FormatInt(*min, 10),
				Max:  strconv.FormatInt(*max, 10),
			}
		}
		return &IntegerSpec{Common: common, Min: min, Max: max}, nil

	case TypeFloat:
		min, err := parseFloatBound(r.Min, "min", path)
		if err != nil {
			return nil, err
		}
		max, err := parseFloatBound(r.Max, "max", path)
		if err != nil {
			return nil, err
		}
		if min != nil && max != nil && *min > *max {
			return nil, &InvalidRangeError{
				Path: path.String(),
				Type: typ,
				Min:  strconv.FormatFloat(*min, 'g', -1, 64),
				Max:  strconv.FormatFloat(*max, 'g', -1, 64),
			}
		}
		return &FloatSpec{Common: common, Min: min, Max: max}, nil

	case TypeDate:
		min, err := parseDateBound(r.Min, "min", path)
		if err != nil {
			return nil, err
		}
		max, err := parseDateBound(r.Max, "max", path)
		if err != nil {
			return nil, err
		}
		if min != nil && max != nil && min.After(*max) {
			return nil, &InvalidRangeError{
				Path: path.String(),
				Type: typ,
				Min:  min.Format(DateLayout),
				Max:  max.Format(DateLayout),
			}
		}
		return &DateSpec{Common: common, Min: min, Max: max}, nil

	case TypeBoolean:
		return &BooleanSpec{Common: common}, nil
	case TypeUUID:
		return &UUIDSpec{Common: common}, nil
	case TypeName:
		return &NameSpec{Common: common}, nil
	case TypeEmail:
		return &EmailSpec{Common: common}, nil
	case TypePhone:
		return &PhoneSpec{Common: common}, nil
	case TypeImageURL:
		return &ImageURLSpec{Common: common}, nil
	case TypeFileURL:
		return &FileURLSpec{Common: common}, nil

	case TypeArray:
		if common.Unique {
			return nil, &SchemaError{Path: path.String(), Reason: `"unique" applies to scalar values; set it on "items" instead`}
		}
		if absent(r.Items) {
			return nil, &SchemaError{Path: path.String(), Reason: `array specification requires "items"`}
		}
		length, err := parseLength(r.Length, path)
		if err != nil {
			return nil, err
		}
		items, err := decodeSpec(r.Items, path.Elem())
		if err != nil {
			return nil, err
		}
		return &ArraySpec{Common: common, Length: length, Items: items}, nil

	case TypeObject:
		if common.Unique {
			return nil, &SchemaError{Path: path.String(), Reason: `"unique" applies to scalar values; set it on nested fields instead`}
		}
		if absent(r.Schema) {
			return nil, &SchemaError{Path: path.String(), Reason: `object specification requires "schema"`}
		}
		fields, err := decodeSchema(r.Schema, path)
		if err != nil {
			return nil, err
		}
		return &ObjectSpec{Common: common, Fields: fields}, nil
	}

	return nil, &UnsupportedTypeError{Path: path.String(), Type: typ}
}

func absent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

func parseIntBound(raw json.RawMessage, name string, path Path) (*int64, error) {
	if absent(raw) {
		return nil, nil
	}
	text := string(bytes.TrimSpace(raw))
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return &n, nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, &SchemaError{Path: path.String(), Reason: fmt.Sprintf("%s must be an integer, got %s", name, text)}
	}
	n := int64(f)
	return &n, nil
}

func parseFloatBound(raw json.RawMessage, name string, path Path) (*float64, error) {
	if absent(raw) {
		return nil, nil
	}
	text := string(bytes.TrimSpace(raw))
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &SchemaError{Path: path.String(), Reason: fmt.Sprintf("%s must be a number, got %s", name, text)}
	}
	return &f, nil
}

func parseDateBound(raw json.RawMessage, name string, path Path) (*time.Time, error) {
	if absent(raw) {
		return nil, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, &SchemaError{Path: path.String(), Reason: fmt.Sprintf("%s must be a date string (YYYY-MM-DD), got %s", name, bytes.TrimSpace(raw))}
	}
	t, err := time.Parse(DateLayout, text)
	if err != nil {
		return nil, &SchemaError{Path: path.String(), Reason: fmt.Sprintf("%s must be a date (YYYY-MM-DD), got %q", name, text)}
	}
	return &t, nil
}

func parseLength(raw json.RawMessage, path Path) (*int, error) {
	n, err := parseIntBound(raw, "length", path)
	if err != nil || n == nil {
		return nil, err
	}
	if *n < 0 || *n > math.MaxInt32 {
		return nil, &SchemaError{Path: path.String(), Reason: fmt.Sprintf("length must be between 0 and %d, got %d", math.MaxInt32, *n)}
	}
	length := int(*n)
	return &length, nil
}
