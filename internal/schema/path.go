package schema

import (
	"strconv"
	"strings"
)

type segment struct {
	name    string
	index   int
	isIndex bool
}

// Path is the structural position of a field inside a schema. The zero value
// is the root. Paths are immutable: Field and Index return extended copies.
type Path struct {
	segs []segment
}

func (p Path) Field(name string) Path {
	return p.extend(segment{name: name})
}

func (p Path) Index(i int) Path {
	return p.extend(segment{index: i, isIndex: true})
}

// Elem addresses the element specification of an array without a concrete
// index. It renders as "[]" in both forms.
func (p Path) Elem() Path {
	return p.extend(segment{index: -1, isIndex: true})
}

func (p Path) extend(s segment) Path {
	segs := make([]segment, len(p.segs), len(p.segs)+1)
	copy(segs, p.segs)
	return Path{segs: append(segs, s)}
}

// String renders the path for error messages, e.g. "orders[2].items[0].sku".
func (p Path) String() string {
	return p.render(false)
}

// Key renders the path with array indices collapsed to "[]", so every element
// of an array field shares one uniqueness key, e.g. "orders[].items[].sku".
func (p Path) Key() string {
	return p.render(true)
}

func (p Path) render(collapse bool) string {
	var b strings.Builder
	for i, s := range p.segs {
		if s.isIndex {
			b.WriteByte('[')
			if !collapse && s.index >= 0 {
				b.WriteString(strconv.Itoa(s.index))
			}
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.name)
	}
	return b.String()
}
