package generator

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Tracker records the values already emitted per uniqueness key during one
// batch. It is created by Batch and passed down every recursive call; it is
// not safe for concurrent use.
type Tracker struct {
	seen map[string]map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]map[string]struct{})}
}

// Add records v under key and reports whether it was not present before.
func (t *Tracker) Add(key string, v any) (bool, error) {
	canon, err := canonical(v)
	if err != nil {
		return false, err
	}
	set, ok := t.seen[key]
	if !ok {
		set = make(map[string]struct{})
		t.seen[key] = set
	}
	if _, dup := set[canon]; dup {
		return false, nil
	}
	set[canon] = struct{}{}
	return true, nil
}

// Count returns the number of distinct values recorded under key.
func (t *Tracker) Count(key string) int {
	return len(t.seen[key])
}

// canonical encodes v as JSON so values of any shape, including enum
// members that are objects or lists, can be compared.
func canonical(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode value for uniqueness check: %w", err)
	}
	return string(b), nil
}
