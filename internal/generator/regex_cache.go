package generator

import (
	"regexp"
	"sync"
)

// Full-match patterns compiled once per distinct regex. The serve command
// shares this cache across requests.
type patternCache struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

var fullMatchCache = &patternCache{
	patterns: make(map[string]*regexp.Regexp),
}

// fullMatch returns a regexp that matches only strings the whole of which
// match pattern.
func fullMatch(pattern string) (*regexp.Regexp, error) {
	fullMatchCache.mu.RLock()
	if re, ok := fullMatchCache.patterns[pattern]; ok {
		fullMatchCache.mu.RUnlock()
		return re, nil
	}
	fullMatchCache.mu.RUnlock()

	fullMatchCache.mu.Lock()
	defer fullMatchCache.mu.Unlock()

	if re, ok := fullMatchCache.patterns[pattern]; ok {
		return re, nil
	}

	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, err
	}
	fullMatchCache.patterns[pattern] = re
	return re, nil
}
