// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package uritemplate

import "sync"

// Cache memoizes parsed [Template]s by their raw template string.
// It is safe for concurrent use, so a single Cache can back every
// link builder of an API.
type Cache struct {
	mu        sync.Mutex
	templates map[string]*Template
}

// NewCache initializes a [Cache].
func NewCache() *Cache {
	return &Cache{
		templates: make(map[string]*Template),
	}
}

// Parse returns the cached [Template] for the given template string,
// parsing and caching it on first use. Parse failures are not cached.
func (c *Cache) Parse(template string) (*Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.templates[template]
	if ok {
		return t, nil
	}

	t, err := Parse(template)
	if err != nil {
		return nil, err
	}

	c.templates[template] = t
	return t, nil
}
