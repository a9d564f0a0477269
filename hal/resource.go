// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package hal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NotAnObjectError reports an entity which does not marshal to a JSON
// object and therefore cannot carry a _links member.
type NotAnObjectError struct {
	JSON string
}

func (e NotAnObjectError) Error() string {
	return fmt.Sprintf("hal resources must marshal to JSON objects: %s", e.JSON)
}

// Resource wraps a domain entity with hypermedia links. It marshals as
// the entity's own fields followed by a _links object.
type Resource[T any] struct {
	Entity T
	Links  Links
}

// NewResource initializes a [Resource].
func NewResource[T any](entity T, links ...Link) *Resource[T] {
	return &Resource[T]{
		Entity: entity,
		Links:  links,
	}
}

// AddLinks appends links to the resource.
func (r *Resource[T]) AddLinks(links ...Link) {
	r.Links = append(r.Links, links...)
}

// MarshalJSON implements the [json.Marshaler] interface.
func (r Resource[T]) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(r.Entity)
	if err != nil {
		return nil, err
	}
	if len(r.Links) == 0 {
		return b, nil
	}

	return spliceMember(b, "_links", r.Links)
}

// Collection embeds a list of items under a named _embedded member,
// alongside links and optional page metadata.
type Collection[T any] struct {
	Name  string
	Items []T
	Links Links
	Page  *PageMetadata
}

// NewCollection initializes a [Collection]. The name becomes the
// _embedded key the items are listed under.
func NewCollection[T any](name string, items []T, links ...Link) *Collection[T] {
	return &Collection[T]{
		Name:  name,
		Items: items,
		Links: links,
	}
}

// AddLinks appends links to the collection.
func (c *Collection[T]) AddLinks(links ...Link) {
	c.Links = append(c.Links, links...)
}

// MarshalJSON implements the [json.Marshaler] interface.
func (c Collection[T]) MarshalJSON() ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []T{}
	}

	doc := struct {
		Embedded map[string][]T `json:"_embedded"`
		Links    Links          `json:"_links,omitempty"`
		Page     *PageMetadata  `json:"page,omitempty"`
	}{
		Embedded: map[string][]T{c.Name: items},
		Links:    c.Links,
		Page:     c.Page,
	}
	return json.Marshal(doc)
}

// spliceMember inserts a named member into an already marshaled JSON
// object, preserving the entity's own field order.
func spliceMember(obj []byte, name string, v any) ([]byte, error) {
	trimmed := bytes.TrimSpace(obj)
	if len(trimmed) < 2 || trimmed[0] != '{' || trimmed[len(trimmed)-1] != '}' {
		return nil, NotAnObjectError{JSON: string(trimmed)}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(trimmed[:len(trimmed)-1])
	if !emptyObject(trimmed) {
		buf.WriteByte(',')
	}
	buf.WriteString(`"` + name + `":`)
	buf.Write(b)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func emptyObject(obj []byte) bool {
	return len(bytes.TrimSpace(obj[1:len(obj)-1])) == 0
}
