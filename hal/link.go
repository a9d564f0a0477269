// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package hal models Hypertext Application Language (HAL) documents:
// links keyed by relation, resources carrying a _links object and
// collections embedding their items under _embedded.
package hal

import (
	"bytes"
	"encoding/json"
)

// LinkRelation identifies how a linked href relates to the resource
// carrying the link.
type LinkRelation string

// Well known link relations.
const (
	RelSelf       LinkRelation = "self"
	RelFirst      LinkRelation = "first"
	RelPrev       LinkRelation = "prev"
	RelNext       LinkRelation = "next"
	RelLast       LinkRelation = "last"
	RelItem       LinkRelation = "item"
	RelCollection LinkRelation = "collection"
)

// Link is a single HAL link object.
type Link struct {
	Rel         LinkRelation `json:"-"`
	Href        string       `json:"href"`
	Templated   bool         `json:"templated,omitempty"`
	Type        string       `json:"type,omitempty"`
	Title       string       `json:"title,omitempty"`
	Name        string       `json:"name,omitempty"`
	Deprecation string       `json:"deprecation,omitempty"`
}

// LinkOption sets a value on a [Link].
type LinkOption func(*Link)

// Templated marks the link href as a URI template which the client is
// expected to expand before following.
func Templated() LinkOption {
	return func(l *Link) {
		l.Templated = true
	}
}

// Title sets the human readable title of a link.
func Title(title string) LinkOption {
	return func(l *Link) {
		l.Title = title
	}
}

// Name sets the secondary key used to distinguish links sharing a relation.
func Name(name string) LinkOption {
	return func(l *Link) {
		l.Name = name
	}
}

// NewLink initializes a [Link].
func NewLink(rel LinkRelation, href string, opts ...LinkOption) Link {
	l := Link{
		Rel:  rel,
		Href: href,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// Links is an ordered collection of [Link]s. Order is preserved when
// marshaling so derived link sets (for example pagination links) render
// deterministically.
type Links []Link

// Href returns the href of the first link carrying the given relation.
func (ls Links) Href(rel LinkRelation) (string, bool) {
	for _, l := range ls {
		if l.Rel == rel {
			return l.Href, true
		}
	}
	return "", false
}

// MarshalJSON renders the HAL _links object: links are grouped by
// relation in first-seen order, a lone link renders as an object and
// repeated relations render as an array.
func (ls Links) MarshalJSON() ([]byte, error) {
	var rels []LinkRelation
	grouped := make(map[LinkRelation][]Link, len(ls))
	for _, l := range ls {
		if _, ok := grouped[l.Rel]; !ok {
			rels = append(rels, l.Rel)
		}
		grouped[l.Rel] = append(grouped[l.Rel], l)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rel := range rels {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(string(rel))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var b []byte
		if links := grouped[rel]; len(links) == 1 {
			b, err = json.Marshal(linkObject(links[0]))
		} else {
			objs := make([]linkObject, len(links))
			for j, l := range links {
				objs[j] = linkObject(l)
			}
			b, err = json.Marshal(objs)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// linkObject avoids recursing into any custom marshaling of Link
// while reusing its field tags.
type linkObject Link
