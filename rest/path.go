// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"path"
	"strings"
)

// PathElement represents a component of a URL path.
// It can be either a static path segment or a dynamic path parameter.
type PathElement interface {
	pathElement() string
}

// PathSegment is a static component of a URL path.
type PathSegment string

func (s PathSegment) pathElement() string {
	return string(s)
}

type pathParam struct {
	name string
	opts []ParameterOption
}

// PathParam creates a dynamic path parameter element.
// Path parameters are extracted from the URL and can be validated using [ParameterOption].
//
// Example:
//
//	rest.PathParam("userId", rest.Required(), rest.Regex(regexp.MustCompile(`^\d+$`)))
func PathParam(name string, opts ...ParameterOption) PathElement {
	return pathParam{
		name: name,
		opts: opts,
	}
}

func (p pathParam) pathElement() string {
	return "{" + p.name + "}"
}

type queryVar struct {
	name     string
	exploded bool
	opts     []ParameterOption
}

// Path represents a URL path composed of static segments, dynamic
// parameters and declared query variables. The same Path yields both
// the routing pattern (via [Path.String]) and the URI template
// advertised in links (via [Path.Template]).
type Path struct {
	elements []PathElement
	query    []queryVar
}

// BasePath creates a new path starting with the given segment.
//
// Example:
//
//	path := rest.BasePath("/api/v1")
//	// Results in: /api/v1
func BasePath(s string) Path {
	return Path{
		elements: []PathElement{PathSegment(s)},
	}
}

// Segment appends a static path segment to the path.
//
// Example:
//
//	path := rest.BasePath("/api").Segment("users").Segment("profile")
//	// Results in: /api/users/profile
func (p Path) Segment(s string) Path {
	p.elements = append(p.elements, PathSegment(s))
	return p
}

// Param appends a dynamic path parameter to the path.
// The parameter value will be extracted from the URL at request time.
//
// Example:
//
//	path := rest.BasePath("/users").Param("userId").Segment("posts").Param("postId")
//	// Results in: /users/{userId}/posts/{postId}
func (p Path) Param(name string, opts ...ParameterOption) Path {
	p.elements = append(p.elements, PathParam(name, opts...))
	return p
}

// Query declares an optional query variable on the path. The variable
// is registered as an OpenAPI query parameter and appears in the
// path's query block template.
//
// Example:
//
//	path := rest.BasePath("/books").Query("page").Query("size")
//	// Template results in: /books{?page,size}
func (p Path) Query(name string, opts ...ParameterOption) Path {
	p.query = append(p.query, queryVar{
		name: name,
		opts: opts,
	})
	return p
}

// QueryExploded declares an optional query variable whose collection
// values render as repeated name=value pairs when links are expanded.
//
// Example:
//
//	path := rest.BasePath("/items").QueryExploded("tag")
//	// Template results in: /items{?tag*}
func (p Path) QueryExploded(name string, opts ...ParameterOption) Path {
	p.query = append(p.query, queryVar{
		name:     name,
		exploded: true,
		opts:     opts,
	})
	return p
}

// String converts the path to its routing pattern. Static segments are
// joined with slashes and parameters are formatted as {name}; declared
// query variables are not part of the routing pattern.
func (p Path) String() string {
	ss := make([]string, len(p.elements))
	for i, el := range p.elements {
		ss[i] = el.pathElement()
	}
	return path.Join(ss...)
}

// Template converts the path to a URI template, appending the declared
// query variables as a trailing query block.
//
// Example:
//
//	rest.BasePath("/users").Param("id").Query("limit").QueryExploded("tag").Template()
//	// Results in: /users/{id}{?limit,tag*}
func (p Path) Template() string {
	if len(p.query) == 0 {
		return p.String()
	}

	names := make([]string, len(p.query))
	for i, qv := range p.query {
		names[i] = qv.name
		if qv.exploded {
			names[i] += "*"
		}
	}
	return p.String() + "{?" + strings.Join(names, ",") + "}"
}
