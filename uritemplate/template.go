// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package uritemplate implements the narrowed RFC 6570 dialect used by
// hypermedia links: simple {name} path variables plus a single trailing
// {?name,name2*} query block, where a "*" suffix marks the variable for
// exploded (repeated key) rendering.
package uritemplate

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	variableRegexp   = regexp.MustCompile(`\{([^{}]*)\}`)
	queryBlockRegexp = regexp.MustCompile(`\{\?([^{}]*)\}$`)
)

// QueryVariable is a single entry of a template's trailing query block.
type QueryVariable struct {
	Name     string
	Exploded bool
}

// Template is the parsed, immutable form of a template string.
//
// A Template holds no mutable state after [Parse] returns, so a single
// value may be expanded concurrently from many goroutines. Parsing is
// the expensive half of expansion; parse a given template string once
// and reuse the Template, or use a [Cache].
type Template struct {
	raw          string
	pathTemplate string
	pathVars     []string
	queryVars    []QueryVariable
}

// SyntaxError reports a variable name which is padded with whitespace.
type SyntaxError struct {
	Name string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("malformed template variable name: %q", e.Name)
}

// Parse parses a template string into a [Template].
//
// Path variables are every {name} occurrence whose content does not
// begin with "?". The query block is recognized only as the final
// component of the template; a {?...} group anywhere else is left
// verbatim. Duplicate path variable names are kept per occurrence.
//
// The empty string parses to the empty template, for which
// [Template.IsTemplated] reports false.
func Parse(template string) (*Template, error) {
	t := &Template{
		raw:          template,
		pathTemplate: template,
	}
	if template == "" {
		return t, nil
	}

	if loc := queryBlockRegexp.FindStringSubmatchIndex(template); loc != nil {
		t.pathTemplate = template[:loc[0]]

		for _, entry := range strings.Split(template[loc[2]:loc[3]], ",") {
			name, exploded := strings.CutSuffix(entry, "*")
			if strings.TrimSpace(name) != name {
				return nil, SyntaxError{Name: name}
			}

			t.queryVars = append(t.queryVars, QueryVariable{
				Name:     name,
				Exploded: exploded,
			})
		}
	}

	for _, match := range variableRegexp.FindAllStringSubmatch(t.pathTemplate, -1) {
		name := match[1]
		if strings.HasPrefix(name, "?") {
			continue
		}
		if strings.TrimSpace(name) != name {
			return nil, SyntaxError{Name: name}
		}

		t.pathVars = append(t.pathVars, name)
	}
	return t, nil
}

// String returns the unmodified template string given to [Parse].
func (t *Template) String() string {
	return t.raw
}

// PathTemplate returns the template with the trailing query block,
// if any, removed.
func (t *Template) PathTemplate() string {
	return t.pathTemplate
}

// PathVariables returns the path variable names in left-to-right order.
func (t *Template) PathVariables() []string {
	return slices.Clone(t.pathVars)
}

// QueryVariables returns the query variables in declaration order.
func (t *Template) QueryVariables() []QueryVariable {
	return slices.Clone(t.queryVars)
}

// IsTemplated reports whether the template declares any variables at all.
func (t *Template) IsTemplated() bool {
	return len(t.pathVars)+len(t.queryVars) > 0
}

// HasOnlyQueryVariables reports whether the template declares query
// variables but no path variables. Such templates expand successfully
// with zero values since every query variable is optional.
func (t *Template) HasOnlyQueryVariables() bool {
	return len(t.pathVars) == 0 && len(t.queryVars) > 0
}
