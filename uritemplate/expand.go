// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package uritemplate

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// MissingParameterError reports a path variable with no supplied value.
type MissingParameterError struct {
	Name string
}

func (e MissingParameterError) Error() string {
	return fmt.Sprintf("no value supplied for mandatory path variable: %q", e.Name)
}

// TooManyParametersError reports a positional expansion which supplied
// more values than the template declares variables.
type TooManyParametersError struct {
	Declared int
	Supplied int
}

func (e TooManyParametersError) Error() string {
	return fmt.Sprintf("template declares %d variable(s) but %d value(s) were supplied", e.Declared, e.Supplied)
}

// UnknownParameterError reports a named expansion value whose key is
// neither a path nor a query variable of the template.
type UnknownParameterError struct {
	Name string
}

func (e UnknownParameterError) Error() string {
	return fmt.Sprintf("template declares no variable named: %q", e.Name)
}

// UnsupportedExpansionError reports a positional expansion of a template
// which declares exploded query variables. Exploded variables carry
// per-value semantics for repeated keys and therefore require named
// expansion via [Template.ExpandNamed].
type UnsupportedExpansionError struct {
	Name string
}

func (e UnsupportedExpansionError) Error() string {
	return fmt.Sprintf("exploded query variable %q requires named expansion", e.Name)
}

// CollectionNotAllowedError reports a collection value supplied for a
// variable which only accepts scalars.
type CollectionNotAllowedError struct {
	Name string
}

func (e CollectionNotAllowedError) Error() string {
	return fmt.Sprintf("variable %q does not accept collection values", e.Name)
}

// ExpandOptions are configurable parameters of a named expansion.
type ExpandOptions struct {
	compositeCollections bool
}

// ExpandOption sets a value on [ExpandOptions].
type ExpandOption func(*ExpandOptions)

// CompositeCollections permits comma-joined composite rendering of
// collection values in non-exploded positions. This covers two cases:
//
//   - a collection supplied for a non-exploded query variable renders as
//     a single name=v1,v2 pair instead of failing
//   - a collection element inside an exploded collection renders as one
//     comma-joined value, producing pairs like sort=name,asc
//
// Elements are percent-encoded individually before joining so the comma
// separator itself stays literal. Nil elements are filtered out.
func CompositeCollections() ExpandOption {
	return func(eo *ExpandOptions) {
		eo.compositeCollections = true
	}
}

// Expand parses template and expands it with positional values.
// See [Template.Expand].
func Expand(template string, values ...any) (string, error) {
	t, err := Parse(template)
	if err != nil {
		return "", err
	}
	return t.Expand(values...)
}

// ExpandNamed parses template and expands it with named values.
// See [Template.ExpandNamed].
func ExpandNamed(template string, values map[string]any, opts ...ExpandOption) (string, error) {
	t, err := Parse(template)
	if err != nil {
		return "", err
	}
	return t.ExpandNamed(values, opts...)
}

// Expand substitutes values into the template left-to-right: the first
// N values fill the N path variables in declared order, any remaining
// values fill query variables in declared order.
//
// With zero values an untemplated input is returned unchanged and a
// query-only template returns its path portion; a template with path
// variables fails with [MissingParameterError]. Templates declaring
// exploded query variables cannot be expanded positionally and fail
// with [UnsupportedExpansionError]. Collection values are never valid
// positionally and fail with [CollectionNotAllowedError].
func (t *Template) Expand(values ...any) (string, error) {
	if len(values) == 0 {
		return t.expandEmpty()
	}

	for _, qv := range t.queryVars {
		if qv.Exploded {
			return "", UnsupportedExpansionError{Name: qv.Name}
		}
	}

	declared := len(t.pathVars) + len(t.queryVars)
	if len(values) > declared {
		return "", TooManyParametersError{
			Declared: declared,
			Supplied: len(values),
		}
	}
	if len(values) < len(t.pathVars) {
		return "", MissingParameterError{Name: t.pathVars[len(values)]}
	}

	pathValues := make([]string, len(t.pathVars))
	for i, v := range values[:len(t.pathVars)] {
		if isCollection(v) {
			return "", CollectionNotAllowedError{Name: t.pathVars[i]}
		}
		pathValues[i] = stringify(v)
	}

	var pairs []string
	for i, v := range values[len(t.pathVars):] {
		qv := t.queryVars[i]
		if isCollection(v) {
			return "", CollectionNotAllowedError{Name: qv.Name}
		}
		if v == nil {
			continue
		}

		pairs = append(pairs, qv.Name+"="+escape(stringify(v)))
	}

	return joinQuery(t.substitutePath(pathValues), pairs), nil
}

// ExpandNamed substitutes the mapped values into the template. Every
// path variable must be present in values; query variables are optional
// and render in declared order, never map order. Keys which name no
// declared variable fail with [UnknownParameterError].
//
// A scalar query value renders as one name=value pair. A collection
// value for an exploded variable renders one pair per element, each
// percent-encoded independently. Collections in non-exploded positions
// fail with [CollectionNotAllowedError] unless [CompositeCollections]
// is given.
func (t *Template) ExpandNamed(values map[string]any, opts ...ExpandOption) (string, error) {
	eo := &ExpandOptions{}
	for _, opt := range opts {
		opt(eo)
	}

	if len(values) == 0 {
		return t.expandEmpty()
	}

	if err := t.validateNames(values); err != nil {
		return "", err
	}

	pathValues := make([]string, len(t.pathVars))
	for i, name := range t.pathVars {
		v, ok := values[name]
		if !ok {
			return "", MissingParameterError{Name: name}
		}
		if isCollection(v) {
			return "", CollectionNotAllowedError{Name: name}
		}

		pathValues[i] = stringify(v)
	}

	var pairs []string
	for _, qv := range t.queryVars {
		v, ok := values[qv.Name]
		if !ok || v == nil {
			continue
		}

		param, err := newQueryParameter(qv, v, eo.compositeCollections)
		if err != nil {
			return "", err
		}

		pairs = append(pairs, param.pairs()...)
	}

	return joinQuery(t.substitutePath(pathValues), pairs), nil
}

func (t *Template) expandEmpty() (string, error) {
	if !t.IsTemplated() {
		return t.raw, nil
	}
	if t.HasOnlyQueryVariables() {
		return t.pathTemplate, nil
	}
	return "", MissingParameterError{Name: t.pathVars[0]}
}

func (t *Template) validateNames(values map[string]any) error {
	declared := make(map[string]struct{}, len(t.pathVars)+len(t.queryVars))
	for _, name := range t.pathVars {
		declared[name] = struct{}{}
	}
	for _, qv := range t.queryVars {
		declared[qv.Name] = struct{}{}
	}

	var unknown []string
	for name := range values {
		if _, ok := declared[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	// map iteration order is random so report the smallest name
	// to keep the failure deterministic
	sort.Strings(unknown)
	return UnknownParameterError{Name: unknown[0]}
}

// substitutePath fills the path variable occurrences in declared order.
// Values must already be converted to their string forms; path
// substitution is RFC 6570 simple expansion so no escaping is applied.
func (t *Template) substitutePath(values []string) string {
	i := 0
	return variableRegexp.ReplaceAllStringFunc(t.pathTemplate, func(match string) string {
		if strings.HasPrefix(match, "{?") || i >= len(values) {
			return match
		}

		v := values[i]
		i++
		return v
	})
}

// queryParameter is the transient rendering form of one query variable.
// Values are percent-encoded before construction completes and the
// parameter is discarded once its pairs have been rendered.
type queryParameter struct {
	name       string
	values     []string
	collection bool
	exploded   bool
}

func newQueryParameter(qv QueryVariable, v any, composite bool) (queryParameter, error) {
	p := queryParameter{
		name:     qv.Name,
		exploded: qv.Exploded,
	}

	if !isCollection(v) {
		p.values = []string{escape(stringify(v))}
		return p, nil
	}

	p.collection = true
	elems := elements(v)

	if !qv.Exploded {
		if !composite {
			return p, CollectionNotAllowedError{Name: qv.Name}
		}

		for _, el := range elems {
			p.values = append(p.values, escape(stringify(el)))
		}
		return p, nil
	}

	for _, el := range elems {
		if !isCollection(el) {
			p.values = append(p.values, escape(stringify(el)))
			continue
		}
		if !composite {
			return p, CollectionNotAllowedError{Name: qv.Name}
		}

		parts := make([]string, 0, len(elements(el)))
		for _, part := range elements(el) {
			parts = append(parts, escape(stringify(part)))
		}
		p.values = append(p.values, strings.Join(parts, ","))
	}
	return p, nil
}

// pairs renders the parameter into zero or more name=value pairs.
// Exploded collections produce one pair per element while composite
// collections comma-join their elements into a single pair.
func (p queryParameter) pairs() []string {
	if len(p.values) == 0 {
		return nil
	}

	if p.collection && !p.exploded {
		return []string{p.name + "=" + strings.Join(p.values, ",")}
	}
	if p.collection {
		pairs := make([]string, 0, len(p.values))
		for _, v := range p.values {
			pairs = append(pairs, p.name+"="+v)
		}
		return pairs
	}
	return []string{p.name + "=" + p.values[0]}
}

func joinQuery(path string, pairs []string) string {
	if len(pairs) == 0 {
		return path
	}
	return path + "?" + strings.Join(pairs, "&")
}

func isCollection(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

// elements flattens a slice or array value into its non-nil elements.
func elements(v any) []any {
	rv := reflect.ValueOf(v)

	elems := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i).Interface()
		if el == nil {
			continue
		}
		elems = append(elems, el)
	}
	return elems
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func escape(s string) string {
	return url.QueryEscape(s)
}
