// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

// Header creates a parameter validator for an HTTP header.
// The validator extracts and validates headers from incoming requests.
//
// Example:
//
//	rest.Operation(
//	    http.MethodGet,
//	    rest.BasePath("/api/data"),
//	    handler,
//	    rest.Header("X-Request-ID", rest.Required()),
//	)
func Header(name string, opts ...ParameterOption) OperationOption {
	return param(name, openapi3.ParameterInHeader, opts...)
}

// HeaderValue returns the request values of a header parameter
// registered on the current operation.
func HeaderValue(ctx context.Context, name string) []string {
	vs, _ := ctx.Value(paramCtxKey(name)).([]string)
	return vs
}

// QueryParam creates a parameter validator for a URL query parameter.
// The validator extracts and validates query parameters from incoming requests.
//
// Example:
//
//	rest.Operation(
//	    http.MethodGet,
//	    rest.BasePath("/search"),
//	    handler,
//	    rest.QueryParam("q", rest.Required()),
//	    rest.QueryParam("page", rest.Regex(regexp.MustCompile(`^\d+$`))),
//	)
func QueryParam(name string, opts ...ParameterOption) OperationOption {
	return param(name, openapi3.ParameterInQuery, opts...)
}

// QueryParamValue returns the request values of a query parameter
// registered on the current operation.
func QueryParamValue(ctx context.Context, name string) []string {
	vs, _ := ctx.Value(paramCtxKey(name)).([]string)
	return vs
}

// PathParamValue returns the request value of a path parameter declared
// on the operation's [Path].
func PathParamValue(ctx context.Context, name string) string {
	vs, _ := ctx.Value(paramCtxKey(name)).([]string)
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

type paramCtxKey string

func extractValues(name string, in openapi3.ParameterIn) func(*http.Request) []string {
	switch in {
	case openapi3.ParameterInHeader:
		return func(r *http.Request) []string {
			return r.Header.Values(name)
		}
	case openapi3.ParameterInPath:
		return func(r *http.Request) []string {
			v := chi.URLParam(r, name)
			if v == "" {
				return nil
			}
			return []string{v}
		}
	case openapi3.ParameterInQuery:
		return func(r *http.Request) []string {
			return r.URL.Query()[name]
		}
	default:
		panic("unsupported parameter type: " + in)
	}
}

func param(name string, in openapi3.ParameterIn, opts ...ParameterOption) OperationOption {
	return func(oo *OperationOptions) {
		extract := extractValues(name, in)
		ctxKey := paramCtxKey(name)

		oo.transforms = append(oo.transforms, func(r *http.Request) (*http.Request, error) {
			ctx := context.WithValue(r.Context(), ctxKey, extract(r))
			return r.WithContext(ctx), nil
		})

		po := &ParameterOptions{
			def: &openapi3.Parameter{
				Name: name,
				In:   in,
			},
			extract: extract,
		}
		for _, opt := range opts {
			opt(po)
		}

		oo.parameters = append(oo.parameters, openapi3.ParameterOrRef{
			Parameter: po.def,
		})
		oo.transforms = append(oo.transforms, po.validators...)
	}
}

// ParameterOptions holds configuration for a parameter being added to
// an operation: the OpenAPI parameter definition plus the validators
// registered against it.
type ParameterOptions struct {
	def        *openapi3.Parameter
	extract    func(*http.Request) []string
	validators []func(*http.Request) (*http.Request, error)
}

// ParameterOption configures a parameter created by [Header],
// [QueryParam] or [Path.Param]. Common implementations are [Required]
// and [Regex].
type ParameterOption func(*ParameterOptions)

// MissingRequiredParameterError is returned when a required parameter
// is missing from an HTTP request. This error is wrapped in a
// [BadRequestError] and results in a 400 Bad Request response.
type MissingRequiredParameterError struct {
	Parameter string
	In        string
}

func (e MissingRequiredParameterError) Error() string {
	return fmt.Sprintf("missing required request parameter in %s: %s", e.In, e.Parameter)
}

// Required marks a parameter as required.
// If the parameter is not present in the request, the operation returns
// a 400 Bad Request with a [MissingRequiredParameterError].
func Required() ParameterOption {
	return func(po *ParameterOptions) {
		po.def.Required = ptr.Ref(true)

		name := po.def.Name
		in := string(po.def.In)
		extract := po.extract

		po.validators = append(po.validators, func(r *http.Request) (*http.Request, error) {
			vs := extract(r)
			if len(vs) == 0 || vs[0] == "" {
				return nil, BadRequestError{
					Cause: MissingRequiredParameterError{
						Parameter: name,
						In:        in,
					},
				}
			}
			return r, nil
		})
	}
}

// InvalidParameterValueError is returned when a parameter's value
// doesn't match the expected format or constraints. This error is
// wrapped in a [BadRequestError] and results in a 400 Bad Request
// response.
type InvalidParameterValueError struct {
	Parameter string
	In        string
}

func (e InvalidParameterValueError) Error() string {
	return fmt.Sprintf("invalid parameter value in %s: %s", e.In, e.Parameter)
}

// Regex validates that a parameter value matches the provided regular
// expression. If no value matches, the operation returns a 400 Bad
// Request with an [InvalidParameterValueError].
//
// Example:
//
//	rest.QueryParam("page", rest.Regex(regexp.MustCompile(`^\d+$`)))
func Regex(re *regexp.Regexp) ParameterOption {
	return func(po *ParameterOptions) {
		if po.def.Schema == nil {
			po.def.Schema = &openapi3.SchemaOrRef{
				Schema: &openapi3.Schema{},
			}
		}

		name := po.def.Name
		in := string(po.def.In)
		extract := po.extract

		po.validators = append(po.validators, func(r *http.Request) (*http.Request, error) {
			if slices.ContainsFunc(extract(r), re.MatchString) {
				return r, nil
			}

			return nil, BadRequestError{
				Cause: InvalidParameterValueError{
					Parameter: name,
					In:        in,
				},
			}
		})
	}
}
