// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/z5labs/halo/hal"
	"github.com/z5labs/halo/uritemplate"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// HalContentType is the media type HAL documents are served with.
const HalContentType = "application/hal+json"

// templates memoizes the parsed form of every Path template handed to
// [LinkFor], since paths are fixed at registration time.
var templates = uritemplate.NewCache()

// LinkFor builds a concrete link by expanding the path's URI template
// with the given named values.
//
// Example:
//
//	link, err := rest.LinkFor(
//	    hal.RelSelf,
//	    rest.BasePath("/books").Param("id"),
//	    map[string]any{"id": book.ID},
//	)
func LinkFor(rel hal.LinkRelation, p Path, values map[string]any, opts ...hal.LinkOption) (hal.Link, error) {
	tmpl, err := templates.Parse(p.Template())
	if err != nil {
		return hal.Link{}, err
	}

	href, err := tmpl.ExpandNamed(values)
	if err != nil {
		return hal.Link{}, err
	}
	return hal.NewLink(rel, href, opts...), nil
}

// TemplatedLink advertises the path's URI template as a link the client
// is expected to expand before following.
func TemplatedLink(rel hal.LinkRelation, p Path, opts ...hal.LinkOption) hal.Link {
	opts = append(opts, hal.Templated())
	return hal.NewLink(rel, p.Template(), opts...)
}

// LinkAssembler attaches hypermedia links to a response entity before
// it is rendered as a HAL document.
type LinkAssembler[T any] interface {
	Links(context.Context, *T) (hal.Links, error)
}

// LinkAssemblerFunc is an adapter to allow the use of ordinary
// functions as [LinkAssembler]s.
type LinkAssemblerFunc[T any] func(context.Context, *T) (hal.Links, error)

// Links implements the [LinkAssembler] interface.
func (f LinkAssemblerFunc[T]) Links(ctx context.Context, entity *T) (hal.Links, error) {
	return f(ctx, entity)
}

// ReturnHalHandler wraps a [Handler] so its response is rendered as a
// HAL resource with links from a [LinkAssembler].
type ReturnHalHandler[Req, Resp any] struct {
	inner     Handler[Req, Resp]
	assembler LinkAssembler[Resp]
}

// ReturnHal initializes a [ReturnHalHandler].
//
// Example:
//
//	h := rest.HandlerFunc[GetBookRequest, Book](getBook)
//	assembler := rest.LinkAssemblerFunc[Book](func(ctx context.Context, b *Book) (hal.Links, error) {
//	    self, err := rest.LinkFor(hal.RelSelf, bookPath, map[string]any{"id": b.ID})
//	    if err != nil {
//	        return nil, err
//	    }
//	    return hal.Links{self}, nil
//	})
//	rest.Operation(http.MethodGet, bookPath, rest.ReturnHal(h, assembler))
func ReturnHal[Req, Resp any](h Handler[Req, Resp], la LinkAssembler[Resp]) *ReturnHalHandler[Req, Resp] {
	return &ReturnHalHandler[Req, Resp]{
		inner:     h,
		assembler: la,
	}
}

// HalResponse renders a single entity as a HAL resource.
type HalResponse[T any] struct {
	resource *hal.Resource[T]
}

// Spec implements the [TypedResponse] interface.
func (*HalResponse[T]) Spec() (int, openapi3.ResponseOrRef, error) {
	var t T
	var reflector jsonschema.Reflector

	jsonSchema, err := reflector.Reflect(t, jsonschema.InlineRefs)
	if err != nil {
		return 0, openapi3.ResponseOrRef{}, err
	}

	var schemaOrRef openapi3.SchemaOrRef
	schemaOrRef.FromJSONSchema(jsonSchema.ToSchemaOrBool())

	spec := &openapi3.Response{
		Content: map[string]openapi3.MediaType{
			HalContentType: {
				Schema: &schemaOrRef,
			},
		},
	}

	return http.StatusOK, openapi3.ResponseOrRef{
		Response: spec,
	}, nil
}

// WriteResponse implements the [ResponseWriter] interface.
func (hr *HalResponse[T]) WriteResponse(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", HalContentType)
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	return enc.Encode(hr.resource)
}

// Handle implements the [Handler] interface.
func (h *ReturnHalHandler[Req, Resp]) Handle(ctx context.Context, req *Req) (*HalResponse[Resp], error) {
	resp, err := h.inner.Handle(ctx, req)
	if err != nil {
		return nil, err
	}

	links, err := h.assembler.Links(ctx, resp)
	if err != nil {
		return nil, err
	}

	return &HalResponse[Resp]{
		resource: &hal.Resource[Resp]{
			Entity: *resp,
			Links:  links,
		},
	}, nil
}

// ProduceHal creates a handler that returns a HAL resource without
// consuming a request body. Use this for GET endpoints returning a
// single entity.
func ProduceHal[T any](p Producer[T], la LinkAssembler[T]) *ReturnHalHandler[EmptyRequest, T] {
	inner := &ProducerHandler[T]{
		p: p,
	}
	return ReturnHal(inner, la)
}

// Page is one page of items handed back by a paged handler, along with
// its position in the overall collection and the sort criteria applied.
type Page[T any] struct {
	Items    []T
	Metadata hal.PageMetadata
	Sort     []hal.SortOrder
}

// ReturnPageHandler wraps a [Handler] producing a [Page] so its
// response is rendered as a HAL collection with derived navigation
// links and page metadata.
type ReturnPageHandler[Req, Resp any] struct {
	name  string
	base  string
	inner Handler[Req, Page[Resp]]
}

// ReturnPage initializes a [ReturnPageHandler]. The name becomes the
// _embedded key the page items are listed under and base is the path
// the collection is served at; any path variables of base must be fixed
// since pagination links reuse it verbatim.
//
// Example:
//
//	h := rest.HandlerFunc[ListBooksRequest, rest.Page[Book]](listBooks)
//	rest.Operation(
//	    http.MethodGet,
//	    rest.BasePath("/books").Query("page").Query("size"),
//	    rest.ReturnPage("books", rest.BasePath("/books"), h),
//	)
func ReturnPage[Req, Resp any](name string, base Path, h Handler[Req, Page[Resp]]) *ReturnPageHandler[Req, Resp] {
	return &ReturnPageHandler[Req, Resp]{
		name:  name,
		base:  base.Template(),
		inner: h,
	}
}

// ProducePage creates a handler that returns a HAL collection page
// without consuming a request body. Use this for GET endpoints listing
// a collection.
func ProducePage[T any](name string, base Path, p Producer[Page[T]]) *ReturnPageHandler[EmptyRequest, T] {
	inner := &ProducerHandler[Page[T]]{
		p: p,
	}
	return ReturnPage(name, base, inner)
}

// HalPageResponse renders one page of a collection as a HAL document.
type HalPageResponse[T any] struct {
	collection *hal.Collection[T]
}

// pageMetadataSchema mirrors the wire format of [hal.PageMetadata] for
// schema reflection.
type pageMetadataSchema struct {
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int64 `json:"totalPages"`
	Number        int   `json:"number"`
}

// Spec implements the [TypedResponse] interface.
func (*HalPageResponse[T]) Spec() (int, openapi3.ResponseOrRef, error) {
	var envelope struct {
		Embedded map[string][]T      `json:"_embedded"`
		Links    map[string]hal.Link `json:"_links,omitempty"`
		Page     pageMetadataSchema  `json:"page"`
	}
	var reflector jsonschema.Reflector

	jsonSchema, err := reflector.Reflect(envelope, jsonschema.InlineRefs)
	if err != nil {
		return 0, openapi3.ResponseOrRef{}, err
	}

	var schemaOrRef openapi3.SchemaOrRef
	schemaOrRef.FromJSONSchema(jsonSchema.ToSchemaOrBool())

	spec := &openapi3.Response{
		Content: map[string]openapi3.MediaType{
			HalContentType: {
				Schema: &schemaOrRef,
			},
		},
	}

	return http.StatusOK, openapi3.ResponseOrRef{
		Response: spec,
	}, nil
}

// WriteResponse implements the [ResponseWriter] interface.
func (hr *HalPageResponse[T]) WriteResponse(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", HalContentType)
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	return enc.Encode(hr.collection)
}

// Handle implements the [Handler] interface.
func (h *ReturnPageHandler[Req, Resp]) Handle(ctx context.Context, req *Req) (*HalPageResponse[Resp], error) {
	page, err := h.inner.Handle(ctx, req)
	if err != nil {
		return nil, err
	}

	links, err := hal.PageLinks(h.base, page.Metadata, page.Sort...)
	if err != nil {
		return nil, err
	}

	collection := hal.NewCollection(h.name, page.Items, links...)
	collection.Page = &page.Metadata

	return &HalPageResponse[Resp]{
		collection: collection,
	}, nil
}
