// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package hal

import (
	"encoding/json"
	"fmt"

	"github.com/z5labs/halo/uritemplate"
)

// PageMetadata describes the position of one page within a larger
// collection.
type PageMetadata struct {
	Number        int
	Size          int
	TotalElements int64
}

// TotalPages returns the number of pages needed to cover TotalElements,
// which is zero when the collection is empty.
func (m PageMetadata) TotalPages() int64 {
	if m.Size <= 0 || m.TotalElements <= 0 {
		return 0
	}
	return (m.TotalElements + int64(m.Size) - 1) / int64(m.Size)
}

// MarshalJSON implements the [json.Marshaler] interface.
func (m PageMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Size          int   `json:"size"`
		TotalElements int64 `json:"totalElements"`
		TotalPages    int64 `json:"totalPages"`
		Number        int   `json:"number"`
	}{
		Size:          m.Size,
		TotalElements: m.TotalElements,
		TotalPages:    m.TotalPages(),
		Number:        m.Number,
	})
}

// Direction is the direction of a [SortOrder].
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortOrder is a single sort criterion applied to a collection.
type SortOrder struct {
	Property  string
	Direction Direction
}

// Asc builds an ascending [SortOrder] for the given property.
func Asc(property string) SortOrder {
	return SortOrder{
		Property:  property,
		Direction: Ascending,
	}
}

// Desc builds a descending [SortOrder] for the given property.
func Desc(property string) SortOrder {
	return SortOrder{
		Property:  property,
		Direction: Descending,
	}
}

// InvalidPageError reports page metadata which cannot describe a page:
// a non-positive size or negative number/total.
type InvalidPageError struct {
	Number        int
	Size          int
	TotalElements int64
}

func (e InvalidPageError) Error() string {
	return fmt.Sprintf(
		"invalid page descriptor: number=%d size=%d totalElements=%d",
		e.Number,
		e.Size,
		e.TotalElements,
	)
}

// PageLinks derives the standard HAL navigation link set for one page
// of a collection served under base:
//
//   - self, always, for the current page
//   - first and prev, only when the current page is not the first
//   - next, only when a following page exists
//   - last, only when the current page is not the last
//
// Each link reuses the base href and appends page, size and, when sort
// criteria are given, one sort=property,direction pair per criterion.
// If base is itself a template its query block is dropped before the
// pagination parameters are attached; any path variables it declares
// must already be expanded by the caller.
func PageLinks(base string, page PageMetadata, sort ...SortOrder) (Links, error) {
	if page.Size <= 0 || page.Number < 0 || page.TotalElements < 0 {
		return nil, InvalidPageError{
			Number:        page.Number,
			Size:          page.Size,
			TotalElements: page.TotalElements,
		}
	}

	parsed, err := uritemplate.Parse(base)
	if err != nil {
		return nil, err
	}

	tmpl, err := uritemplate.Parse(parsed.PathTemplate() + "{?page,size,sort*}")
	if err != nil {
		return nil, err
	}

	link := func(rel LinkRelation, number int64) (Link, error) {
		values := map[string]any{
			"page": number,
			"size": page.Size,
		}
		if len(sort) > 0 {
			criteria := make([][]string, len(sort))
			for i, s := range sort {
				criteria[i] = []string{s.Property, string(s.Direction)}
			}
			values["sort"] = criteria
		}

		href, err := tmpl.ExpandNamed(values, uritemplate.CompositeCollections())
		if err != nil {
			return Link{}, err
		}
		return NewLink(rel, href), nil
	}

	type target struct {
		rel    LinkRelation
		number int64
	}

	totalPages := page.TotalPages()
	number := int64(page.Number)

	targets := make([]target, 0, 5)
	targets = append(targets, target{rel: RelSelf, number: number})
	if number > 0 {
		targets = append(targets, target{rel: RelFirst, number: 0})
		targets = append(targets, target{rel: RelPrev, number: number - 1})
	}
	if number+1 < totalPages {
		targets = append(targets, target{rel: RelNext, number: number + 1})
	}
	if number < totalPages-1 {
		targets = append(targets, target{rel: RelLast, number: totalPages - 1})
	}

	links := make(Links, 0, len(targets))
	for _, tgt := range targets {
		l, err := link(tgt.rel, tgt.number)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, nil
}
