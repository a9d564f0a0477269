// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package uritemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	t.Run("returns untemplated input unchanged with zero values", func(t *testing.T) {
		s, err := Expand("/users/15")
		require.NoError(t, err)

		assert.Equal(t, "/users/15", s)
	})

	t.Run("returns the path portion of a query only template with zero values", func(t *testing.T) {
		s, err := Expand("/items{?tag,page}")
		require.NoError(t, err)

		assert.Equal(t, "/items", s)
	})

	t.Run("fails with zero values when path variables are mandatory", func(t *testing.T) {
		_, err := Expand("/users/{id}")

		var missingErr MissingParameterError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, "id", missingErr.Name)
	})

	t.Run("substitutes path variables left to right", func(t *testing.T) {
		s, err := Expand("/users/{userId}/posts/{postId}", 15, "hello-world")
		require.NoError(t, err)

		assert.Equal(t, "/users/15/posts/hello-world", s)
	})

	t.Run("fills query variables with the values remaining after path variables", func(t *testing.T) {
		s, err := Expand("/users/{id}/activity{?limit,page}", 15, 50, 2)
		require.NoError(t, err)

		assert.Equal(t, "/users/15/activity?limit=50&page=2", s)
	})

	t.Run("omits trailing query variables with no value", func(t *testing.T) {
		s, err := Expand("/users/{id}/activity{?limit,page}", 15, 50)
		require.NoError(t, err)

		assert.Equal(t, "/users/15/activity?limit=50", s)
	})

	t.Run("leaves no placeholder behind when every path variable is filled", func(t *testing.T) {
		s, err := Expand("/a/{x}/b/{y}/c/{z}", 1, 2, 3)
		require.NoError(t, err)

		assert.NotContains(t, s, "{")
		assert.NotContains(t, s, "}")
	})

	t.Run("percent encodes query values", func(t *testing.T) {
		s, err := Expand("/search{?q}", "a b&c")
		require.NoError(t, err)

		assert.Equal(t, "/search?q=a+b%26c", s)
	})

	t.Run("fails when more values than declared variables are supplied", func(t *testing.T) {
		_, err := Expand("/users/{id}", 15, 50)

		var tooManyErr TooManyParametersError
		require.ErrorAs(t, err, &tooManyErr)
		assert.Equal(t, 1, tooManyErr.Declared)
		assert.Equal(t, 2, tooManyErr.Supplied)
	})

	t.Run("fails when fewer values than path variables are supplied", func(t *testing.T) {
		_, err := Expand("/users/{userId}/posts/{postId}", 15)

		var missingErr MissingParameterError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, "postId", missingErr.Name)
	})

	t.Run("fails on templates declaring exploded query variables", func(t *testing.T) {
		_, err := Expand("/items{?tag*}", "x")

		var unsupportedErr UnsupportedExpansionError
		require.ErrorAs(t, err, &unsupportedErr)
		assert.Equal(t, "tag", unsupportedErr.Name)
	})

	t.Run("fails on collection values", func(t *testing.T) {
		_, err := Expand("/items{?tag}", []string{"x", "y"})

		var collErr CollectionNotAllowedError
		require.ErrorAs(t, err, &collErr)
		assert.Equal(t, "tag", collErr.Name)
	})
}

func TestExpandNamed(t *testing.T) {
	t.Run("expands path and query variables by name", func(t *testing.T) {
		s, err := ExpandNamed("/users/{id}/activity{?limit,page}", map[string]any{
			"id":    15,
			"limit": 50,
			"page":  2,
		})
		require.NoError(t, err)

		assert.Equal(t, "/users/15/activity?limit=50&page=2", s)
	})

	t.Run("omits the query string entirely when no query values are supplied", func(t *testing.T) {
		s, err := ExpandNamed("/users/{id}/activity{?limit,page}", map[string]any{
			"id": 15,
		})
		require.NoError(t, err)

		assert.Equal(t, "/users/15/activity", s)
	})

	t.Run("renders query variables in declared order not map order", func(t *testing.T) {
		for range 20 {
			s, err := ExpandNamed("/a/{x}/b{?p,q}", map[string]any{
				"q": 2,
				"p": 1,
				"x": "v",
			})
			require.NoError(t, err)

			assert.Equal(t, "/a/v/b?p=1&q=2", s)
		}
	})

	t.Run("renders an exploded collection as repeated pairs", func(t *testing.T) {
		s, err := ExpandNamed("/items{?tag*}", map[string]any{
			"tag": []string{"x", "y"},
		})
		require.NoError(t, err)

		assert.Equal(t, "/items?tag=x&tag=y", s)
	})

	t.Run("renders a scalar for a non exploded variable", func(t *testing.T) {
		s, err := ExpandNamed("/items{?tag}", map[string]any{
			"tag": "x",
		})
		require.NoError(t, err)

		assert.Equal(t, "/items?tag=x", s)
	})

	t.Run("fails on a collection for a non exploded variable", func(t *testing.T) {
		_, err := ExpandNamed("/items{?tag}", map[string]any{
			"tag": []string{"x", "y"},
		})

		var collErr CollectionNotAllowedError
		require.ErrorAs(t, err, &collErr)
		assert.Equal(t, "tag", collErr.Name)
	})

	t.Run("joins a collection for a non exploded variable when composites are permitted", func(t *testing.T) {
		s, err := ExpandNamed(
			"/items{?tag}",
			map[string]any{"tag": []string{"x", "y"}},
			CompositeCollections(),
		)
		require.NoError(t, err)

		assert.Equal(t, "/items?tag=x,y", s)
	})

	t.Run("renders nested collections of an exploded variable as composite pairs", func(t *testing.T) {
		s, err := ExpandNamed(
			"/books{?sort*}",
			map[string]any{
				"sort": [][]string{{"title", "asc"}, {"author", "desc"}},
			},
			CompositeCollections(),
		)
		require.NoError(t, err)

		assert.Equal(t, "/books?sort=title,asc&sort=author,desc", s)
	})

	t.Run("fails on nested collections when composites are not permitted", func(t *testing.T) {
		_, err := ExpandNamed("/books{?sort*}", map[string]any{
			"sort": [][]string{{"title", "asc"}},
		})

		var collErr CollectionNotAllowedError
		require.ErrorAs(t, err, &collErr)
		assert.Equal(t, "sort", collErr.Name)
	})

	t.Run("filters nil elements before joining", func(t *testing.T) {
		s, err := ExpandNamed(
			"/items{?tag}",
			map[string]any{"tag": []any{"x", nil, "y"}},
			CompositeCollections(),
		)
		require.NoError(t, err)

		assert.Equal(t, "/items?tag=x,y", s)
	})

	t.Run("treats a nil value as absent", func(t *testing.T) {
		s, err := ExpandNamed("/items{?tag}", map[string]any{
			"tag": nil,
		})
		require.NoError(t, err)

		assert.Equal(t, "/items", s)
	})

	t.Run("fails when the map omits a path variable", func(t *testing.T) {
		_, err := ExpandNamed("/users/{id}{?page}", map[string]any{
			"page": 1,
		})

		var missingErr MissingParameterError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, "id", missingErr.Name)
	})

	t.Run("fails on a key which names no declared variable", func(t *testing.T) {
		_, err := ExpandNamed("/users/{id}", map[string]any{
			"id":    15,
			"bogus": true,
		})

		var unknownErr UnknownParameterError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, "bogus", unknownErr.Name)
	})

	t.Run("fails on a collection for a path variable", func(t *testing.T) {
		_, err := ExpandNamed("/users/{id}", map[string]any{
			"id": []int{1, 2},
		})

		var collErr CollectionNotAllowedError
		require.ErrorAs(t, err, &collErr)
		assert.Equal(t, "id", collErr.Name)
	})

	t.Run("expands the same template concurrently", func(t *testing.T) {
		tmpl, err := Parse("/users/{id}{?page}")
		require.NoError(t, err)

		done := make(chan error, 10)
		for i := range 10 {
			go func() {
				s, err := tmpl.ExpandNamed(map[string]any{"id": i, "page": i})
				if err != nil {
					done <- err
					return
				}
				if s == "" {
					done <- assert.AnError
					return
				}
				done <- nil
			}()
		}
		for range 10 {
			require.NoError(t, <-done)
		}
	})
}
