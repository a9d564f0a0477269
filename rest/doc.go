// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rest provides an OpenAPI aware HTTP layer for serving
// hypermedia (HAL) APIs.
//
// Operations are registered on an [Api] with a [Path] which doubles as
// both the routing pattern and the URI template advertised to clients:
//
//	listBooks := rest.Operation(
//	    http.MethodGet,
//	    rest.BasePath("/books").Query("page").Query("size"),
//	    rest.ReturnPage("books", rest.BasePath("/books"), handler),
//	)
//	api := rest.NewApi("Bookstore", "v1.0.0", listBooks)
//	http.ListenAndServe(":8080", api)
//
// Responses produced by [ReturnHal] and [ReturnPage] are HAL documents
// served as application/hal+json, with navigation links derived via the
// hal and uritemplate packages.
package rest
