// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"sort"
	"sync"
)

// Book is the domain entity served by the bookstore.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Store is an in-memory book catalog safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	books map[string]Book
}

func NewStore(books ...Book) *Store {
	s := &Store{
		books: make(map[string]Book, len(books)),
	}
	for _, b := range books {
		s.books[b.ID] = b
	}
	return s
}

// Get returns the book with the given id.
func (s *Store) Get(id string) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	return b, ok
}

// Delete removes the book with the given id and reports whether it
// existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.books[id]
	delete(s.books, id)
	return ok
}

// List returns one page of books ordered by id, along with the total
// number of books in the catalog.
func (s *Store) List(page, size int) ([]Book, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Book, 0, len(s.books))
	for _, b := range s.books {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})

	start := page * size
	if start >= len(all) {
		return nil, int64(len(all))
	}
	end := min(start+size, len(all))
	return all[start:end], int64(len(all))
}
