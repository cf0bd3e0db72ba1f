package store

import (
	"context"
	"strings"
	"sync"

	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/google/btree"
)

// titleKey orders the catalog by case-folded title, then book id.
type titleKey struct {
	Title string
	ID    string
}

func titleLess(a, b titleKey) bool {
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.ID < b.ID
}

func keyFor(b *domain.Book) titleKey {
	return titleKey{Title: strings.ToLower(b.Title), ID: b.ID}
}

// BookStore is a thread-safe in-memory book catalog.
// Primary index: book_id → book.
// Secondary indexes: a B-tree ordered by title for listing and prefix
// search, owner_id → book ids and isbn → book ids (both in creation order).
type BookStore struct {
	mu      sync.RWMutex
	books   map[string]*domain.Book
	byTitle *btree.BTreeG[titleKey]
	byOwner map[string][]string
	byISBN  map[string][]string
}

// NewBookStore creates an empty BookStore.
func NewBookStore() *BookStore {
	return &BookStore{
		books:   make(map[string]*domain.Book),
		byTitle: btree.NewG(32, titleLess),
		byOwner: make(map[string][]string),
		byISBN:  make(map[string][]string),
	}
}

// Create adds a book to the catalog and all secondary indexes.
func (s *BookStore) Create(_ context.Context, b *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *b
	s.books[b.ID] = &cp
	s.byTitle.ReplaceOrInsert(keyFor(b))
	s.byOwner[b.OwnerID] = append(s.byOwner[b.OwnerID], b.ID)
	s.byISBN[b.ISBN] = append(s.byISBN[b.ISBN], b.ID)
	return nil
}

// Get retrieves a book by ID. It returns
// domain.ErrBookNotFound if the book does not exist.
func (s *BookStore) Get(_ context.Context, id string) (*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

// GetMany returns the books for ids in the order given. Unknown ids are
// skipped; an empty result is not an error.
func (s *BookStore) GetMany(_ context.Context, ids []string) ([]*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Book, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		b, ok := s.books[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		cp := *b
		result = append(result, &cp)
	}
	return result, nil
}

// GetByISBN returns the earliest-created book with the given ISBN.
func (s *BookStore) GetByISBN(_ context.Context, isbn string) (*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byISBN[isbn]
	if len(ids) == 0 {
		return nil, domain.ErrBookNotFound
	}
	cp := *s.books[ids[0]]
	return &cp, nil
}

// List returns books ordered by title, then id. A non-empty titlePrefix
// restricts the result to titles starting with it, case-insensitively.
func (s *BookStore) List(_ context.Context, titlePrefix string) ([]*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := strings.ToLower(titlePrefix)
	result := make([]*domain.Book, 0)
	s.byTitle.AscendGreaterOrEqual(titleKey{Title: prefix}, func(k titleKey) bool {
		if !strings.HasPrefix(k.Title, prefix) {
			return false
		}
		cp := *s.books[k.ID]
		result = append(result, &cp)
		return true
	})
	return result, nil
}

// ListByOwner returns the books uploaded by ownerID in creation order.
func (s *BookStore) ListByOwner(_ context.Context, ownerID string) ([]*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byOwner[ownerID]
	result := make([]*domain.Book, 0, len(ids))
	for _, id := range ids {
		cp := *s.books[id]
		result = append(result, &cp)
	}
	return result, nil
}

// Update replaces a stored book, re-indexing its title and ISBN. Owner is
// immutable and is kept from the stored record.
func (s *BookStore) Update(_ context.Context, b *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.books[b.ID]
	if !ok {
		return domain.ErrBookNotFound
	}

	cp := *b
	cp.OwnerID = old.OwnerID
	cp.CreatedAt = old.CreatedAt

	s.byTitle.Delete(keyFor(old))
	s.byTitle.ReplaceOrInsert(keyFor(&cp))
	if old.ISBN != cp.ISBN {
		s.byISBN[old.ISBN] = removeID(s.byISBN[old.ISBN], cp.ID)
		if len(s.byISBN[old.ISBN]) == 0 {
			delete(s.byISBN, old.ISBN)
		}
		s.byISBN[cp.ISBN] = append(s.byISBN[cp.ISBN], cp.ID)
	}
	s.books[b.ID] = &cp
	*b = cp
	return nil
}

// Delete removes a book from the catalog and returns the removed record.
func (s *BookStore) Delete(_ context.Context, id string) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}

	delete(s.books, id)
	s.byTitle.Delete(keyFor(b))
	s.byOwner[b.OwnerID] = removeID(s.byOwner[b.OwnerID], id)
	if len(s.byOwner[b.OwnerID]) == 0 {
		delete(s.byOwner, b.OwnerID)
	}
	s.byISBN[b.ISBN] = removeID(s.byISBN[b.ISBN], id)
	if len(s.byISBN[b.ISBN]) == 0 {
		delete(s.byISBN, b.ISBN)
	}
	return b, nil
}

// removeID returns ids without id, preserving order.
func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
