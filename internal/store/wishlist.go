package store

import (
	"context"
	"sync"
)

// WishlistStore is a thread-safe in-memory store of per-user wishlists.
// Each wishlist is an ordered set of book ids.
type WishlistStore struct {
	mu    sync.RWMutex
	lists map[string][]string // user_id → book ids (insertion order)
}

// NewWishlistStore creates an empty WishlistStore.
func NewWishlistStore() *WishlistStore {
	return &WishlistStore{
		lists: make(map[string][]string),
	}
}

// Add appends bookID to the user's wishlist unless already present.
// Returns true if the book was added.
func (s *WishlistStore) Add(_ context.Context, userID, bookID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.lists[userID] {
		if id == bookID {
			return false, nil
		}
	}
	s.lists[userID] = append(s.lists[userID], bookID)
	return true, nil
}

// List returns a copy of the user's wishlist.
func (s *WishlistStore) List(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.lists[userID]
	result := make([]string, len(ids))
	copy(result, ids)
	return result, nil
}

// Remove drops bookID from the user's wishlist. Returns true if it was present.
func (s *WishlistStore) Remove(_ context.Context, userID, bookID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.lists[userID]
	for i, id := range ids {
		if id == bookID {
			s.lists[userID] = append(ids[:i:i], ids[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// DeleteUser drops the user's whole wishlist.
func (s *WishlistStore) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.lists, userID)
	return nil
}
