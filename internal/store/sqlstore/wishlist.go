package sqlstore

import (
	"context"

	"github.com/efreitasn/bookswap/internal/domain"
	"gorm.io/gorm"
)

// WishlistStore persists wishlists as (user, book) rows.
type WishlistStore struct {
	db *gorm.DB
}

// NewWishlistStore creates a WishlistStore on db.
func NewWishlistStore(db *gorm.DB) *WishlistStore {
	return &WishlistStore{db: db}
}

// Add inserts (userID, bookID) unless present. Returns true if added.
func (s *WishlistStore) Add(ctx context.Context, userID, bookID string) (bool, error) {
	added := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&wishlistRow{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := tx.Create(&wishlistRow{UserID: userID, BookID: bookID}).Error; err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, domain.NewStorageError("wishlists.add", err)
	}
	return added, nil
}

// List returns the user's book ids in insertion order.
func (s *WishlistStore) List(ctx context.Context, userID string) ([]string, error) {
	ids := make([]string, 0)
	if err := s.db.WithContext(ctx).Model(&wishlistRow{}).
		Where("user_id = ?", userID).
		Order("seq").
		Pluck("book_id", &ids).Error; err != nil {
		return nil, domain.NewStorageError("wishlists.list", err)
	}
	return ids, nil
}

// Remove deletes (userID, bookID). Returns true if it existed.
func (s *WishlistStore) Remove(ctx context.Context, userID, bookID string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&wishlistRow{}, "user_id = ? AND book_id = ?", userID, bookID)
	if res.Error != nil {
		return false, domain.NewStorageError("wishlists.remove", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteUser drops the user's whole wishlist.
func (s *WishlistStore) DeleteUser(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Delete(&wishlistRow{}, "user_id = ?", userID).Error; err != nil {
		return domain.NewStorageError("wishlists.delete_user", err)
	}
	return nil
}
