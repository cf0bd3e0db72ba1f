package sqlstore

import (
	"context"
	"errors"
	"strings"

	"github.com/efreitasn/bookswap/internal/domain"
	"gorm.io/gorm"
)

// UserStore persists users in the users table.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a UserStore on db.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user. Email and username are unique case-insensitively.
func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	row := &userRow{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		UsernameKey:  strings.ToLower(u.Username),
		Email:        u.Email,
		EmailKey:     strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&userRow{}).
			Where("id = ? OR email_key = ? OR username_key = ?", row.ID, row.EmailKey, row.UsernameKey).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return domain.ErrUserAlreadyExists
		}
		return tx.Create(row).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrUserAlreadyExists), errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrUserAlreadyExists
	default:
		return domain.NewStorageError("users.create", err)
	}
}

// Get returns a user by ID.
func (s *UserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, storageErr("users.get", err, domain.ErrUserNotFound)
	}
	return row.toDomain(), nil
}

// GetByEmail returns a user by email, case-insensitively.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, "email_key = ?", strings.ToLower(email)).Error; err != nil {
		return nil, storageErr("users.get_by_email", err, domain.ErrUserNotFound)
	}
	return row.toDomain(), nil
}

// List returns all users ordered by creation time, then id.
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	var rows []userRow
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("users.list", err)
	}
	result := make([]*domain.User, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toDomain())
	}
	return result, nil
}

// Delete removes a user. Trades that reference it are kept.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&userRow{}, "id = ?", id)
	if res.Error != nil {
		return domain.NewStorageError("users.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
