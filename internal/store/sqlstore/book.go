package sqlstore

import (
	"context"
	"strings"

	"github.com/efreitasn/bookswap/internal/domain"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BookStore persists the catalog in the books table.
type BookStore struct {
	db *gorm.DB
}

// NewBookStore creates a BookStore on db.
func NewBookStore(db *gorm.DB) *BookStore {
	return &BookStore{db: db}
}

// Create inserts a book.
func (s *BookStore) Create(ctx context.Context, b *domain.Book) error {
	if err := s.db.WithContext(ctx).Create(bookRowFrom(b)).Error; err != nil {
		return domain.NewStorageError("books.create", err)
	}
	return nil
}

// Get returns a book by ID.
func (s *BookStore) Get(ctx context.Context, id string) (*domain.Book, error) {
	var row bookRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, storageErr("books.get", err, domain.ErrBookNotFound)
	}
	return row.toDomain(), nil
}

// GetMany returns the books for ids in the order given, skipping unknown ids.
func (s *BookStore) GetMany(ctx context.Context, ids []string) ([]*domain.Book, error) {
	result := make([]*domain.Book, 0, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []bookRow
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("books.get_many", err)
	}
	byID := make(map[string]*bookRow, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			result = append(result, row.toDomain())
			delete(byID, id)
		}
	}
	return result, nil
}

// GetByISBN returns the earliest-created book with isbn.
func (s *BookStore) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	var row bookRow
	if err := s.db.WithContext(ctx).Where("isbn = ?", isbn).Order("seq").First(&row).Error; err != nil {
		return nil, storageErr("books.get_by_isbn", err, domain.ErrBookNotFound)
	}
	return row.toDomain(), nil
}

// List returns books ordered by case-folded title, then id, optionally
// restricted to titles starting with titlePrefix.
func (s *BookStore) List(ctx context.Context, titlePrefix string) ([]*domain.Book, error) {
	q := s.db.WithContext(ctx).Order("lower(title), id")
	if titlePrefix != "" {
		q = q.Where(`lower(title) LIKE ? ESCAPE '\'`, likeEscaper.Replace(strings.ToLower(titlePrefix))+"%")
	}
	var rows []bookRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("books.list", err)
	}
	return bookRows(rows), nil
}

// ListByOwner returns a user's books in creation order.
func (s *BookStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	var rows []bookRow
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("seq").Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("books.list_by_owner", err)
	}
	return bookRows(rows), nil
}

// Update overwrites a book's mutable fields. Owner and creation time are
// kept from the stored row and copied back into b.
func (s *BookStore) Update(ctx context.Context, b *domain.Book) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row bookRow
		if err := tx.First(&row, "id = ?", b.ID).Error; err != nil {
			return storageErr("books.update", err, domain.ErrBookNotFound)
		}

		next := bookRowFrom(b)
		next.Seq = row.Seq
		next.OwnerID = row.OwnerID
		next.CreatedAt = row.CreatedAt
		if err := tx.Save(next).Error; err != nil {
			return domain.NewStorageError("books.update", err)
		}
		b.OwnerID = row.OwnerID
		b.CreatedAt = row.CreatedAt.UTC()
		return nil
	})
}

// Delete removes a book and returns it.
func (s *BookStore) Delete(ctx context.Context, id string) (*domain.Book, error) {
	var deleted *domain.Book
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row bookRow
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return storageErr("books.delete", err, domain.ErrBookNotFound)
		}
		if err := tx.Delete(&bookRow{}, "seq = ?", row.Seq).Error; err != nil {
			return domain.NewStorageError("books.delete", err)
		}
		deleted = row.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func bookRows(rows []bookRow) []*domain.Book {
	result := make([]*domain.Book, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toDomain())
	}
	return result
}
