// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Author model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no validation, only persistence and query composition.
//
// Error semantics:
//   - When an author is not found, functions return ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - A write that collides with ux_authors_name returns an error wrapping
//     ErrDuplicate.
//   - Every other DB error is propagated raw.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-blog-backend/internal/domain"
)

// CreateAuthor inserts a fully validated author and fills in its ID.
func CreateAuthor(ctx context.Context, db *gorm.DB, a *domain.Author) error {
	return translate(db.WithContext(ctx).Create(a).Error)
}

// GetAuthor fetches a single author by ID, or ErrNotFound if missing.
func GetAuthor(ctx context.Context, db *gorm.DB, id uint) (*domain.Author, error) {
	var a domain.Author
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// AuthorNameExists reports whether any author has exactly this name.
// The comparison is case-sensitive on both supported backends.
func AuthorNameExists(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Author{}).
		Where("name = ?", name).
		Count(&n).Error
	return n > 0, err
}

// ListAuthors returns every author, oldest first.
func ListAuthors(ctx context.Context, db *gorm.DB) ([]domain.Author, error) {
	var out []domain.Author
	err := db.WithContext(ctx).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// CountAuthors returns the total number of authors.
func CountAuthors(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Author{}).Count(&total).Error
	return total, err
}

// ListAuthorsPage returns a slice of authors in the same order as ListAuthors.
// The caller computes offset and limit (e.g. utils.Offset).
func ListAuthorsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Author, error) {
	var out []domain.Author
	err := db.WithContext(ctx).
		Order("created_at asc, id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SaveAuthor writes the mutable columns of an existing author. CreatedAt is
// never rewritten. Returns ErrNotFound when no row has a.ID.
func SaveAuthor(ctx context.Context, db *gorm.DB, a *domain.Author) error {
	res := db.WithContext(ctx).
		Model(&domain.Author{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"name":         a.Name,
			"phone_number": a.PhoneNumber,
			"updated_at":   a.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAuthor hard-deletes an author. Returns ErrNotFound when no row has id.
func DeleteAuthor(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Author{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
