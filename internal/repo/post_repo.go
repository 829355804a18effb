package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-blog-backend/internal/domain"
)

// PostFilter narrows post queries. The zero value matches every post.
type PostFilter struct {
	// Category, when set, must equal the stored category exactly.
	Category string
}

func (f PostFilter) scope(q *gorm.DB) *gorm.DB {
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	return q
}

// CreatePost inserts a fully validated post and fills in its ID.
func CreatePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return db.WithContext(ctx).Create(p).Error
}

// GetPost fetches a single post by ID, or ErrNotFound if missing.
func GetPost(ctx context.Context, db *gorm.DB, id uint) (*domain.Post, error) {
	var p domain.Post
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPosts returns all posts matching f, most recent first.
func ListPosts(ctx context.Context, db *gorm.DB, f PostFilter) ([]domain.Post, error) {
	var out []domain.Post
	err := db.WithContext(ctx).
		Scopes(f.scope).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// CountPosts returns the number of posts matching f.
func CountPosts(ctx context.Context, db *gorm.DB, f PostFilter) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Post{}).
		Scopes(f.scope).
		Count(&total).Error
	return total, err
}

// ListPostsPage returns a slice of posts in the same order as ListPosts.
func ListPostsPage(ctx context.Context, db *gorm.DB, f PostFilter, offset, limit int) ([]domain.Post, error) {
	var out []domain.Post
	err := db.WithContext(ctx).
		Scopes(f.scope).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SavePost writes the mutable columns of an existing post. CreatedAt is
// never rewritten. Returns ErrNotFound when no row has p.ID.
func SavePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	res := db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":      p.Title,
			"content":    p.Content,
			"summary":    p.Summary,
			"category":   p.Category,
			"updated_at": p.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost hard-deletes a post. Returns ErrNotFound when no row has id.
func DeletePost(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
