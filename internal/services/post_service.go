// Package services – PostService
//
// This file implements the PostService. Posts carry no uniqueness rule, so
// each write is a validation pass followed by a single statement. Category
// filters on reads are matched case-insensitively and canonicalised before
// they reach the repository.
package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/tbourn/go-blog-backend/internal/clock"
	"github.com/tbourn/go-blog-backend/internal/domain"
	"github.com/tbourn/go-blog-backend/internal/observability"
	"github.com/tbourn/go-blog-backend/internal/repo"
	"github.com/tbourn/go-blog-backend/internal/utils"
)

// PostRepo defines the repository contract required by PostService.
type PostRepo interface {
	CreatePost(ctx context.Context, db *gorm.DB, p *domain.Post) error
	GetPost(ctx context.Context, db *gorm.DB, id uint) (*domain.Post, error)
	ListPosts(ctx context.Context, db *gorm.DB, f repo.PostFilter) ([]domain.Post, error)
	CountPosts(ctx context.Context, db *gorm.DB, f repo.PostFilter) (int64, error)
	ListPostsPage(ctx context.Context, db *gorm.DB, f repo.PostFilter, offset, limit int) ([]domain.Post, error)
	SavePost(ctx context.Context, db *gorm.DB, p *domain.Post) error
	DeletePost(ctx context.Context, db *gorm.DB, id uint) error
	PostsStats(ctx context.Context, db *gorm.DB, f repo.PostFilter) (int64, *time.Time, error)
}

// PostPatch names the fields to reassign. Nil fields are left untouched
// and are not revalidated.
type PostPatch struct {
	Title    *string
	Content  *string
	Summary  *string
	Category *string
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Summary == nil && p.Category == nil
}

// PostQuery selects a page of posts. Category is optional and matched
// without regard to case ("fiction", "NON-FICTION").
type PostQuery struct {
	Category string
	Page     int
	PageSize int
}

// PostService provides post operations: create with validation, lookup,
// filtered listing, patching and deletion.
type PostService struct {
	DB      *gorm.DB
	Repo    PostRepo
	Clock   clock.Clock
	Metrics *observability.Metrics
}

// NewPostService constructs a PostService on the system clock.
func NewPostService(db *gorm.DB, r PostRepo) *PostService {
	return &PostService{DB: db, Repo: r, Clock: clock.System{}}
}

// Create validates title, content, summary and category (in that order) and
// inserts a new post.
func (s *PostService) Create(ctx context.Context, in domain.PostInput) (p *domain.Post, err error) {
	ctx, done := track(ctx, s.Metrics, "post", "create")
	defer done(&err)

	rec, err := domain.NewPost(in, s.Clock.Now())
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Repo.CreatePost(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns the post with id or ErrPostNotFound.
func (s *PostService) Get(ctx context.Context, id uint) (p *domain.Post, err error) {
	ctx, done := track(ctx, s.Metrics, "post", "get", attribute.Int64("blog.id", int64(id)))
	defer done(&err)

	p, err = s.Repo.GetPost(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	return p, nil
}

// List returns every post in category (all posts when empty), most recent
// first.
func (s *PostService) List(ctx context.Context, category string) (out []domain.Post, err error) {
	ctx, done := track(ctx, s.Metrics, "post", "list")
	defer done(&err)

	f, err := filterFor(category)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListPosts(ctx, s.DB, f)
}

// ListPage returns a page of posts matching q and the total count.
func (s *PostService) ListPage(ctx context.Context, q PostQuery) (items []domain.Post, total int64, err error) {
	ctx, done := track(ctx, s.Metrics, "post", "list", attribute.String("blog.category", q.Category))
	defer done(&err)

	f, err := filterFor(q.Category)
	if err != nil {
		return nil, 0, err
	}
	_, limit, offset := utils.Page(q.Page, q.PageSize)

	total, err = s.Repo.CountPosts(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Post{}, 0, nil
	}
	items, err = s.Repo.ListPostsPage(ctx, s.DB, f, offset, limit)
	return items, total, err
}

// Update applies p to the post with id. Only the patched fields are
// revalidated, in title, content, summary, category order. An empty patch
// returns the stored post without writing.
func (s *PostService) Update(ctx context.Context, id uint, p PostPatch) (post *domain.Post, err error) {
	ctx, done := track(ctx, s.Metrics, "post", "update", attribute.Int64("blog.id", int64(id)))
	defer done(&err)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.Repo.GetPost(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrPostNotFound)
		}
		if p.Empty() {
			post = rec
			return nil
		}

		now := s.Clock.Now()
		for _, f := range []struct {
			v   *string
			set func(string, time.Time) error
		}{
			{p.Title, rec.SetTitle},
			{p.Content, rec.SetContent},
			{p.Summary, rec.SetSummary},
			{p.Category, rec.SetCategory},
		} {
			if f.v == nil {
				continue
			}
			if err := f.set(*f.v, now); err != nil {
				return err
			}
		}

		if err := s.Repo.SavePost(ctx, tx, rec); err != nil {
			return notFound(err, ErrPostNotFound)
		}
		post = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post with id or returns ErrPostNotFound.
func (s *PostService) Delete(ctx context.Context, id uint) (err error) {
	ctx, done := track(ctx, s.Metrics, "post", "delete", attribute.Int64("blog.id", int64(id)))
	defer done(&err)

	return notFound(s.Repo.DeletePost(ctx, s.DB, id), ErrPostNotFound)
}

// Stats returns the count and latest UpdatedAt of posts in category (all
// posts when empty).
func (s *PostService) Stats(ctx context.Context, category string) (st Stats, err error) {
	ctx, done := track(ctx, s.Metrics, "post", "stats")
	defer done(&err)

	f, err := filterFor(category)
	if err != nil {
		return Stats{}, err
	}
	st.Count, st.LastUpdated, err = s.Repo.PostsStats(ctx, s.DB, f)
	return st, err
}

// CanonicalCategory maps a user-typed category onto its stored spelling,
// ignoring case and surrounding whitespace. Unknown values fail with the
// category ValidationError.
func CanonicalCategory(s string) (string, error) {
	fold := cases.Fold() // a Caser is stateful; never share one
	folded := fold.String(strings.TrimSpace(s))
	for _, c := range domain.Categories {
		if fold.String(c) == folded {
			return c, nil
		}
	}
	return "", &domain.ValidationError{Field: domain.FieldCategory, Message: domain.MsgCategoryNotListed}
}

func filterFor(category string) (repo.PostFilter, error) {
	if strings.TrimSpace(category) == "" {
		return repo.PostFilter{}, nil
	}
	c, err := CanonicalCategory(category)
	if err != nil {
		return repo.PostFilter{}, err
	}
	return repo.PostFilter{Category: c}, nil
}
