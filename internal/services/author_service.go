// Package services – AuthorService
//
// This file implements the AuthorService, which manages the lifecycle of
// authors. Every write runs inside one transaction: the name lookup and the
// insert/update share it, and the ux_authors_name index catches whatever
// slips between the two under concurrent writers.
package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-blog-backend/internal/clock"
	"github.com/tbourn/go-blog-backend/internal/domain"
	"github.com/tbourn/go-blog-backend/internal/observability"
	"github.com/tbourn/go-blog-backend/internal/utils"
)

// AuthorRepo defines the repository contract required by AuthorService.
type AuthorRepo interface {
	// CreateAuthor inserts a validated author and assigns its ID.
	CreateAuthor(ctx context.Context, db *gorm.DB, a *domain.Author) error

	// GetAuthor fetches an author by ID.
	GetAuthor(ctx context.Context, db *gorm.DB, id uint) (*domain.Author, error)

	// AuthorNameExists reports whether the exact name is already stored.
	AuthorNameExists(ctx context.Context, db *gorm.DB, name string) (bool, error)

	// ListAuthors returns every author (non-paginated).
	ListAuthors(ctx context.Context, db *gorm.DB) ([]domain.Author, error)

	// CountAuthors returns the total number of authors for pagination.
	CountAuthors(ctx context.Context, db *gorm.DB) (int64, error)

	// ListAuthorsPage returns a page of authors.
	ListAuthorsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Author, error)

	// SaveAuthor writes the mutable columns of an existing author.
	SaveAuthor(ctx context.Context, db *gorm.DB, a *domain.Author) error

	// DeleteAuthor hard-deletes an author.
	DeleteAuthor(ctx context.Context, db *gorm.DB, id uint) error

	// AuthorsStats returns the row count and latest UpdatedAt.
	AuthorsStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error)
}

// AuthorPatch names the fields to reassign. Nil fields are left untouched
// and are not revalidated.
type AuthorPatch struct {
	Name        *string
	PhoneNumber *string
}

// Empty reports whether the patch changes nothing.
func (p AuthorPatch) Empty() bool { return p.Name == nil && p.PhoneNumber == nil }

// Stats summarizes a table for change detection.
type Stats struct {
	Count       int64      `json:"count"`
	LastUpdated *time.Time `json:"last_updated"`
}

// AuthorService provides author operations: create with validation,
// lookup, listing, patching and deletion.
type AuthorService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the author repository used by this service.
	Repo AuthorRepo
	// Clock stamps CreatedAt/UpdatedAt.
	Clock clock.Clock
	// Metrics is optional.
	Metrics *observability.Metrics
}

// NewAuthorService constructs an AuthorService on the system clock.
func NewAuthorService(db *gorm.DB, r AuthorRepo) *AuthorService {
	return &AuthorService{DB: db, Repo: r, Clock: clock.System{}}
}

// names returns a NameChecker bound to db so the lookup sees the same
// transaction as the write that follows it.
func (s *AuthorService) names(db *gorm.DB) domain.NameChecker {
	return domain.NameCheckerFunc(func(ctx context.Context, name string) (bool, error) {
		return s.Repo.AuthorNameExists(ctx, db, name)
	})
}

// Create validates name then phone number and inserts a new author.
// Validation failures are *domain.ValidationError; nothing is written.
func (s *AuthorService) Create(ctx context.Context, name, phone string) (a *domain.Author, err error) {
	ctx, done := track(ctx, s.Metrics, "author", "create")
	defer done(&err)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := domain.NewAuthor(ctx, s.names(tx), s.Clock.Now(), name, phone)
		if err != nil {
			return err
		}
		if err := s.Repo.CreateAuthor(ctx, tx, rec); err != nil {
			return nameTaken(err)
		}
		a = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns the author with id or ErrAuthorNotFound.
func (s *AuthorService) Get(ctx context.Context, id uint) (a *domain.Author, err error) {
	ctx, done := track(ctx, s.Metrics, "author", "get", attribute.Int64("blog.id", int64(id)))
	defer done(&err)

	a, err = s.Repo.GetAuthor(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, ErrAuthorNotFound)
	}
	return a, nil
}

// List returns all authors (non-paginated).
// Prefer ListPage for scalability on large datasets.
func (s *AuthorService) List(ctx context.Context) (out []domain.Author, err error) {
	ctx, done := track(ctx, s.Metrics, "author", "list")
	defer done(&err)

	return s.Repo.ListAuthors(ctx, s.DB)
}

// ListPage returns a page of authors and the total count.
// It applies defaults for invalid page/pageSize.
func (s *AuthorService) ListPage(ctx context.Context, page, pageSize int) (items []domain.Author, total int64, err error) {
	ctx, done := track(ctx, s.Metrics, "author", "list")
	defer done(&err)

	_, limit, offset := utils.Page(page, pageSize)
	total, err = s.Repo.CountAuthors(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Author{}, 0, nil
	}
	items, err = s.Repo.ListAuthorsPage(ctx, s.DB, offset, limit)
	return items, total, err
}

// Update applies p to the author with id. Only the patched fields are
// revalidated; renaming an author to its current name succeeds. An empty
// patch returns the stored author without writing.
func (s *AuthorService) Update(ctx context.Context, id uint, p AuthorPatch) (a *domain.Author, err error) {
	ctx, done := track(ctx, s.Metrics, "author", "update", attribute.Int64("blog.id", int64(id)))
	defer done(&err)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.Repo.GetAuthor(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrAuthorNotFound)
		}
		if p.Empty() {
			a = rec
			return nil
		}

		now := s.Clock.Now()
		if p.Name != nil {
			if err := rec.SetName(ctx, s.names(tx), *p.Name, now); err != nil {
				return err
			}
		}
		if p.PhoneNumber != nil {
			if err := rec.SetPhoneNumber(*p.PhoneNumber, now); err != nil {
				return err
			}
		}
		// SetName is a no-op for an unchanged name; stamp anyway so every
		// accepted mutation advances UpdatedAt.
		rec.UpdatedAt = now

		if err := s.Repo.SaveAuthor(ctx, tx, rec); err != nil {
			return notFound(nameTaken(err), ErrAuthorNotFound)
		}
		a = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the author with id or returns ErrAuthorNotFound.
func (s *AuthorService) Delete(ctx context.Context, id uint) (err error) {
	ctx, done := track(ctx, s.Metrics, "author", "delete", attribute.Int64("blog.id", int64(id)))
	defer done(&err)

	return notFound(s.Repo.DeleteAuthor(ctx, s.DB, id), ErrAuthorNotFound)
}

// Stats returns the author count and the latest UpdatedAt.
func (s *AuthorService) Stats(ctx context.Context) (st Stats, err error) {
	ctx, done := track(ctx, s.Metrics, "author", "stats")
	defer done(&err)

	st.Count, st.LastUpdated, err = s.Repo.AuthorsStats(ctx, s.DB)
	return st, err
}
