package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-blog-backend/internal/clock"
	"github.com/tbourn/go-blog-backend/internal/domain"
	"github.com/tbourn/go-blog-backend/internal/observability"
	"github.com/tbourn/go-blog-backend/internal/repo"
)

// ----- Store-backed repos (same forwarding the app wiring does) -----

type storeAuthors struct{}

func (storeAuthors) CreateAuthor(ctx context.Context, db *gorm.DB, a *domain.Author) error {
	return repo.CreateAuthor(ctx, db, a)
}
func (storeAuthors) GetAuthor(ctx context.Context, db *gorm.DB, id uint) (*domain.Author, error) {
	return repo.GetAuthor(ctx, db, id)
}
func (storeAuthors) AuthorNameExists(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	return repo.AuthorNameExists(ctx, db, name)
}
func (storeAuthors) ListAuthors(ctx context.Context, db *gorm.DB) ([]domain.Author, error) {
	return repo.ListAuthors(ctx, db)
}
func (storeAuthors) CountAuthors(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountAuthors(ctx, db)
}
func (storeAuthors) ListAuthorsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Author, error) {
	return repo.ListAuthorsPage(ctx, db, offset, limit)
}
func (storeAuthors) SaveAuthor(ctx context.Context, db *gorm.DB, a *domain.Author) error {
	return repo.SaveAuthor(ctx, db, a)
}
func (storeAuthors) DeleteAuthor(ctx context.Context, db *gorm.DB, id uint) error {
	return repo.DeleteAuthor(ctx, db, id)
}
func (storeAuthors) AuthorsStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	return repo.AuthorsStats(ctx, db)
}

type storePosts struct{}

func (storePosts) CreatePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return repo.CreatePost(ctx, db, p)
}
func (storePosts) GetPost(ctx context.Context, db *gorm.DB, id uint) (*domain.Post, error) {
	return repo.GetPost(ctx, db, id)
}
func (storePosts) ListPosts(ctx context.Context, db *gorm.DB, f repo.PostFilter) ([]domain.Post, error) {
	return repo.ListPosts(ctx, db, f)
}
func (storePosts) CountPosts(ctx context.Context, db *gorm.DB, f repo.PostFilter) (int64, error) {
	return repo.CountPosts(ctx, db, f)
}
func (storePosts) ListPostsPage(ctx context.Context, db *gorm.DB, f repo.PostFilter, offset, limit int) ([]domain.Post, error) {
	return repo.ListPostsPage(ctx, db, f, offset, limit)
}
func (storePosts) SavePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return repo.SavePost(ctx, db, p)
}
func (storePosts) DeletePost(ctx context.Context, db *gorm.DB, id uint) error {
	return repo.DeletePost(ctx, db, id)
}
func (storePosts) PostsStats(ctx context.Context, db *gorm.DB, f repo.PostFilter) (int64, *time.Time, error) {
	return repo.PostsStats(ctx, db, f)
}

// ----- helpers -----

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newAuthorService(t *testing.T) (*AuthorService, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(t0)
	s := NewAuthorService(newTestDB(t), storeAuthors{})
	s.Clock = clk
	s.Metrics = observability.NewMetrics()
	return s, clk
}

func newPostService(t *testing.T) (*PostService, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(t0)
	s := NewPostService(newTestDB(t), storePosts{})
	s.Clock = clk
	s.Metrics = observability.NewMetrics()
	return s, clk
}

func ptr(s string) *string { return &s }

func validContent() string { return strings.Repeat("x", domain.MinContentRunes) }

// wantValidation fails unless err is a *domain.ValidationError with msg.
func wantValidation(t *testing.T, err error, msg string) {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError %q, got %T %v", msg, err, err)
	}
	if ve.Message != msg {
		t.Fatalf("message = %q; want %q", ve.Message, msg)
	}
}

func countAuthors(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	n, err := repo.CountAuthors(context.Background(), db)
	if err != nil {
		t.Fatalf("count authors: %v", err)
	}
	return n
}
