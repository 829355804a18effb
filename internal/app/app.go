// Package app wires the persistence layer to the application services.
// It is the single place where repository free functions are bound to the
// service interfaces, so entry points only deal with *App.
package app

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-blog-backend/internal/clock"
	"github.com/tbourn/go-blog-backend/internal/domain"
	"github.com/tbourn/go-blog-backend/internal/observability"
	"github.com/tbourn/go-blog-backend/internal/repo"
	"github.com/tbourn/go-blog-backend/internal/services"
)

// authorRepoShim adapts the repository free functions to the
// services.AuthorRepo interface expected by AuthorService.
type authorRepoShim struct{}

// CreateAuthor proxies repo.CreateAuthor.
func (authorRepoShim) CreateAuthor(ctx context.Context, db *gorm.DB, a *domain.Author) error {
	return repo.CreateAuthor(ctx, db, a)
}

// GetAuthor proxies repo.GetAuthor.
func (authorRepoShim) GetAuthor(ctx context.Context, db *gorm.DB, id uint) (*domain.Author, error) {
	return repo.GetAuthor(ctx, db, id)
}

// AuthorNameExists proxies repo.AuthorNameExists.
func (authorRepoShim) AuthorNameExists(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	return repo.AuthorNameExists(ctx, db, name)
}

// ListAuthors proxies repo.ListAuthors.
func (authorRepoShim) ListAuthors(ctx context.Context, db *gorm.DB) ([]domain.Author, error) {
	return repo.ListAuthors(ctx, db)
}

// CountAuthors proxies repo.CountAuthors (pagination support).
func (authorRepoShim) CountAuthors(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountAuthors(ctx, db)
}

// ListAuthorsPage proxies repo.ListAuthorsPage (pagination support).
func (authorRepoShim) ListAuthorsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Author, error) {
	return repo.ListAuthorsPage(ctx, db, offset, limit)
}

// SaveAuthor proxies repo.SaveAuthor.
func (authorRepoShim) SaveAuthor(ctx context.Context, db *gorm.DB, a *domain.Author) error {
	return repo.SaveAuthor(ctx, db, a)
}

// DeleteAuthor proxies repo.DeleteAuthor.
func (authorRepoShim) DeleteAuthor(ctx context.Context, db *gorm.DB, id uint) error {
	return repo.DeleteAuthor(ctx, db, id)
}

// AuthorsStats proxies repo.AuthorsStats.
func (authorRepoShim) AuthorsStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	return repo.AuthorsStats(ctx, db)
}

// postRepoShim adapts the repository free functions to services.PostRepo.
type postRepoShim struct{}

func (postRepoShim) CreatePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return repo.CreatePost(ctx, db, p)
}

func (postRepoShim) GetPost(ctx context.Context, db *gorm.DB, id uint) (*domain.Post, error) {
	return repo.GetPost(ctx, db, id)
}

func (postRepoShim) ListPosts(ctx context.Context, db *gorm.DB, f repo.PostFilter) ([]domain.Post, error) {
	return repo.ListPosts(ctx, db, f)
}

func (postRepoShim) CountPosts(ctx context.Context, db *gorm.DB, f repo.PostFilter) (int64, error) {
	return repo.CountPosts(ctx, db, f)
}

func (postRepoShim) ListPostsPage(ctx context.Context, db *gorm.DB, f repo.PostFilter, offset, limit int) ([]domain.Post, error) {
	return repo.ListPostsPage(ctx, db, f, offset, limit)
}

func (postRepoShim) SavePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return repo.SavePost(ctx, db, p)
}

func (postRepoShim) DeletePost(ctx context.Context, db *gorm.DB, id uint) error {
	return repo.DeletePost(ctx, db, id)
}

func (postRepoShim) PostsStats(ctx context.Context, db *gorm.DB, f repo.PostFilter) (int64, *time.Time, error) {
	return repo.PostsStats(ctx, db, f)
}

// App bundles the services sharing one database handle.
type App struct {
	DB      *gorm.DB
	Authors *services.AuthorService
	Posts   *services.PostService
	Metrics *observability.Metrics
}

// New builds the services on db. A nil clk means the system clock; a nil m
// disables metrics.
func New(db *gorm.DB, clk clock.Clock, m *observability.Metrics) *App {
	if clk == nil {
		clk = clock.System{}
	}

	authors := services.NewAuthorService(db, authorRepoShim{})
	authors.Clock = clk
	authors.Metrics = m

	posts := services.NewPostService(db, postRepoShim{})
	posts.Clock = clk
	posts.Metrics = m

	return &App{DB: db, Authors: authors, Posts: posts, Metrics: m}
}

// Migrate creates or updates the schema.
func (a *App) Migrate() error { return repo.AutoMigrate(a.DB) }

// Close releases the underlying connection pool.
func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
