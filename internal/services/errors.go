// Package services defines the business logic for authors and posts.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Field validation failures are not listed here: they surface as
// *domain.ValidationError so the caller can show the message verbatim.
package services

import (
	"errors"

	"github.com/tbourn/go-blog-backend/internal/domain"
	"github.com/tbourn/go-blog-backend/internal/repo"
)

var (
	// ErrAuthorNotFound indicates that no author has the requested ID.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrPostNotFound indicates that no post has the requested ID.
	ErrPostNotFound = errors.New("post not found")
)

// nameTaken turns a unique-index violation on authors.name into the same
// ValidationError the name lookup produces. Other errors pass through.
func nameTaken(err error) error {
	if repo.IsDuplicate(err) {
		return &domain.ValidationError{Field: domain.FieldName, Message: domain.MsgNameExists}
	}
	return err
}

// notFound maps the repository sentinel to a service-level one.
func notFound(err, sentinel error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return sentinel
	}
	return err
}
