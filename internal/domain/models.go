package domain

import (
	"context"
	"fmt"
	"time"
)

// Author represents a content creator. Name is unique across all authors,
// enforced by ValidateName at write time and by the ux_authors_name index.
//
// Fields:
//   - ID: autoincrement primary key assigned by the database.
//   - Name: display name, required and unique.
//   - PhoneNumber: exactly ten digits.
//   - CreatedAt / UpdatedAt: stamped from the injected clock; GORM's own
//     timestamp tracking is off so the stored values are exactly those.
type Author struct {
	ID          uint      `json:"id"           gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name"         gorm:"type:varchar(255);not null;uniqueIndex:ux_authors_name"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(10);not null"`
	CreatedAt   time.Time `json:"created_at"   gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `json:"updated_at"   gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the database table name for Author.
func (Author) TableName() string { return "authors" }

func (a Author) String() string {
	return fmt.Sprintf("Author(id=%d, name=%s)", a.ID, a.Name)
}

// NewAuthor validates name and phone (in that order) and returns an unsaved
// Author stamped with now.
func NewAuthor(ctx context.Context, names NameChecker, now time.Time, name, phone string) (*Author, error) {
	name, err := ValidateName(ctx, names, name)
	if err != nil {
		return nil, err
	}
	phone, err = ValidatePhoneNumber(phone)
	if err != nil {
		return nil, err
	}
	return &Author{
		Name:        name,
		PhoneNumber: phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetName reassigns the name after revalidating it. Reassigning the current
// name is a no-op: an author never collides with itself.
func (a *Author) SetName(ctx context.Context, names NameChecker, name string, now time.Time) error {
	if name == a.Name && name != "" {
		return nil
	}
	name, err := ValidateName(ctx, names, name)
	if err != nil {
		return err
	}
	a.Name = name
	a.UpdatedAt = now
	return nil
}

// SetPhoneNumber reassigns the phone number after revalidating it.
func (a *Author) SetPhoneNumber(phone string, now time.Time) error {
	phone, err := ValidatePhoneNumber(phone)
	if err != nil {
		return err
	}
	a.PhoneNumber = phone
	a.UpdatedAt = now
	return nil
}

// Validate checks every stateless field rule and returns all failures.
// Name uniqueness needs the collection and is only checked on writes.
func (a *Author) Validate() error {
	errs := ValidationErrors{}
	if a.Name == "" {
		errs[FieldName] = &ValidationError{Field: FieldName, Message: MsgNameRequired}
	}
	if _, err := ValidatePhoneNumber(a.PhoneNumber); err != nil {
		errs.add(err)
	}
	return errs.orNil()
}

// Post represents a blog post.
//
// Fields:
//   - ID: autoincrement primary key assigned by the database.
//   - Title: must contain one of ClickbaitMarkers.
//   - Content: at least 250 characters.
//   - Summary: at most 250 characters, may be empty.
//   - Category: "Fiction" or "Non-Fiction".
//   - CreatedAt / UpdatedAt: stamped from the injected clock.
type Post struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title"      gorm:"type:varchar(255);not null"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	Summary   string    `json:"summary"    gorm:"type:text"`
	Category  string    `json:"category"   gorm:"type:varchar(16);not null;index:idx_posts_category;check:chk_posts_category,category IN ('Fiction','Non-Fiction')"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime:false;index:idx_posts_created"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }

func (p Post) String() string {
	return fmt.Sprintf("Post(id=%d, title=%s content=%s, summary=%s)", p.ID, p.Title, p.Content, p.Summary)
}

// PostInput carries the caller-supplied fields of a new post.
type PostInput struct {
	Title    string
	Content  string
	Summary  string
	Category string
}

// NewPost validates title, content, summary and category (in that order) and
// returns an unsaved Post stamped with now.
func NewPost(in PostInput, now time.Time) (*Post, error) {
	p := &Post{CreatedAt: now, UpdatedAt: now}
	for _, set := range []func() error{
		func() error { return p.SetTitle(in.Title, now) },
		func() error { return p.SetContent(in.Content, now) },
		func() error { return p.SetSummary(in.Summary, now) },
		func() error { return p.SetCategory(in.Category, now) },
	} {
		if err := set(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// SetTitle reassigns the title after revalidating it.
func (p *Post) SetTitle(title string, now time.Time) error {
	return p.assign(&p.Title, title, ValidateTitle, now)
}

// SetContent reassigns the content after revalidating it.
func (p *Post) SetContent(content string, now time.Time) error {
	return p.assign(&p.Content, content, ValidateContent, now)
}

// SetSummary reassigns the summary after revalidating it.
func (p *Post) SetSummary(summary string, now time.Time) error {
	return p.assign(&p.Summary, summary, ValidateSummary, now)
}

// SetCategory reassigns the category after revalidating it.
func (p *Post) SetCategory(category string, now time.Time) error {
	return p.assign(&p.Category, category, ValidateCategory, now)
}

func (p *Post) assign(dst *string, v string, validate func(string) (string, error), now time.Time) error {
	v, err := validate(v)
	if err != nil {
		return err
	}
	*dst = v
	p.UpdatedAt = now
	return nil
}

// Validate checks every field rule and returns all failures.
func (p *Post) Validate() error {
	errs := ValidationErrors{}
	for _, v := range []struct {
		value string
		fn    func(string) (string, error)
	}{
		{p.Title, ValidateTitle},
		{p.Content, ValidateContent},
		{p.Summary, ValidateSummary},
		{p.Category, ValidateCategory},
	} {
		if _, err := v.fn(v.value); err != nil {
			errs.add(err)
		}
	}
	return errs.orNil()
}
