// Package domain defines the persistence models for authors and posts and the
// field rules every value must satisfy before it is committed.
//
// Validators are plain functions of (candidate value[, collection state]) that
// either return the candidate unchanged or a *ValidationError carrying a
// human-readable message. Rules are expressed as ozzo-validation rule chains;
// the first failing rule decides the message.
package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Field names as stored in the database. They double as ValidationError.Field.
const (
	FieldName        = "name"
	FieldPhoneNumber = "phone_number"
	FieldTitle       = "title"
	FieldContent     = "content"
	FieldSummary     = "summary"
	FieldCategory    = "category"
)

// Post categories.
const (
	CategoryFiction    = "Fiction"
	CategoryNonFiction = "Non-Fiction"
)

const (
	// PhoneNumberLen is the exact length of a valid phone number.
	PhoneNumberLen = 10
	// MinContentRunes is the minimum post body length.
	MinContentRunes = 250
	// MaxSummaryRunes is the maximum post summary length.
	MaxSummaryRunes = 250
)

// Validation messages. Callers and clients match on these literally.
const (
	MsgNameRequired      = "Name is required"
	MsgNameExists        = "Name already exists"
	MsgPhoneRequired     = "Input phone number"
	MsgPhoneDigits       = "Phone number must contain only digits"
	MsgPhoneLength       = "Phone number must be 10 digits"
	MsgTitleRequired     = "Title input required"
	MsgTitleClickbait    = "Title must contain one of the following: 'Won't Believe', 'Secret', 'Top', 'Guess'"
	MsgContentTooShort   = "Content must be 250 characters"
	MsgSummaryTooLong    = "Summary must not be more than 250 characters"
	MsgCategoryNotListed = "Post category should be either Fiction or Non-Fiction."
)

// ClickbaitMarkers lists the phrases of which a post title must contain at
// least one (case-sensitive substring match).
var ClickbaitMarkers = []string{"Won't Believe", "Secret", "Top", "Guess"}

// Categories lists the accepted Post.Category values.
var Categories = []string{CategoryFiction, CategoryNonFiction}

var (
	digitsRE    = regexp.MustCompile(`^[0-9]+$`)
	clickbaitRE = markerPattern(ClickbaitMarkers)
)

func markerPattern(markers []string) *regexp.Regexp {
	quoted := make([]string, len(markers))
	for i, m := range markers {
		quoted[i] = regexp.QuoteMeta(m)
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

// Rule chains per field. Required comes first because the ozzo length,
// match and membership rules skip empty values.
var (
	phoneRules = []validation.Rule{
		validation.Required.Error(MsgPhoneRequired),
		validation.Match(digitsRE).Error(MsgPhoneDigits),
		validation.RuneLength(PhoneNumberLen, PhoneNumberLen).Error(MsgPhoneLength),
	}
	titleRules = []validation.Rule{
		validation.Required.Error(MsgTitleRequired),
		validation.Match(clickbaitRE).Error(MsgTitleClickbait),
	}
	contentRules = []validation.Rule{
		validation.Required.Error(MsgContentTooShort),
		validation.RuneLength(MinContentRunes, 0).Error(MsgContentTooShort),
	}
	summaryRules = []validation.Rule{
		validation.RuneLength(0, MaxSummaryRunes).Error(MsgSummaryTooLong),
	}
	categoryRules = []validation.Rule{
		validation.Required.Error(MsgCategoryNotListed),
		validation.In(CategoryFiction, CategoryNonFiction).Error(MsgCategoryNotListed),
	}
)

// NameChecker answers whether an author with exactly this name is already
// stored. Implementations read the current collection; the answer is only as
// fresh as the read, so callers pair it with a unique index.
type NameChecker interface {
	NameExists(ctx context.Context, name string) (bool, error)
}

// NameCheckerFunc adapts a function to NameChecker.
type NameCheckerFunc func(ctx context.Context, name string) (bool, error)

// NameExists calls f.
func (f NameCheckerFunc) NameExists(ctx context.Context, name string) (bool, error) {
	return f(ctx, name)
}

// ValidateName rejects an empty name and a name already held by another
// author. Lookup failures are returned as-is, not as a ValidationError.
func ValidateName(ctx context.Context, names NameChecker, name string) (string, error) {
	if name == "" {
		return "", &ValidationError{Field: FieldName, Message: MsgNameRequired}
	}
	exists, err := names.NameExists(ctx, name)
	if err != nil {
		return "", err
	}
	if exists {
		return "", &ValidationError{Field: FieldName, Message: MsgNameExists}
	}
	return name, nil
}

// ValidatePhoneNumber requires exactly ten ASCII digits.
func ValidatePhoneNumber(phone string) (string, error) {
	return check(FieldPhoneNumber, phone, phoneRules)
}

// ValidateTitle requires a non-empty title containing a clickbait marker.
func ValidateTitle(title string) (string, error) {
	return check(FieldTitle, title, titleRules)
}

// ValidateContent requires at least 250 characters.
func ValidateContent(content string) (string, error) {
	return check(FieldContent, content, contentRules)
}

// ValidateSummary allows at most 250 characters.
func ValidateSummary(summary string) (string, error) {
	return check(FieldSummary, summary, summaryRules)
}

// ValidateCategory accepts exactly "Fiction" or "Non-Fiction".
func ValidateCategory(category string) (string, error) {
	return check(FieldCategory, category, categoryRules)
}

// check runs rules against value and converts the first rule failure into a
// *ValidationError for field.
func check(field, value string, rules []validation.Rule) (string, error) {
	if err := validation.Validate(value, rules...); err != nil {
		var ve validation.Error
		if errors.As(err, &ve) {
			return "", &ValidationError{Field: field, Message: ve.Error()}
		}
		return "", err
	}
	return value, nil
}
