package middleware

import (
	"errors"
	"regexp"
)

// Validation limits.
const (
	// MaxSlugLength is the maximum length for a problem slug path param.
	MaxSlugLength = 100

	// MaxTokenNameLength is the maximum length for an API token name.
	MaxTokenNameLength = 100
)

// Validation errors.
var (
	ErrSlugTooLong      = errors.New("slug exceeds maximum length")
	ErrSlugInvalid      = errors.New("slug contains invalid characters")
	ErrTokenNameTooLong = errors.New("token name exceeds maximum length")
	ErrTokenNameInvalid = errors.New("token name contains invalid characters")
)

// validSlugPattern matches LeetCode title slugs: lowercase words joined
// by single hyphens.
var validSlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// validTokenNamePattern matches printable token names without control
// characters or quotes.
var validTokenNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 ._-]*$`)

// ValidateSlugParam validates a problem slug taken from the URL path.
func ValidateSlugParam(slug string) error {
	if len(slug) > MaxSlugLength {
		return ErrSlugTooLong
	}
	if slug == "" || !validSlugPattern.MatchString(slug) {
		return ErrSlugInvalid
	}
	return nil
}

// ValidateTokenName validates a user-supplied API token name.
// Empty names are allowed.
func ValidateTokenName(name string) error {
	if len(name) > MaxTokenNameLength {
		return ErrTokenNameTooLong
	}
	if !validTokenNamePattern.MatchString(name) {
		return ErrTokenNameInvalid
	}
	return nil
}
