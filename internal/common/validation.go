package common

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxContentLength = 4000

var (
	ErrEmptyContent   = errors.New("message content cannot be empty")
	ErrContentTooLong = errors.New("message content is too long")
	ErrEmptyUserID    = errors.New("user ID cannot be empty")
)

// NormalizeContent trims surrounding whitespace and checks the body is
// non-empty and within MaxContentLength runes.
func NormalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", ErrContentTooLong
	}
	return content, nil
}

func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrEmptyUserID
	}
	return nil
}
