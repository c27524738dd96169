package service

import (
	"errors"
	"strings"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrUnknownEmail    = errors.New("email not registered")
	ErrWrongPassword   = errors.New("password incorrect")
	ErrPasswordTooLong = errors.New("password longer than 72 bytes")
	ErrCafeNameTaken   = errors.New("cafe name already taken")
	ErrRatingRange     = errors.New("rating must be between 1 and 10")
	ErrNotFound        = errors.New("not found")
)

// isDupKey 不依赖 gorm.ErrDuplicatedKey，避免驱动差异导致漏判
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
