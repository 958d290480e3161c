package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidSessionID = errors.New("invalid session id")
	ErrRateLimited      = errors.New("too many cart changes")
)

type LineNotFoundError struct {
	Index int
}

func (e LineNotFoundError) Error() string {
	return fmt.Sprintf("cart line not found: %d", e.Index)
}

type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrRateLimited, e.RetryAfter)
}

func (e RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
