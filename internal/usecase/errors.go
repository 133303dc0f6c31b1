package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrAllProvidersFailed is the only provider error surfaced to callers:
	// every configured adapter was skipped or failed for one logical query.
	ErrAllProvidersFailed = errors.New("all golf data providers failed")
)
