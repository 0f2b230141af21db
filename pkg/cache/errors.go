package cache

import (
	"fmt"

	"github.com/glorpus-work/goup/pkg/errors"
)

// Common cache errors.
var (
	// ErrCacheClean is returned when there's an error cleaning the cache.
	ErrCacheClean = fmt.Errorf("failed to clean cache: %w", errors.ErrIO)

	// ErrCacheDirectory is returned when there's an error with the cache directory.
	ErrCacheDirectory = fmt.Errorf("invalid cache directory: %w", errors.ErrValidation)
)
