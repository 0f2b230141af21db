package hook

import (
	"fmt"

	"github.com/glorpus-work/goup/pkg/errors"
)

// ErrHookTypeEmpty is returned when a hook type is empty.
var ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty: %w", errors.ErrValidation)
