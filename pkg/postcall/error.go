package postcall

import "errors"

// ErrNoProcessor indicates a pool was configured without a processor.
var ErrNoProcessor = errors.New("worker pool requires a processor")
