package arith

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrNotInteger    = errors.New("not a base-10 integer")
	ErrOverflow      = errors.New("integer overflow")
	ErrUnknownPolicy = errors.New("unknown overflow policy")
)
