package types

import "errors"

// ErrInvalidRequest marks requests that fail field validation.
var ErrInvalidRequest = errors.New("invalid request")
