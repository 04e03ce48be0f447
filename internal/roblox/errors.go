package roblox

import (
	"errors"
	"fmt"
)

// Sentinel errors for thumbnails API operations.
var (
	ErrRateLimited = errors.New("roblox: rate limited by server")
	ErrBadRequest  = errors.New("roblox: bad request")
	ErrServer      = errors.New("roblox: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op     string // Operation: "lookup"
	Assets int    // Number of asset IDs in the failed request
	Err    error
}

func (e *Error) Error() string {
	if e.Assets > 0 {
		return fmt.Sprintf("roblox %s [%d assets]: %v", e.Op, e.Assets, e.Err)
	}
	return fmt.Sprintf("roblox %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op string, assets int, err error) error {
	return &Error{
		Op:     op,
		Assets: assets,
		Err:    err,
	}
}
