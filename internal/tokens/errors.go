package tokens

import (
	"errors"
	"fmt"
	"strings"
)

// Resolution and loading errors.
var (
	ErrSourceMissing   = errors.New("token source missing")
	ErrMalformedSource = errors.New("malformed token source")
	ErrTokenNotFound   = errors.New("token not found")
	ErrCyclicAlias     = errors.New("cyclic alias")
)

// ResolveError describes a failed resolution. Path is the reference that
// could not be resolved; Chain lists every path followed to reach it.
type ResolveError struct {
	Token string
	Path  string
	Chain []string
	Err   error
}

func (e *ResolveError) Error() string {
	if len(e.Chain) > 1 {
		return fmt.Sprintf("%v: %s (via %s)", e.Err, e.Path, strings.Join(e.Chain, " -> "))
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Path)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
