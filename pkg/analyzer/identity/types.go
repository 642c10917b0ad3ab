package identity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSubjectNotFound is returned when no row carries the requested identity.
var ErrSubjectNotFound = errors.New("subject not found")

// MissingColumnError reports a required identification column absent from a
// table. The table cannot be used at all when this happens.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// NotFoundError carries the unknown identity together with the closest known
// identities.
type NotFoundError struct {
	Identity    string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s: %q", ErrSubjectNotFound, e.Identity)
	}
	return fmt.Sprintf("%s: %q (did you mean %s?)", ErrSubjectNotFound, e.Identity, strings.Join(quoteAll(e.Suggestions), ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrSubjectNotFound
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
