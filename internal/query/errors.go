package query

import "errors"

var (
	// ErrInvalidQuery is returned when a predicate cannot be compiled, e.g. a
	// range comparison on an encrypted tag.
	ErrInvalidQuery = errors.New("invalid wallet query")

	// ErrMalformedWQL is returned by [Parse] for documents that are not valid
	// WQL.
	ErrMalformedWQL = errors.New("malformed wql document")
)
