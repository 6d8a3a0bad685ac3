package extract

import "github.com/cockroachdb/errors"

var (
	// ErrScan marks a run where no class matched the inclusion patterns.
	ErrScan = errors.New("no classes matched the inclusion patterns")

	// ErrIntrospection marks a matched class whose metadata could not be read.
	ErrIntrospection = errors.New("class metadata cannot be read")
)
