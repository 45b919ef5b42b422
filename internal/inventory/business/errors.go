package business

import "errors"

var (
	// ErrDataUnavailable means a collaborator query failed before anything was
	// mutated; the whole run aborts.
	ErrDataUnavailable = errors.New("inventory data unavailable")

	// ErrValidation marks a malformed match candidate. The item is skipped,
	// the rest of the batch continues.
	ErrValidation = errors.New("invalid match candidate")

	// ErrMergeConflict means the post-redirect reference count was nonzero, so
	// the product was left in place.
	ErrMergeConflict = errors.New("merge safety check failed")

	// ErrPersistence means an audit write failed; the merge aborts before any
	// deletion, since an undurable audit record makes deletion unsafe.
	ErrPersistence = errors.New("audit persistence failed")
)
