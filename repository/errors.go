package repository

import (
	goerrors "github.com/goliatone/go-errors"
)

// CategoryStorage marks failures raised by the underlying data store.
var CategoryStorage = goerrors.CategoryInternal.Extend("storage")

// TextCodeStorage tags every storage error raised by this module.
const TextCodeStorage = "ERR-DB"

// Storage wraps a data store failure with the entity and operation that
// produced it. It returns nil when err is nil. Validation and storage errors
// are returned as they are.
func Storage(err error, entity, op string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsValidation(err) || IsStorage(err) {
		return err
	}
	return goerrors.Wrap(err, CategoryStorage, entity+"."+op).WithTextCode(TextCodeStorage)
}

// IsStorage reports whether err is, or wraps, a storage failure.
func IsStorage(err error) bool {
	return goerrors.HasCategory(err, CategoryStorage)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return goerrors.IsValidation(err)
}

// WithMetadata attaches key/value context to a go-errors error. Other errors
// are returned unchanged.
func WithMetadata(err error, meta map[string]any) error {
	var e *goerrors.Error
	if goerrors.As(err, &e) {
		return e.WithMetadata(meta)
	}
	return err
}
