package models

import "errors"

// Error kinds raised by the service layer. Handlers match on these with
// errors.Is to pick the HTTP status; everything else is treated as an
// unexpected storage failure.
var (
	// ErrNotFound signals that the addressed entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey signals a natural-key collision (SKU, barcode,
	// category name, supplier email, username).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrReferenceNotFound signals that a referenced category or supplier
	// id does not resolve.
	ErrReferenceNotFound = errors.New("referenced entity not found")

	// ErrReferenceInUse signals a deletion rejected because products still
	// reference the entity.
	ErrReferenceInUse = errors.New("entity is still referenced by products")

	// ErrInvalidArgument signals a rejected value, such as a negative
	// stock quantity.
	ErrInvalidArgument = errors.New("invalid argument")
)
