package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNotFound      = errors.New("category not found")
	ErrMissingID     = errors.New("missing productId")
	ErrMissingName   = errors.New("missing category name")
	ErrShapeConflict = errors.New("category has both products and subcategories")
	ErrProductsLost  = errors.New("products lost during consolidation")
)

// StoreError wraps errors from a catalog store backend.
type StoreError struct {
	Backend string
	Path    string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("store error (%s) at %s: %v", e.Backend, e.Path, e.Err)
	}
	return fmt.Sprintf("store error (%s): %v", e.Backend, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ExtractError wraps errors raised while reading a saved page.
type ExtractError struct {
	Dir string
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract error for %s: %v", e.Dir, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }
