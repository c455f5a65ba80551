package menu

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when the same ID appears twice in a tree or list.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrMissingParent is returned when a flat item references an unknown parent.
	ErrMissingParent = errors.New("missing parent")

	// ErrParentNotFound is returned when a node is added under an unknown parent.
	ErrParentNotFound = errors.New("parent not found")

	// ErrCircularReference is returned when traversal revisits a node.
	ErrCircularReference = errors.New("circular reference")

	// ErrItemNotFound is returned by lookups that must resolve an ID.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidIndentation is returned when the indentation unit is not positive.
	ErrInvalidIndentation = errors.New("indentation must be positive")
)

// DuplicateIDError reports an ID that occurs more than once. It wraps
// ErrDuplicateID.
type DuplicateIDError struct {
	ID ID
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate id %s found", e.ID)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// MissingParentError reports a flat item whose ParentID names no item in the
// list being rebuilt. It wraps ErrMissingParent.
type MissingParentError struct {
	ID       ID
	ParentID ID
}

func (e *MissingParentError) Error() string {
	return fmt.Sprintf("parent with id %s not found for id %s", e.ParentID, e.ID)
}

func (e *MissingParentError) Unwrap() error { return ErrMissingParent }

// ParentNotFoundError reports an Add under a parent that is not in the tree.
// The tree is left unchanged. It wraps ErrParentNotFound.
type ParentNotFoundError struct {
	ParentID ID
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("parent with id %s does not exist", e.ParentID)
}

func (e *ParentNotFoundError) Unwrap() error { return ErrParentNotFound }

// CircularReferenceError reports a node reached twice during traversal, or
// flat items whose parent links never lead to a root. It wraps
// ErrCircularReference.
type CircularReferenceError struct {
	ID ID
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular reference at id %s", e.ID)
}

func (e *CircularReferenceError) Unwrap() error { return ErrCircularReference }

// ItemNotFoundError reports an ID that a lookup had to resolve but could not.
// It wraps ErrItemNotFound.
type ItemNotFoundError struct {
	ID ID
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item with id %s not found", e.ID)
}

func (e *ItemNotFoundError) Unwrap() error { return ErrItemNotFound }

// InvariantError describes a node whose stored Level, Order or ParentID does
// not match its position in the tree.
type InvariantError struct {
	ID    ID
	Field string
	Want  string
	Got   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("node %s: %s is %s, want %s", e.ID, e.Field, e.Got, e.Want)
}
