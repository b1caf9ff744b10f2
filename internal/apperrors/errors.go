// Package apperrors classifies failures of the listing pipeline so callers
// can branch on the cause instead of the message.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a failure.
type Kind int

const (
	// KindInternal is anything that was not classified.
	KindInternal Kind = iota
	KindInvalidIdentifier
	KindInvalidPayload
	KindInvalidImageData
	KindMalformedEncoding
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindInvalidIdentifier:
		return "invalid identifier format"
	case KindInvalidPayload:
		return "invalid payload"
	case KindInvalidImageData:
		return "invalid image data"
	case KindMalformedEncoding:
		return "malformed encoding"
	case KindNotFound:
		return "not found"
	case KindStorage:
		return "storage failure"
	default:
		return "internal"
	}
}

// Code is the stable machine readable code shown to clients.
func (k Kind) Code() string {
	switch k {
	case KindInvalidIdentifier:
		return "E_INVALID_UUID"
	case KindInvalidPayload:
		return "E_INVALID_PAYLOAD"
	case KindInvalidImageData:
		return "E_INVALID_IMAGE"
	case KindMalformedEncoding:
		return "E_MALFORMED_ENCODING"
	case KindNotFound:
		return "E_NOT_FOUND"
	default:
		return "E_INTERNAL"
	}
}

// Clientside reports whether the failure was caused by the caller's input.
func (k Kind) Clientside() bool {
	switch k {
	case KindInvalidIdentifier, KindInvalidPayload, KindInvalidImageData, KindMalformedEncoding, KindNotFound:
		return true
	}
	return false
}

// NoIndex marks an error that is not attributable to a single image.
const NoIndex = -1

// Error is the structured error type used across the module.
type Error struct {
	Kind  Kind
	Op    string // operation name
	Index int    // zero based image index, NoIndex when not per item
	Err   error
}

func (e *Error) Error() string {
	if e.Index != NoIndex {
		return fmt.Sprintf("%s: image %d: %v", e.Op, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error that is not tied to an image.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Index: NoIndex, Err: err}
}

// Item creates an Error attributed to the image at index.
func Item(kind Kind, op string, index int, err error) *Error {
	return &Error{Kind: kind, Op: op, Index: index, Err: err}
}

// Wrap classifies err as kind unless it already carries a classification.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return New(kind, op, err)
}

// AtIndex attributes an already classified error to the image at index.
// Unclassified errors become KindInternal.
func AtIndex(err error, index int) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		cp := *ae
		cp.Index = index
		return &cp
	}
	return Item(KindInternal, "process image", index, err)
}

// KindOf returns the classification of err, KindInternal when there is none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IndexOf returns the image index carried by err, or NoIndex.
func IndexOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Index
	}
	return NoIndex
}

// Is reports whether err belongs to kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Sentinel errors for common failure modes.
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrEmptyImage      = errors.New("empty image data")
)
