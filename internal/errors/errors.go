package errors

import "fmt"

// ErrorCode represents a Listfy error code.
type ErrorCode string

const (
	ErrValidation        ErrorCode = "VALIDATION"         // bad user input
	ErrNotFound          ErrorCode = "NOT_FOUND"          // unknown list or item id
	ErrState             ErrorCode = "STATE"              // operation disallowed in current state
	ErrRemoteUnavailable ErrorCode = "REMOTE_UNAVAILABLE" // network or HTTP failure
	ErrProductNotFound   ErrorCode = "PRODUCT_NOT_FOUND"  // remote confirms no product record
	ErrInternal          ErrorCode = "INTERNAL"           // unexpected failure
)

// ListfyError represents a structured error with code and details.
type ListfyError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ListfyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidation creates an error for invalid user input.
func NewValidation(msg string) *ListfyError {
	return &ListfyError{
		Code:    ErrValidation,
		Message: msg,
	}
}

// NewListNotFound creates an error for an unknown list id.
func NewListNotFound(listID string) *ListfyError {
	return &ListfyError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("list not found: %s", listID),
		Details: map[string]any{"list_id": listID},
	}
}

// NewItemNotFound creates an error for an unknown item id within a list.
func NewItemNotFound(listID, itemID string) *ListfyError {
	return &ListfyError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("item not found: %s (list %s)", itemID, listID),
		Details: map[string]any{"list_id": listID, "item_id": itemID},
	}
}

// NewState creates an error for an operation disallowed in the current state.
func NewState(msg string) *ListfyError {
	return &ListfyError{
		Code:    ErrState,
		Message: msg,
	}
}

// NewRemoteUnavailable creates an error for a failed remote lookup
// (timeout, connection failure, or a non-2xx response other than 404).
func NewRemoteUnavailable(err error) *ListfyError {
	msg := "product lookup unavailable"
	if err != nil {
		msg = fmt.Sprintf("product lookup unavailable: %v", err)
	}
	return &ListfyError{
		Code:    ErrRemoteUnavailable,
		Message: msg,
	}
}

// NewProductNotFound creates an error for a barcode with no product record.
func NewProductNotFound(barcode string) *ListfyError {
	return &ListfyError{
		Code:    ErrProductNotFound,
		Message: fmt.Sprintf("no product record for barcode %s", barcode),
		Details: map[string]any{"barcode": barcode},
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *ListfyError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ListfyError{
		Code:    ErrInternal,
		Message: msg,
	}
}

// Is checks if an error is a ListfyError with the given code.
func Is(err error, code ErrorCode) bool {
	if lErr, ok := err.(*ListfyError); ok {
		return lErr.Code == code
	}
	return false
}
