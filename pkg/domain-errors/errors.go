// Package domainerrors defines the coded error type shared by all domain
// packages. Services return these; the transport layer maps codes to HTTP
// statuses without inspecting message text.
//
// Usage:
//
//	return dErrors.New(dErrors.CodeInsufficientLiquidity, "payment exceeds cash on hand")
//	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load estate")
//	if dErrors.HasCode(err, dErrors.CodeEstateFrozen) { ... }
//
// For infrastructure facts (record not found, version conflict) stores return
// pkg/platform/sentinel errors instead; services translate those here.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for programmatic handling.
type Code string

const (
	// Generic validation and state codes.
	CodeInvalidInput       Code = "invalid_input"
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInvalidTransition  Code = "invalid_transition"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeForbidden          Code = "forbidden"
	CodeUnauthorized       Code = "unauthorized"
	CodeInternal           Code = "internal"
	CodeTimeout            Code = "timeout"

	// Estate administration codes. Each corresponds to a distinct failure the
	// caller must be able to distinguish (spec: readiness and statutory-order
	// violations carry enough context to render a precise message).
	CodeEstateFrozen           Code = "estate_frozen"
	CodeInsufficientLiquidity  Code = "insufficient_liquidity"
	CodeStatutoryOrder         Code = "statutory_order_violation"
	CodeEstateInsolvent        Code = "estate_insolvent"
	CodeTaxNotCleared          Code = "tax_not_cleared"
	CodeUnresolvedDisputes     Code = "unresolved_disputes"
	CodeConcurrencyConflict    Code = "concurrency_conflict"
	CodeDistributionNotAllowed Code = "distribution_not_allowed"
)

// DomainError is the error value carried between services and transports.
// Details hold structured context (debt id, blocking creditor, amounts) so
// messages stay renderable without string parsing.
type DomainError struct {
	Code    Code
	Message string
	Err     error
	Details map[string]string
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

// New builds a DomainError with the given code and message.
func New(code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Newf builds a DomainError with a formatted message.
func Newf(code Code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// WithDetail returns the same error with one structured context entry added.
// The receiver is returned to allow chaining at construction sites.
func (e *DomainError) WithDetail(key, value string) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Detail reads a structured context entry; empty string when absent.
func (e *DomainError) Detail(key string) string {
	return e.Details[key]
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability in handlers.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, or CodeInternal when err is not a
// DomainError.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps an error's code to an HTTP status. Unknown errors map to
// 500 so nothing leaks as a false client error.
func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidInput, CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeEstateFrozen, CodeTaxNotCleared:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvariantViolation, CodeInvalidTransition,
		CodeConcurrencyConflict:
		return http.StatusConflict
	case CodeInsufficientLiquidity, CodeStatutoryOrder, CodeEstateInsolvent,
		CodeUnresolvedDisputes, CodeDistributionNotAllowed:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
