// Package errors provides structured error handling with error codes for the portal.
//
// Services return *Error values carrying an ErrorCode; the HTTP layer turns
// the code into a status with MapErrorCodeToHTTPStatus and decides which
// public message to render. Any error that is not an *Error is treated as
// ErrCodeInternal.
//
// # Basic Usage
//
//	import "github.com/tendant/ministry-portal/pkg/errors"
//
//	err := errors.Forbidden("not an administrator")
//	err := errors.MissingRequired("contactId", "contact id is required")
//	err := errors.InternalWrap(dbErr, "failed to load contact")
//
// # Inspection
//
//	if errors.IsCode(err, errors.ErrCodeForbidden) {
//		// ...
//	}
//	status := errors.MapErrorCodeToHTTPStatus(errors.GetCode(err))
package errors
