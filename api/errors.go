package api

import (
	"fmt"

	"github.com/dquimper/rscribd/faults"
)

// Well-known remote failure codes shared across platform methods.
const (
	CodeUnauthorizedKey     = 401
	CodeRequiredParameter   = 601
	CodeInvalidParameter    = 602
	CodeInsufficientAccess  = 611
	CodeDocumentNotFound    = 612
	CodeInvalidSession      = 613
	CodeLoginFailed         = 614
	CodeUsernameUnavailable = 615
)

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func transportError(message string, cause error) error {
	return faults.NewTypedError(faults.TransportError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}

// classifyRemoteError maps a <rsp stat="fail"> error code to a fault
// category, keeping the numeric code available through faults.RemoteCode.
func classifyRemoteError(code int, message string) error {
	resolvedMessage := message
	if resolvedMessage == "" {
		resolvedMessage = fmt.Sprintf("remote call failed with code %d", code)
	}

	category := faults.RemoteError
	switch code {
	case CodeUnauthorizedKey, CodeInsufficientAccess, CodeInvalidSession, CodeLoginFailed:
		category = faults.AuthError
	case CodeDocumentNotFound:
		category = faults.NotFoundError
	case CodeRequiredParameter, CodeInvalidParameter, CodeUsernameUnavailable:
		category = faults.ValidationError
	}

	return &faults.TypedError{
		Category: category,
		Message:  resolvedMessage,
		Code:     code,
	}
}

func classifyStatusError(statusCode int, body []byte) error {
	message := fmt.Sprintf("remote request failed with status %d: %s", statusCode, summarizeBody(body))

	switch statusCode {
	case 401, 403:
		return faults.NewTypedError(faults.AuthError, message, nil)
	case 404:
		return faults.NewTypedError(faults.NotFoundError, message, nil)
	}
	return transportError(message, nil)
}
