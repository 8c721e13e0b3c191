package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes for domain failures
const (
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeDuplicateRelation = "DUPLICATE_RELATION"
)

// AuthorizationDenied is returned when the permission engine refuses an action.
type AuthorizationDenied struct {
	Reason string
}

func (e *AuthorizationDenied) Error() string {
	return "not allowed: " + e.Reason
}

// InvalidTransition is returned when a lifecycle change does not apply to the
// target's current state.
type InvalidTransition struct {
	Reason string
}

func (e *InvalidTransition) Error() string {
	return e.Reason
}

// ResourceNotFound names the resource that does not exist.
type ResourceNotFound struct {
	Resource string
}

func (e *ResourceNotFound) Error() string {
	return e.Resource + " not found"
}

// DuplicateRelation is returned when a membership or assignment already exists.
type DuplicateRelation struct {
	Relation string
}

func (e *DuplicateRelation) Error() string {
	return e.Relation + " already exists"
}

// DirectoryFailure wraps an unexpected storage fault. Its message never
// includes the cause; Unwrap exposes it for server-side logging.
type DirectoryFailure struct {
	Op  string
	Err error
}

func (e *DirectoryFailure) Error() string {
	return "directory operation failed"
}

func (e *DirectoryFailure) Unwrap() error {
	return e.Err
}

// Detail returns the operation and cause for logs.
func (e *DirectoryFailure) Detail() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func Denied(reason string) error {
	return &AuthorizationDenied{Reason: reason}
}

func Transition(reason string) error {
	return &InvalidTransition{Reason: reason}
}

func Missing(resource string) error {
	return &ResourceNotFound{Resource: resource}
}

func Duplicate(relation string) error {
	return &DuplicateRelation{Relation: relation}
}

func Directory(op string, err error) *DirectoryFailure {
	return &DirectoryFailure{Op: op, Err: err}
}

// Respond writes the response matching a domain failure. Unknown errors
// become a generic 500 so no internal detail reaches the client.
func Respond(c *gin.Context, err error) {
	var (
		denied     *AuthorizationDenied
		transition *InvalidTransition
		notFound   *ResourceNotFound
		duplicate  *DuplicateRelation
	)

	switch {
	case stderrors.As(err, &denied):
		RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeInsufficientPermissions, denied.Reason))
	case stderrors.As(err, &transition):
		RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeInvalidTransition, transition.Reason))
	case stderrors.As(err, &notFound):
		NotFound(c, notFound.Error())
	case stderrors.As(err, &duplicate):
		RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeDuplicateRelation, duplicate.Error()))
	default:
		InternalError(c, "")
	}
}
