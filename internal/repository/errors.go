// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure scenarios
// without string matching. For example, ErrForbidden indicates that
// the current user is not authorized to operate on a resource owned
// by someone else, while ErrAlreadyApplied signals a duplicate
// backline application for the same identity and type.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of
// conflicting state, such as deciding on a show that is no longer
// pending. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrShowNotFound is returned when a show referenced by ID does not
// exist. Speculative membership and eligibility reads degrade to
// false instead of surfacing this error.
var ErrShowNotFound = errors.New("show not found")

// ErrShowNotActive is returned when sales data is requested for a
// show that has not activated. Pending shows never expose sales
// figures; they have none by construction.
var ErrShowNotActive = errors.New("show not active")

// ErrNegotiationClosed is returned when a venue tries to commit terms
// on a show whose negotiation has already been submitted. The
// negotiation workflow is not restartable.
var ErrNegotiationClosed = errors.New("negotiation already submitted")

// ErrAlreadyApplied is returned when the same identity+type pair
// already holds a live backline application on a show.
var ErrAlreadyApplied = errors.New("application already exists")
