// SPDX-License-Identifier: Apache-2.0

package models

import (
	"fmt"
	"runtime"
)

// ErrorKind classifies a precondition failure in the change pipeline.
// The set is stable; diagnostic tooling keys off it.
type ErrorKind int

const (
	// Pipeline-level.
	KindLookupFailed ErrorKind = iota
	KindLocalServiceDestroyed
	KindRootMissing

	// Outbound Add.
	KindEmptyTag
	KindEntryAlreadyExists
	KindCouldNotCreate
	KindSetPredecessorFailed
	KindCreateUnknown

	// Outbound Update.
	KindUpdateEmptyTag
	KindUpdateBadEntry
	KindUpdateDeletedEntry
	KindEncrMissingKeyNigoriMismatch
	KindEncrHaveKeyNigoriMatches
	KindEncrMissingKeyNigoriMatches
	KindEncrHaveKeyNigoriMismatch

	// Outbound Delete.
	KindDeleteLocalEmptyTag
	KindDeleteBadEntry
	KindDeleteAlreadyDeleted
	KindDeleteUndecryptable
	KindDeletePrecondition
	KindDeleteUnknown

	// Sanity.
	KindUnsetChange
	KindUnspecifiedType
)

// Location records the source position where an error was constructed.
// Kept as data (not just a log field) so crash tooling can distinguish emit
// sites even when messages are similar.
type Location struct {
	File string
	Line int
	Func string
}

// FromHere captures the caller's source location.
func FromHere() Location {
	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		return Location{}
	}
	loc := Location{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.Func = fn.Name()
	}
	return loc
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// SyncError is the uniform error record of the pipeline: where it was
// raised, what kind of failure it is, a human-readable message, and the
// datatype it is scoped to. Every kind is unrecoverable at datatype scope.
//
// The zero value is "not set"; use IsSet to distinguish.
type SyncError struct {
	location Location
	kind     ErrorKind
	message  string
	dataType ModelType

	set bool
}

// NewSyncError builds a set error record. location should be captured at the
// emit site with FromHere so distinct sites stay distinguishable.
func NewSyncError(location Location, kind ErrorKind, message string, dataType ModelType) SyncError {
	return SyncError{
		location: location,
		kind:     kind,
		message:  message,
		dataType: dataType,
		set:      true,
	}
}

// IsSet reports whether the record carries an actual error.
func (e SyncError) IsSet() bool { return e.set }

// Location returns where the error was raised.
func (e SyncError) Location() Location { return e.location }

// Kind returns the taxonomy classification.
func (e SyncError) Kind() ErrorKind { return e.kind }

// Message returns the human-readable description.
func (e SyncError) Message() string { return e.message }

// DataType returns the datatype the error is scoped to.
func (e SyncError) DataType() ModelType { return e.dataType }

// Error implements the error interface.
func (e SyncError) Error() string {
	return fmt.Sprintf("%s, %s sync error: %s", e.location, e.dataType, e.message)
}
