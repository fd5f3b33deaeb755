// Copyright 2026 The starcoin-core Authors
// This file is part of the starcoin-core library.
//
// The starcoin-core library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The starcoin-core library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the starcoin-core library. If not, see <http://www.gnu.org/licenses/>.

// Package starerr centralizes the error taxonomy described in spec.md §7:
// invalid input, not found, capacity exhaustion, verification failure,
// transient I/O, and invariant violation. Each kind is a sentinel that
// call sites wrap with fmt.Errorf("...: %w", ErrX) and test with errors.Is.
package starerr

import "errors"

var (
	// ErrKeyNotFound is returned by TypedStore reads that miss.
	ErrKeyNotFound = errors.New("starerr: key not found")
	// ErrKeyAlreadyExists is returned by writes that must not overwrite.
	ErrKeyAlreadyExists = errors.New("starerr: key already exists")
	// ErrDecodeFailed marks a malformed on-disk or on-wire encoding.
	ErrDecodeFailed = errors.New("starerr: decode failed")
	// ErrEncodeFailed marks a value that could not be encoded.
	ErrEncodeFailed = errors.New("starerr: encode failed")
	// ErrCFNotExist is returned when a schema names an unregistered CF.
	ErrCFNotExist = errors.New("starerr: column family does not exist")

	// ErrParentNotFound is the BlockDAG's "unknown parent" failure: fatal
	// for the block being inserted, but recoverable for the caller, which
	// should hold it in a DagSyncBlock pending backfill.
	ErrParentNotFound = errors.New("starerr: parent not found")

	// ErrVerificationFailed covers root mismatches and signature mismatches.
	// Fatal for the task that raised it; never retried against the same peer
	// without a reputation penalty.
	ErrVerificationFailed = errors.New("starerr: verification failed")

	// ErrTransient marks a retryable I/O or timeout failure.
	ErrTransient = errors.New("starerr: transient failure")

	// ErrTaskCancelled is returned by a sync stage that observed cancellation.
	ErrTaskCancelled = errors.New("starerr: task cancelled")

	// ErrServiceStopped is returned by requests made to a stopped service.
	ErrServiceStopped = errors.New("starerr: service stopped")
)

// InvariantViolation signals programmer error: a data-structure invariant
// that must always hold was found broken (e.g. a negative subtree size, or a
// commit producing a root inconsistent with its inputs). Per spec.md §7 this
// must never be reachable from untrusted input; the only correct handling is
// to escalate to process abort (see log.Crit in package log).
type InvariantViolation struct {
	Where string
	Msg   string
}

func (e *InvariantViolation) Error() string {
	return "starerr: invariant violation in " + e.Where + ": " + e.Msg
}

// NewInvariantViolation constructs an InvariantViolation error.
func NewInvariantViolation(where, msg string) error {
	return &InvariantViolation{Where: where, Msg: msg}
}

// IsInvariantViolation reports whether err (or one of its wrapped causes) is
// an InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
