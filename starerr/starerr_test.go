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

package starerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrappedSentinelMatchesErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("reading header: %w", ErrKeyNotFound)
	if !errors.Is(wrapped, ErrKeyNotFound) {
		t.Error("wrapped ErrKeyNotFound should satisfy errors.Is")
	}
	if errors.Is(wrapped, ErrDecodeFailed) {
		t.Error("wrapped ErrKeyNotFound should not satisfy errors.Is against an unrelated sentinel")
	}
}

func TestIsInvariantViolation(t *testing.T) {
	iv := NewInvariantViolation("accumulator.Append", "leaf count went negative")
	if !IsInvariantViolation(iv) {
		t.Error("NewInvariantViolation result should be detected by IsInvariantViolation")
	}
	if IsInvariantViolation(ErrKeyNotFound) {
		t.Error("a plain sentinel must not be reported as an invariant violation")
	}

	wrapped := fmt.Errorf("commit failed: %w", iv)
	if !IsInvariantViolation(wrapped) {
		t.Error("a wrapped InvariantViolation should still be detected")
	}
}

func TestInvariantViolationMessage(t *testing.T) {
	err := NewInvariantViolation("reachability.Reindex", "interval overflow")
	want := "starerr: invariant violation in reachability.Reindex: interval overflow"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
