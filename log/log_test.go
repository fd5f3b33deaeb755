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

package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestTerminalHandlerWritesMessageAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(NewTerminalHandler(&buf, LevelInfo))
	l.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("output missing attr: %q", out)
	}
	if !strings.Contains(out, "INFO") {
		t.Errorf("output missing level: %q", out)
	}
}

func TestTerminalHandlerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(NewTerminalHandler(&buf, LevelInfo))
	l.Debug("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected nothing logged below configured level, got %q", buf.String())
	}
}

func TestWithAttachesPersistentContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(NewTerminalHandler(&buf, LevelInfo))
	child := l.With("component", "sync")
	child.Info("started")

	out := buf.String()
	if !strings.Contains(out, "component=sync") {
		t.Errorf("child logger did not attach persistent attrs: %q", out)
	}
}

func TestWriteAttachesCallerAttr(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(NewTerminalHandler(&buf, LevelInfo))
	l.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "caller=") {
		t.Errorf("output missing caller attr: %q", out)
	}
	if !strings.Contains(out, "log_test.go") {
		t.Errorf("caller attr does not point at the call site: %q", out)
	}
}

func TestJSONHandlerProducesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(JSONHandler(&buf))
	l.Info("hello", "n", 1)

	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("expected JSON object, got %q", out)
	}
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("missing msg field: %q", out)
	}
}

func TestLevelString(t *testing.T) {
	for _, tc := range []struct {
		level slog.Level
		want  string
	}{
		{LevelTrace, "TRACE"},
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelCrit, "CRIT"},
	} {
		if got := strings.TrimSpace(levelString(tc.level)); got != tc.want {
			t.Errorf("levelString(%v) = %q, want %q", tc.level, got, tc.want)
		}
	}
}
