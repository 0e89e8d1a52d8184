package jisperr

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestErrorMessageFormatting(t *testing.T) {
	e := New(KindStackUnderflow, "add_two_top needs %d elements", 2)
	if !strings.Contains(e.Error(), "StackUnderflow") {
		t.Fatalf("expected kind in message, got %q", e.Error())
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(KindIO, cause, "load failed")
	if !errors.Is(e, cause) {
		t.Fatalf("expected errors.Is to find the wrapped cause")
	}
}

func TestAsStructShape(t *testing.T) {
	e := New(KindPathNotFound, "no such path").WithDetails(map[string]any{
		"expected": 1.0,
		"actual":   2.0,
	})
	s := e.AsStruct()
	if s["error"] != true || s["kind"] != "PathNotFound" {
		t.Fatalf("unexpected struct shape: %#v", s)
	}
	details, ok := s["details"].(map[string]any)
	if !ok || details["expected"] != 1.0 {
		t.Fatalf("unexpected details: %#v", s)
	}
}

func TestReportFatalIncludesSnapshot(t *testing.T) {
	var buf bytes.Buffer
	e := New(KindInternal, "something broke")
	ReportFatal(&buf, nil, e, map[string]any{"stack": []any{}})
	out := buf.String()
	if !strings.Contains(out, "JISP fatal error") || !strings.Contains(out, "\"stack\"") {
		t.Fatalf("expected banner and snapshot, got: %s", out)
	}
}

func TestPositionFromOffsetFirstLine(t *testing.T) {
	pos := PositionFromOffset([]byte(`{"a": bad}`), 6)
	if pos.Line != 1 || pos.Column != 7 {
		t.Fatalf("expected line 1 col 7, got %+v", pos)
	}
}

func TestPositionFromOffsetAcrossLines(t *testing.T) {
	src := []byte("{\n  \"a\": 1,\n  \"b\": bad\n}")
	offset := int64(strings.Index(string(src), "bad"))
	pos := PositionFromOffset(src, offset)
	if pos.Line != 3 {
		t.Fatalf("expected line 3, got %+v", pos)
	}
}

func TestReportFatalIncludesPosition(t *testing.T) {
	var buf bytes.Buffer
	e := New(KindParse, "unexpected token").WithPosition(Position{Offset: 6, Line: 1, Column: 7})
	ReportFatal(&buf, nil, e, nil)
	out := buf.String()
	if !strings.Contains(out, "line 1") || !strings.Contains(out, "col 7") {
		t.Fatalf("expected position in banner, got: %s", out)
	}
}
