package pagination

import (
	"testing"
	"time"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default for negative, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected cap, got %d", got)
	}
	if got := NormalizeLimit(40); got != 40 {
		t.Fatalf("expected passthrough, got %d", got)
	}
	if got := LimitWithBuffer(40); got != 41 {
		t.Fatalf("expected buffered limit, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{
		CreatedOn: time.Date(2025, 6, 1, 10, 30, 0, 123456789, time.UTC),
		ID:        9123,
	}

	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out == nil {
		t.Fatalf("expected cursor")
	}
	if !out.CreatedOn.Equal(in.CreatedOn) {
		t.Fatalf("timestamp mismatch: %v vs %v", out.CreatedOn, in.CreatedOn)
	}
	if out.ID != in.ID {
		t.Fatalf("id mismatch: %d vs %d", out.ID, in.ID)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	c, err := ParseCursor("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil cursor for blank input")
	}
}

func TestParseCursorInvalid(t *testing.T) {
	if _, err := ParseCursor("!!!not-base64!!!"); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := ParseCursor("bm8tcGlwZQ"); err == nil {
		t.Fatalf("expected format error")
	}
}
