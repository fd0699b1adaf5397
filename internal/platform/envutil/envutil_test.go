package envutil

import (
	"testing"
	"time"
)

func TestStr(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_STR", "  value  ")
	if got := Str("ENVUTIL_TEST_STR", "def"); got != "value" {
		t.Fatalf("unexpected value: got=%q", got)
	}
	if got := Str("ENVUTIL_TEST_UNSET", "def"); got != "def" {
		t.Fatalf("unexpected default: got=%q", got)
	}
}

func TestInt(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_INT", "42")
	if got := Int("ENVUTIL_TEST_INT", 7); got != 42 {
		t.Fatalf("unexpected value: got=%d", got)
	}
	t.Setenv("ENVUTIL_TEST_INT", "not a number")
	if got := Int("ENVUTIL_TEST_INT", 7); got != 7 {
		t.Fatalf("bad value must fall back: got=%d", got)
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_DUR", "150ms")
	if got := Duration("ENVUTIL_TEST_DUR", time.Second); got != 150*time.Millisecond {
		t.Fatalf("unexpected value: got=%v", got)
	}
	t.Setenv("ENVUTIL_TEST_DUR", "soon")
	if got := Duration("ENVUTIL_TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("bad value must fall back: got=%v", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"1": true, "true": true, "YES": true, "0": false, "off": false}
	for raw, want := range cases {
		t.Setenv("ENVUTIL_TEST_BOOL", raw)
		if got := Bool("ENVUTIL_TEST_BOOL", !want); got != want {
			t.Fatalf("unexpected value for %q: got=%v want=%v", raw, got, want)
		}
	}
	t.Setenv("ENVUTIL_TEST_BOOL", "maybe")
	if got := Bool("ENVUTIL_TEST_BOOL", true); got != true {
		t.Fatalf("bad value must fall back")
	}
}
