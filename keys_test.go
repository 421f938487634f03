package asidecache

import (
	"errors"
	"strings"
	"testing"
)

func TestNewKey(t *testing.T) {
	k, err := NewKey("courses", "123")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	if k.String() != "courses:123" || k.Namespace() != "courses" {
		t.Fatalf("key = %q ns = %q", k.String(), k.Namespace())
	}

	k, err = NewKey("Courses", "List", "ALL")
	if err != nil {
		t.Fatalf("NewKey with qualifier: %v", err)
	}
	if k.String() != "courses:list:all" {
		t.Fatalf("keys must normalize to lowercase, got %q", k.String())
	}
}

func TestNewKeyRejectsBadSegments(t *testing.T) {
	cases := []struct {
		ns, id string
		qual   []string
	}{
		{"", "1", nil},
		{"courses", "", nil},
		{"cour:ses", "1", nil},
		{"courses", "1:2", nil},
		{"courses", "1", []string{"a:b"}},
		{"courses", "*", nil},
		{"courses", "1", []string{"a", "b"}},
	}
	for _, tc := range cases {
		if _, err := NewKey(tc.ns, tc.id, tc.qual...); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("NewKey(%q,%q,%v): err=%v, want ErrInvalidKey", tc.ns, tc.id, tc.qual, err)
		}
	}
}

// Every emitted key matches exactly its own namespace's pattern, never
// another's.
func TestPatternIsolation(t *testing.T) {
	p, err := Pattern("course")
	if err != nil {
		t.Fatalf("Pattern: %v", err)
	}
	if p != "course:*" {
		t.Fatalf("pattern = %q", p)
	}

	prefix := strings.TrimSuffix(p, "*")
	inside := []Key{MustKey("course", "1"), MustKey("course", "list", "all")}
	outside := []Key{MustKey("courses", "1"), MustKey("cour", "se")}

	for _, k := range inside {
		if !strings.HasPrefix(k.String(), prefix) {
			t.Fatalf("%q should match %q", k.String(), p)
		}
	}
	for _, k := range outside {
		if strings.HasPrefix(k.String(), prefix) {
			t.Fatalf("%q must not match %q", k.String(), p)
		}
	}

	if _, err := Pattern("bad:ns"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("Pattern with separator must fail, got %v", err)
	}
}

func TestMustKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("MustKey with bad input must panic")
		}
	}()
	MustKey("a:b", "c")
}
