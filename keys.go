package asidecache

import "strings"

// Sep is the key segment separator. Identifiers and qualifiers must not
// contain it; otherwise namespace patterns stop being collision-free.
const Sep = ":"

// Key is an opaque, validated cache key of the form
// namespace:identifier[:qualifier]. Construct with NewKey; the zero Key is
// invalid and rejected by the facade.
//
// Keys are normalized to lowercase so that callers building the same logical
// key from differently-cased inputs land on the same entry.
type Key struct {
	ns string
	s  string
}

// NewKey builds a Key from a namespace, an identifier and an optional
// qualifier (at most one; used to distinguish list/detail/count variants of
// the same namespace). Segments are lowercased. Returns a *KeyError wrapping
// ErrInvalidKey when a segment is empty, contains the separator, or contains
// the pattern wildcard.
func NewKey(namespace, id string, qualifier ...string) (Key, error) {
	if len(qualifier) > 1 {
		return Key{}, &KeyError{Segment: strings.Join(qualifier, ","), Reason: "at most one qualifier allowed"}
	}
	if err := checkSegment("namespace", namespace); err != nil {
		return Key{}, err
	}
	if err := checkSegment("identifier", id); err != nil {
		return Key{}, err
	}
	s := strings.ToLower(namespace) + Sep + strings.ToLower(id)
	if len(qualifier) == 1 {
		if err := checkSegment("qualifier", qualifier[0]); err != nil {
			return Key{}, err
		}
		s += Sep + strings.ToLower(qualifier[0])
	}
	return Key{ns: strings.ToLower(namespace), s: s}, nil
}

// MustKey is like NewKey but panics on error. Intended for static keys known
// valid at compile time (dependency tables, warmup task lists).
func MustKey(namespace, id string, qualifier ...string) Key {
	k, err := NewKey(namespace, id, qualifier...)
	if err != nil {
		panic(err)
	}
	return k
}

// Namespace returns the key's namespace segment.
func (k Key) Namespace() string { return k.ns }

// String returns the full storage key.
func (k Key) String() string { return k.s }

// IsZero reports whether k was not produced by NewKey.
func (k Key) IsZero() bool { return k.s == "" }

// Pattern returns the match-all pattern for a namespace ("ns:*").
// Every key NewKey emits for that namespace matches the pattern, and no key
// from another namespace does (segments cannot contain the separator).
func Pattern(namespace string) (string, error) {
	if err := checkSegment("namespace", namespace); err != nil {
		return "", err
	}
	return strings.ToLower(namespace) + Sep + "*", nil
}

func normNS(namespace string) string { return strings.ToLower(namespace) }

func checkSegment(name, s string) error {
	switch {
	case s == "":
		return &KeyError{Segment: name, Reason: "empty"}
	case strings.Contains(s, Sep):
		return &KeyError{Segment: s, Reason: "contains separator " + Sep}
	case strings.Contains(s, "*"):
		return &KeyError{Segment: s, Reason: "contains wildcard *"}
	}
	return nil
}
