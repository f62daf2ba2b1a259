// Package querykey names every cached result set of the client core.
//
// A Key is an ordered tuple of tokens. Keys form a prefix tree rooted at one
// token per entity class, and every invalidation in the cache is expressed as
// a prefix of that tree. Builders never omit a position, so two keys built
// from equal parameters are always identical and keys from different scopes
// always differ in their second token.
package querykey

import (
	"strings"
)

// Root tokens, one per entity class.
const (
	RootTransactions = "transactions"
	RootFinancial    = "financial"
	RootAnalytics    = "analytics"
)

// idSeparator cannot appear in month keys, ids or numbers.
const idSeparator = "\x1f"

// Key is an ordered tuple naming one cached result set.
type Key []string

// Of builds a key from raw tokens. Prefer the typed builders.
func Of(tokens ...string) Key {
	return Key(tokens)
}

// Root returns the entity class token, or "" for an empty key.
func (k Key) Root() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// Scope returns the second token, e.g. "monthly" or "detail".
func (k Key) Scope() string {
	if len(k) < 2 {
		return ""
	}
	return k[1]
}

// At returns the token at position i, or "" when the key is shorter.
func (k Key) At(i int) string {
	if i < 0 || i >= len(k) {
		return ""
	}
	return k[i]
}

// HasPrefix reports whether every token of prefix matches k position by position.
// The empty prefix matches all keys.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, tok := range prefix {
		if k[i] != tok {
			return false
		}
	}
	return true
}

// Equal reports whether both keys hold the same tokens in the same order.
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

// ID returns a comparable identity for use as a map key.
func (k Key) ID() string {
	return strings.Join(k, idSeparator)
}

// String renders the key for logs.
func (k Key) String() string {
	return "[" + strings.Join(k, " ") + "]"
}

// Clone returns a copy that does not share the backing array.
func (k Key) Clone() Key {
	out := make(Key, len(k))
	copy(out, k)
	return out
}

func extend(base Key, tokens ...string) Key {
	out := make(Key, 0, len(base)+len(tokens))
	out = append(out, base...)
	return append(out, tokens...)
}
