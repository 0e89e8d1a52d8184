// Package document implements the JISP value model and the document arena:
// a JSON tree rooted at an ordered string->value mapping, plus the
// reference-counted lifetime that external handles borrow from (spec.md §3,
// §4.3). A JISP Value has no dedicated Go type: like the teacher library,
// it is represented directly as the tree encoding/json produces (map[string]any,
// []any, float64, string, bool, nil) since Go's interface{} is already a
// tagged union over those cases.
package document

import "encoding/json"

// Document is the root object a JISP program executes against. The
// reference count lives on the struct, not inside Root, so that print_json
// never leaks bookkeeping into program-visible output (design notes §9).
type Document struct {
	Root      map[string]any
	ref       int64
	destroyed bool
}

// New wraps an already-decoded root object as a Document with a zero
// reference count, matching "ref absent means zero" (spec.md §3).
func New(root map[string]any) *Document {
	return &Document{Root: root}
}

// Decode parses raw JSON text into a new Document. The root must be a JSON
// object; anything else is rejected since the document's well-known fields
// (stack, entrypoint, residual, ...) are all object members.
func Decode(data []byte) (*Document, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	root, ok := v.(map[string]any)
	if !ok {
		return nil, ErrRootNotObject
	}
	return New(root), nil
}

// RefCount reports the current reference count.
func (d *Document) RefCount() int64 {
	if d == nil {
		return 0
	}
	return d.ref
}

// Destroyed reports whether the arena has been released down to zero.
func (d *Document) Destroyed() bool {
	return d != nil && d.destroyed
}

// Retain increments the document's reference count, creating it at 1 if
// this is the first retain. A count observed negative is clamped to 0
// before incrementing, per spec.md §4.3.
func Retain(d *Document) {
	if d == nil {
		return
	}
	if d.ref < 0 {
		d.ref = 0
	}
	d.ref++
}

// Release decrements the reference count and, if it reaches zero, marks
// the arena destroyed. The spec leaves the mechanics of "destroyed" up to
// the implementation since Go's GC owns the memory either way; Destroyed
// exists so callers and tests can observe retain/release balance.
func Release(d *Document) {
	if d == nil {
		return
	}
	if d.ref > 0 {
		d.ref--
	}
	if d.ref == 0 {
		d.destroyed = true
	}
}

// IsReversible reports whether root["is_reversible"] is present and true.
// Absence defaults to false (spec.md §3).
func IsReversible(root map[string]any) bool {
	v, ok := root["is_reversible"]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Copy performs a JSON round-trip deep copy of an arbitrary JSON-like
// value, the same technique the teacher library's deepCopyAny uses: it's
// the simplest way to get a value with no aliasing back into the document
// tree, and it has the side effect of normalizing numeric literals the way
// the original interpreter's snprintf round-trip did (SPEC_FULL.md,
// "Numeric literals marshal through a canonical form before push").
func Copy(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MustCopy is Copy for call sites where the value is already known-good
// JSON (e.g. it was just decoded or just produced by another Copy); a
// failure here indicates an internal invariant violation.
func MustCopy(v any) any {
	out, err := Copy(v)
	if err != nil {
		panic("document: copy of well-formed value failed: " + err.Error())
	}
	return out
}
