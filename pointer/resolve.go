// Package pointer implements the RFC 6901 path resolver (spec.md §4.1) and
// the external pointer-handle machinery (§4.2): a {document, value, path}
// triple that borrows one share of the document's lifetime, plus the
// fixed-capacity stack those handles live on (§4.2, §9). Token parsing
// reuses github.com/agentflare-ai/go-jsonpointer, the teacher library's own
// dependency, for RFC 6901 escaping and array index parsing; the map/array
// walk itself is reimplemented here so each failure mode
// can be tagged with the precise jisperr.Kind the taxonomy names (Type vs.
// Range vs. NotFound), which the upstream library's single error type does
// not distinguish.
package pointer

import (
	jsonpointer "github.com/agentflare-ai/go-jsonpointer"

	"github.com/flintwinters/jisp/jisperr"
)

// Resolve walks root by path and returns the value found there. It never
// retains a document — it is the "borrowing resolver" spec.md §5 describes
// for operations (get, set, append) that consume a value without exposing
// a handle across instructions.
//
// "/" denotes the root object itself, a JISP convention that diverges from
// strict RFC 6901 (where "" denotes the root and "/" denotes the
// empty-string key); spec.md §9's Open Questions call this out explicitly.
func Resolve(root any, path string) (any, error) {
	if root == nil {
		return nil, jisperr.New(jisperr.KindInvalidArg, "resolve: nil root")
	}
	if path == "/" {
		return root, nil
	}

	tokens, err := jsonpointer.New(path)
	if err != nil {
		return nil, jisperr.Wrap(jisperr.KindPathNotFound, err, "malformed path %q", path)
	}

	cur := root
	for _, tok := range tokens {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[tok]
			if !ok {
				return nil, jisperr.New(jisperr.KindPathNotFound, "no key %q in path %q", tok, path)
			}
			cur = v
		case []any:
			idx, ierr := jsonpointer.ParseArrayIndex(tok)
			if ierr != nil {
				return nil, jisperr.New(jisperr.KindPathNotFound, "invalid array index %q in path %q", tok, path)
			}
			if idx >= uint64(len(c)) {
				return nil, jisperr.New(jisperr.KindPathOutOfRange, "index %d out of range (len %d) at %q", idx, len(c), path)
			}
			cur = c[idx]
		default:
			return nil, jisperr.New(jisperr.KindTypeMismatch, "path %q descends into a non-traversable value", path)
		}
	}
	return cur, nil
}
