package pointer

import (
	"github.com/flintwinters/jisp/document"
	"github.com/flintwinters/jisp/jisperr"
)

// Ptr is a {document, value, path} handle (spec.md §4.2): it holds one
// share of the owning document's reference-counted lifetime until released.
type Ptr struct {
	Doc  *document.Document
	Val  any
	Path string
}

// NewHandle resolves path against doc and, on success, retains doc. Unlike
// Resolve, this is the retaining path used by ptr_new: the returned handle
// is meant to outlive the instruction that created it.
func NewHandle(doc *document.Document, path string) (Ptr, error) {
	if doc == nil {
		return Ptr{}, jisperr.New(jisperr.KindInvalidArg, "ptr_new: nil document")
	}
	val, err := Resolve(doc.Root, path)
	if err != nil {
		return Ptr{}, err
	}
	document.Retain(doc)
	return Ptr{Doc: doc, Val: val, Path: path}, nil
}

// Release balances a NewHandle retain and invalidates the handle in place.
func Release(p *Ptr) {
	if p == nil || p.Doc == nil {
		return
	}
	document.Release(p.Doc)
	*p = Ptr{}
}

// Value returns the handle's resolved value.
func (p Ptr) Value() any { return p.Val }

// PathString returns the path the handle was resolved from.
func (p Ptr) PathString() string { return p.Path }

// IsValid reports whether the handle still refers to a live document.
func (p Ptr) IsValid() bool { return p.Doc != nil }
