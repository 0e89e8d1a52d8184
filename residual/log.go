package residual

import (
	"strings"

	"github.com/flintwinters/jisp/document"
	"github.com/flintwinters/jisp/jisperr"
)

// Log manages root["residual"]: recording patches when the document is
// reversible, grouping multi-mutation operations into a single atomic
// entry, and undoing the most recent entry (spec.md §4.4).
type Log struct {
	doc *document.Document
	// groups is a stack of open groups, innermost last. Nesting happens
	// whenever an operation that itself opens a group (add_two_top, get,
	// set, append, map_over's own two removes + final add, ...) runs as
	// part of a program a higher operation drives through the evaluator —
	// map_over is the example spec.md's own canonical scenarios exercise:
	// it opens a group, then runs a mapped function that may itself call
	// add_two_top, which opens and commits its own group while map_over's
	// group is still open. CommitGroup on the inner group flushes its
	// patches into the next-outer group rather than the residual log
	// directly, so the whole thing still lands as one atomic top-level
	// entry when the outermost CommitGroup finally runs.
	groups []Patch
}

// NewLog returns a Log bound to doc. Recording is a no-op whenever
// document.IsReversible(doc.Root) is false, so callers can call Record
// unconditionally without checking is_reversible themselves.
func NewLog(doc *document.Document) *Log {
	return &Log{doc: doc}
}

func (l *Log) enabled() bool {
	return document.IsReversible(l.doc.Root)
}

// Record appends a single-mutation patch. If a group is open (between
// BeginGroup and CommitGroup), it accumulates into the innermost open
// group instead.
func (l *Log) Record(op Operation) {
	if !l.enabled() {
		return
	}
	if n := len(l.groups); n > 0 {
		l.groups[n-1] = append(l.groups[n-1], op)
		return
	}
	l.append(encodeOperation(op))
}

// BeginGroup opens a fresh group; operations with more than one mutation
// (add_two_top, map_over, get, set, append) call this before recording
// their constituent patches. Calling it while a group is already open
// (map_over driving a nested function that calls add_two_top, say) pushes
// a nested group rather than clobbering the outer one.
func (l *Log) BeginGroup() {
	if !l.enabled() {
		return
	}
	l.groups = append(l.groups, Patch{})
}

// CommitGroup closes the innermost open group. If it was the only group
// open, its patches are appended as a single residual entry — an ordered
// sequence undone together, atomic in that nothing it accumulated is
// visible in root["residual"] until this call. If an outer group is still
// open, the inner group's patches are folded into it instead, so the
// whole nested sequence still lands as one atomic entry when the
// outermost CommitGroup eventually runs.
func (l *Log) CommitGroup() {
	if !l.enabled() || len(l.groups) == 0 {
		return
	}
	n := len(l.groups)
	g := l.groups[n-1]
	l.groups = l.groups[:n-1]
	if len(g) == 0 {
		return
	}
	if len(l.groups) > 0 {
		outer := len(l.groups) - 1
		l.groups[outer] = append(l.groups[outer], g...)
		return
	}
	encoded := make([]any, len(g))
	for i, op := range g {
		encoded[i] = encodeOperation(op)
	}
	l.append(encoded)
}

// DiscardGroup abandons the innermost open group without recording
// anything, for the rare case an operation opens a group and then fails
// partway through. Any still-open outer group (map_over's, say) is left
// intact.
func (l *Log) DiscardGroup() {
	if len(l.groups) == 0 {
		return
	}
	l.groups = l.groups[:len(l.groups)-1]
}

func (l *Log) append(entry any) {
	residual, _ := l.doc.Root["residual"].([]any)
	l.doc.Root["residual"] = append(residual, entry)
}

func encodeOperation(op Operation) any {
	m := map[string]any{"op": string(op.Op), "path": op.Path}
	if op.Value != nil {
		m["value"] = op.Value
	}
	return m
}

func decodeOperation(v any) (Operation, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Operation{}, jisperr.New(jisperr.KindInternal, "residual entry is not an object")
	}
	opStr, _ := m["op"].(string)
	path, _ := m["path"].(string)
	return Operation{Op: Op(opStr), Path: path, Value: m["value"]}, nil
}

// Undo pops the last residual entry and inverts it in place on doc,
// following spec.md §4.4's inversion rules. It fails only when the log is
// empty; a malformed or unrecognized entry is a best-effort no-op, per the
// spec's own "Unknown op/path -> best-effort no-op" rule.
func Undo(doc *document.Document) error {
	residual, ok := doc.Root["residual"].([]any)
	if !ok || len(residual) == 0 {
		return jisperr.New(jisperr.KindInvalidArg, "undo: residual log is empty")
	}
	last := residual[len(residual)-1]
	doc.Root["residual"] = residual[:len(residual)-1]

	if group, ok := last.([]any); ok {
		for i := len(group) - 1; i >= 0; i-- {
			if op, err := decodeOperation(group[i]); err == nil {
				invert(op, doc)
			}
		}
		return nil
	}
	if op, err := decodeOperation(last); err == nil {
		invert(op, doc)
	}
	return nil
}

// invert applies the inversion rules of spec.md §4.4. Stack pushes
// (add /stack/-) invert to a pop of the current top; stack pops
// (remove /stack/<n>) invert to re-pushing the captured value. Undo does
// not reconstruct positional order beyond that — the stack discipline is
// LIFO, so replaying a group's patches in reverse naturally restores the
// original arrangement. replace, and anything outside /stack/, is a
// best-effort no-op: the previous value isn't captured in this minimal
// logging mode.
func invert(op Operation, doc *document.Document) {
	switch {
	case op.Op == Add && op.Path == "/stack/-":
		doc.PopStack()
	case op.Op == Remove && strings.HasPrefix(op.Path, "/stack/"):
		v, err := document.Copy(op.Value)
		if err != nil {
			v = op.Value
		}
		doc.PushStack(v)
	}
}
