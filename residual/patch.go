// Package residual implements the JISP undo log of spec.md §4.4: per-mutation
// JSON Patch recording, patch grouping for multi-edit operations, and the
// inverse interpreter that consumes the log. Its Operation/Patch types and
// its diffing engine (New) are adapted from the teacher library
// (github.com/agentflare-ai/jsonpatch's patch.go): same shapes, same
// object/array diff algorithm (LCS over tokenized array elements), narrowed
// to the three ops (add, remove, replace) spec.md §4.4 actually records —
// JISP never needs RFC 6902's move/copy/test, so that half of the teacher's
// Op enum and its Prepare/Diff/Revert machinery (which computes a
// perfectly-invertible diff by capturing "before" on every op, including
// replace) isn't reused: spec.md's own undo is deliberately lossier —
// replace is a best-effort no-op on undo — so reusing the teacher's fuller
// round-trip engine there would implement different semantics than the
// spec calls for. See DESIGN.md.
package residual

// Op is the JSON Patch operation tag a residual entry carries. JISP's
// recording rules (spec.md §4.4) only ever produce these three; the
// diffing engine below likewise only ever emits these three, since the
// teacher's diffObject/diffArray never produce move or copy.
type Op string

const (
	Add     Op = "add"
	Remove  Op = "remove"
	Replace Op = "replace"
)

// Operation is a single JSON-Patch-shaped record (spec.md §4.4): an op tag,
// an RFC 6901 path (with "-" denoting array append), and a value where
// meaningful (present for add, for the remove patches the evaluator records
// on stack pops, and for replace when the new value is known; the remove
// operations New emits carry no value).
type Operation struct {
	Op    Op     `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// Patch is an ordered sequence of operations undone together as one group
// (spec.md's "Group").
type Patch []Operation
