package residual

import (
	"testing"

	"github.com/flintwinters/jisp/document"
)

func reversibleDoc() *document.Document {
	return document.New(map[string]any{
		"is_reversible": true,
		"stack":         []any{},
		"residual":      []any{},
	})
}

func TestRecordNoopWhenNotReversible(t *testing.T) {
	doc := document.New(map[string]any{"stack": []any{}})
	log := NewLog(doc)
	log.Record(Operation{Op: Add, Path: "/stack/-", Value: 1.0})
	if residual, ok := doc.Root["residual"]; ok && len(residual.([]any)) != 0 {
		t.Fatalf("expected no residual entries when is_reversible is false, got %v", residual)
	}
}

func TestRecordSingleEntry(t *testing.T) {
	doc := reversibleDoc()
	log := NewLog(doc)
	log.Record(Operation{Op: Add, Path: "/stack/-", Value: 1.0})
	residual := doc.Root["residual"].([]any)
	if len(residual) != 1 {
		t.Fatalf("expected 1 residual entry, got %d", len(residual))
	}
}

func TestGroupCommitsAsOneEntry(t *testing.T) {
	doc := reversibleDoc()
	log := NewLog(doc)
	log.BeginGroup()
	log.Record(Operation{Op: Remove, Path: "/stack/1", Value: 2.0})
	log.Record(Operation{Op: Remove, Path: "/stack/0", Value: 1.0})
	log.Record(Operation{Op: Add, Path: "/stack/-", Value: 3.0})
	log.CommitGroup()

	residual := doc.Root["residual"].([]any)
	if len(residual) != 1 {
		t.Fatalf("expected 1 grouped entry, got %d", len(residual))
	}
	group, ok := residual[0].([]any)
	if !ok || len(group) != 3 {
		t.Fatalf("expected group of 3 ops, got %#v", residual[0])
	}
}

func TestNestedGroupFoldsIntoOuter(t *testing.T) {
	// Mirrors map_over opening a group, then running a nested op
	// (add_two_top) that opens and commits its own group before map_over's
	// group closes. Before the fix this clobbered the outer group outright;
	// now the inner commit folds into the still-open outer one, and only
	// the outermost CommitGroup writes to root["residual"].
	doc := reversibleDoc()
	log := NewLog(doc)

	log.BeginGroup() // outer: map_over
	log.Record(Operation{Op: Remove, Path: "/stack/1", Value: "fn"})
	log.Record(Operation{Op: Remove, Path: "/stack/0", Value: "data"})

	log.BeginGroup() // inner: add_two_top, nested inside the still-open outer group
	log.Record(Operation{Op: Remove, Path: "/stack/1", Value: 2.0})
	log.Record(Operation{Op: Remove, Path: "/stack/0", Value: 1.0})
	log.Record(Operation{Op: Add, Path: "/stack/-", Value: 3.0})

	if residual, ok := doc.Root["residual"].([]any); !ok || len(residual) != 0 {
		t.Fatalf("expected nothing written to residual before the outer group commits, got %#v", residual)
	}
	log.CommitGroup() // inner commit must fold into outer, not flush on its own

	if residual, ok := doc.Root["residual"].([]any); !ok || len(residual) != 0 {
		t.Fatalf("expected the inner commit to fold into the still-open outer group, got %#v", residual)
	}

	log.Record(Operation{Op: Add, Path: "/stack/-", Value: "result"})
	log.CommitGroup() // outer commit: now everything lands as one entry

	residual := doc.Root["residual"].([]any)
	if len(residual) != 1 {
		t.Fatalf("expected exactly 1 entry for the whole nested sequence, got %d", len(residual))
	}
	group, ok := residual[0].([]any)
	if !ok || len(group) != 6 {
		t.Fatalf("expected one group of 6 folded ops, got %#v", residual[0])
	}
}

func TestDiscardInnerGroupLeavesOuterOpen(t *testing.T) {
	doc := reversibleDoc()
	log := NewLog(doc)

	log.BeginGroup() // outer
	log.Record(Operation{Op: Remove, Path: "/stack/0", Value: "kept"})

	log.BeginGroup() // inner, about to fail
	log.Record(Operation{Op: Remove, Path: "/stack/0", Value: "discarded"})
	log.DiscardGroup()

	log.Record(Operation{Op: Add, Path: "/stack/-", Value: "after"})
	log.CommitGroup()

	residual := doc.Root["residual"].([]any)
	if len(residual) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(residual))
	}
	group, ok := residual[0].([]any)
	if !ok || len(group) != 2 {
		t.Fatalf("expected the outer group to keep its own 2 ops without the discarded inner one, got %#v", residual[0])
	}
}

func TestEmptyGroupCommitsNothing(t *testing.T) {
	doc := reversibleDoc()
	log := NewLog(doc)
	log.BeginGroup()
	log.CommitGroup()
	residual := doc.Root["residual"].([]any)
	if len(residual) != 0 {
		t.Fatalf("expected no entry for an empty group, got %d", len(residual))
	}
}

func TestUndoPopInvertsPush(t *testing.T) {
	doc := reversibleDoc()
	doc.PushStack(1.0)
	log := NewLog(doc)
	log.Record(Operation{Op: Add, Path: "/stack/-"})

	if err := Undo(doc); err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	stack, _ := doc.Stack()
	if len(stack) != 0 {
		t.Fatalf("expected stack emptied by undo, got %v", stack)
	}
}

func TestUndoRemoveInvertsPop(t *testing.T) {
	doc := reversibleDoc()
	log := NewLog(doc)
	log.Record(Operation{Op: Remove, Path: "/stack/0", Value: 7.0})

	if err := Undo(doc); err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	stack, _ := doc.Stack()
	if len(stack) != 1 || stack[0] != 7.0 {
		t.Fatalf("expected [7.0] restored by undo, got %v", stack)
	}
}

func TestUndoGroupReplaysInReverseOrder(t *testing.T) {
	// add_two_top: pops 1.0 and 2.0, pushes 3.0. Recorded as a group in the
	// order the mutations actually happened: remove top (2.0), remove new
	// top (1.0), then push the sum (3.0). Undo must restore [1.0, 2.0].
	doc := reversibleDoc()
	doc.PushStack(3.0)
	log := NewLog(doc)
	log.BeginGroup()
	log.Record(Operation{Op: Remove, Path: "/stack/1", Value: 2.0})
	log.Record(Operation{Op: Remove, Path: "/stack/0", Value: 1.0})
	log.Record(Operation{Op: Add, Path: "/stack/-", Value: 3.0})
	log.CommitGroup()

	if err := Undo(doc); err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	stack, _ := doc.Stack()
	if len(stack) != 2 || stack[0] != 1.0 || stack[1] != 2.0 {
		t.Fatalf("expected [1.0, 2.0] restored, got %v", stack)
	}
}

func TestUndoReplaceIsNoop(t *testing.T) {
	doc := reversibleDoc()
	doc.PushStack("before")
	log := NewLog(doc)
	doc.Root["stack"] = []any{"after"}
	log.Record(Operation{Op: Replace, Path: "/stack/0", Value: "after"})

	if err := Undo(doc); err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	stack, _ := doc.Stack()
	if len(stack) != 1 || stack[0] != "after" {
		t.Fatalf("expected replace undo to be a no-op, got %v", stack)
	}
}

func TestUndoEmptyLogIsError(t *testing.T) {
	doc := reversibleDoc()
	if err := Undo(doc); err == nil {
		t.Fatalf("expected error undoing an empty residual log")
	}
}
