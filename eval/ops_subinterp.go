package eval

import (
	"github.com/flintwinters/jisp/document"
	"github.com/flintwinters/jisp/jisperr"
	"github.com/flintwinters/jisp/residual"
)

// subRootOf deep-copies v into a fresh document root for a sub-interpreter
// run (test/step/undo), per spec.md §4.6's "creates a fresh sub-document
// whose root is a deep copy of program".
func subRootOf(v any) (map[string]any, error) {
	cp, err := document.Copy(v)
	if err != nil {
		return nil, jisperr.Wrap(jisperr.KindInternal, err, "sub-interpreter: copy failed")
	}
	root, ok := cp.(map[string]any)
	if !ok {
		return nil, jisperr.New(jisperr.KindTypeMismatch, "sub-interpreter: program is not an object")
	}
	return root, nil
}

// testMismatchKind labels the structured error object a failed test
// operation pushes (spec.md §6); it is not one of jisperr's fatal Kinds
// since a test mismatch never terminates the outer interpreter (§4.7).
const testMismatchKind = "TestMismatch"

// opTest implements test (spec.md §4.6): pops [program, expected]
// (expected on top), runs program to completion in an isolated
// sub-document, and compares the resulting root against expected by
// structural subset equality. A mismatch pushes a structured error object
// rather than failing the outer interpreter.
func opTest(ev *Evaluator) error {
	stack, err := requireStack(ev, 2)
	if err != nil {
		return err
	}
	expected := stack[len(stack)-1]
	program := stack[len(stack)-2]

	ev.Log.BeginGroup()
	ev.Doc.SetStack(stack[:len(stack)-2])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: expected})
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 2), Value: program})

	subRoot, err := subRootOf(program)
	if err != nil {
		ev.Log.DiscardGroup()
		return err
	}
	subDoc := document.New(subRoot)
	document.Retain(subDoc)
	subEval := New(subDoc, ev.Logger)

	if err := subEval.ProcessEntrypoint(); err != nil {
		document.Release(subDoc)
		ev.Log.DiscardGroup()
		return err
	}

	if !residual.Equal(expected, subDoc.Root) {
		details := map[string]any{"expected": expected, "actual": subDoc.Root}
		if diff, derr := residual.New(expected, subDoc.Root); derr == nil {
			details["diff"] = diff
		}
		errObj := map[string]any{
			"error":   true,
			"kind":    testMismatchKind,
			"message": "test: result did not match expected",
			"details": details,
		}
		ev.Doc.PushStack(errObj)
		ev.Log.Record(residual.Operation{Op: residual.Add, Path: "/stack/-", Value: errObj})
	}
	document.Release(subDoc)
	ev.Log.CommitGroup()
	return nil
}

// opStep implements step (spec.md §4.6): pops a program object, executes
// the single instruction at its "pc" index within a sub-document,
// increments pc, and pushes the resulting sub-root back onto the outer
// stack.
func opStep(ev *Evaluator) error {
	stack, err := requireStack(ev, 1)
	if err != nil {
		return err
	}
	top := stack[len(stack)-1]
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: top})

	subRoot, err := subRootOf(top)
	if err != nil {
		return err
	}
	subDoc := document.New(subRoot)
	document.Retain(subDoc)

	pcFloat, _ := subRoot["pc"].(float64)
	pc := int(pcFloat)
	entry, _ := subRoot["entrypoint"].([]any)

	if pc >= 0 && pc < len(entry) {
		subEval := New(subDoc, ev.Logger)
		if err := subEval.ExecuteOne(entry, "/entrypoint", pc); err != nil {
			document.Release(subDoc)
			return err
		}
	}
	subRoot["pc"] = float64(pc + 1)

	ev.Doc.PushStack(subRoot)
	ev.Log.Record(residual.Operation{Op: residual.Add, Path: "/stack/-", Value: subRoot})
	document.Release(subDoc)
	return nil
}

// opUndo implements the undo operation (distinct from the residual
// package's Undo function it calls): pops a program object into a fresh
// sub-document, runs one step of residual undo on it, and pushes the
// resulting sub-root back onto the outer stack.
func opUndo(ev *Evaluator) error {
	stack, err := requireStack(ev, 1)
	if err != nil {
		return err
	}
	top := stack[len(stack)-1]
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: top})

	subRoot, err := subRootOf(top)
	if err != nil {
		return err
	}
	subDoc := document.New(subRoot)
	document.Retain(subDoc)

	if err := residual.Undo(subDoc); err != nil {
		document.Release(subDoc)
		return err
	}

	ev.Doc.PushStack(subRoot)
	ev.Log.Record(residual.Operation{Op: residual.Add, Path: "/stack/-", Value: subRoot})
	document.Release(subDoc)
	return nil
}
