package eval

import (
	"github.com/flintwinters/jisp/document"
	"github.com/flintwinters/jisp/jisperr"
	"github.com/flintwinters/jisp/pointer"
	"github.com/flintwinters/jisp/residual"
)

// opPtrNew implements ptr_new: pops a path string from the document
// stack, resolves and retains it, and pushes the handle onto the
// evaluator's pointer stack (spec.md §4.6, §5 — ptr_new is the one
// retaining resolver).
func opPtrNew(ev *Evaluator) error {
	stack, err := requireStack(ev, 1)
	if err != nil {
		return err
	}
	top := stack[len(stack)-1]
	path, ok := top.(string)
	if !ok {
		return jisperr.New(jisperr.KindTypeMismatch, "ptr_new: path is not a string")
	}
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: top})

	h, err := pointer.NewHandle(ev.Doc, path)
	if err != nil {
		return err
	}
	if err := ev.Ptrs.Push(h); err != nil {
		pointer.Release(&h)
		return err
	}
	return nil
}

// opPtrRelease implements ptr_release: pops the top pointer handle and
// releases it, balancing ptr_new's retain.
func opPtrRelease(ev *Evaluator) error {
	h, err := ev.Ptrs.Pop()
	if err != nil {
		return err
	}
	pointer.Release(&h)
	return nil
}

// opPtrGet implements ptr_get: peeks the top pointer handle and pushes a
// deep copy of its current (live) target value onto the document stack.
func opPtrGet(ev *Evaluator) error {
	h, err := ev.Ptrs.Peek()
	if err != nil {
		return err
	}
	val, err := pointer.Resolve(h.Doc.Root, h.Path)
	if err != nil {
		return err
	}
	return ev.pushLiteral(val)
}

// opPtrSet implements ptr_set: peeks the top pointer handle, pops a
// scalar value from the document stack, and assigns it in place to the
// pointer's target. Container targets remain unsupported (design notes
// §9: "leave it unsupported until a clear semantics is agreed").
func opPtrSet(ev *Evaluator) error {
	h, err := ev.Ptrs.Peek()
	if err != nil {
		return err
	}
	stack, err := requireStack(ev, 1)
	if err != nil {
		return err
	}
	val := stack[len(stack)-1]
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: val})

	cp, err := document.Copy(val)
	if err != nil {
		return jisperr.Wrap(jisperr.KindInternal, err, "ptr_set: copy failed")
	}
	if _, err := pointer.SetScalar(h.Doc.Root, h.Path, cp); err != nil {
		return err
	}
	ev.Log.Record(residual.Operation{Op: residual.Replace, Path: h.Path, Value: cp})
	return nil
}
