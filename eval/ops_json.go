package eval

import (
	"github.com/flintwinters/jisp/document"
	"github.com/flintwinters/jisp/jisperr"
	"github.com/flintwinters/jisp/pointer"
	"github.com/flintwinters/jisp/residual"
)

// opGet implements get: pops a path string, pushes a deep copy of the
// resolved value, recording the remove-path-then-add-result group.
func opGet(ev *Evaluator) error {
	stack, err := requireStack(ev, 1)
	if err != nil {
		return err
	}
	top := stack[len(stack)-1]
	path, ok := top.(string)
	if !ok {
		return jisperr.New(jisperr.KindTypeMismatch, "get: path is not a string")
	}

	ev.Log.BeginGroup()
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: top})

	val, err := pointer.Resolve(ev.Doc.Root, path)
	if err != nil {
		ev.Log.DiscardGroup()
		return err
	}
	cp, err := document.Copy(val)
	if err != nil {
		ev.Log.DiscardGroup()
		return jisperr.Wrap(jisperr.KindInternal, err, "get: copy failed")
	}
	ev.Doc.PushStack(cp)
	ev.Log.Record(residual.Operation{Op: residual.Add, Path: "/stack/-", Value: cp})
	ev.Log.CommitGroup()
	return nil
}

// opSet implements set: pops [value, path] (path on top), writes the
// scalar value in place, recording the remove-remove-replace group.
func opSet(ev *Evaluator) error {
	stack, err := requireStack(ev, 2)
	if err != nil {
		return err
	}
	pathVal := stack[len(stack)-1]
	value := stack[len(stack)-2]
	path, ok := pathVal.(string)
	if !ok {
		return jisperr.New(jisperr.KindTypeMismatch, "set: path is not a string")
	}

	ev.Log.BeginGroup()
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: pathVal})

	stack2, _ := ev.Doc.Stack()
	ev.Doc.SetStack(stack2[:len(stack2)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack2) - 1), Value: value})

	cp, err := document.Copy(value)
	if err != nil {
		ev.Log.DiscardGroup()
		return jisperr.Wrap(jisperr.KindInternal, err, "set: copy failed")
	}
	if _, err := pointer.SetScalar(ev.Doc.Root, path, cp); err != nil {
		ev.Log.DiscardGroup()
		return err
	}
	ev.Log.Record(residual.Operation{Op: residual.Replace, Path: path, Value: cp})
	ev.Log.CommitGroup()
	return nil
}

// opAppend implements append: pops [value, path], appends a deep copy of
// value to the array at path, recording the remove-remove-add group.
func opAppend(ev *Evaluator) error {
	stack, err := requireStack(ev, 2)
	if err != nil {
		return err
	}
	pathVal := stack[len(stack)-1]
	value := stack[len(stack)-2]
	path, ok := pathVal.(string)
	if !ok {
		return jisperr.New(jisperr.KindTypeMismatch, "append: path is not a string")
	}

	ev.Log.BeginGroup()
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: pathVal})

	stack2, _ := ev.Doc.Stack()
	ev.Doc.SetStack(stack2[:len(stack2)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack2) - 1), Value: value})

	cp, err := document.Copy(value)
	if err != nil {
		ev.Log.DiscardGroup()
		return jisperr.Wrap(jisperr.KindInternal, err, "append: copy failed")
	}
	if err := pointer.AppendAt(ev.Doc.Root, path, cp); err != nil {
		ev.Log.DiscardGroup()
		return err
	}
	ev.Log.Record(residual.Operation{Op: residual.Add, Path: path + "/-", Value: cp})
	ev.Log.CommitGroup()
	return nil
}
