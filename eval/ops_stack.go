package eval

import (
	"github.com/flintwinters/jisp/document"
	"github.com/flintwinters/jisp/jisperr"
	"github.com/flintwinters/jisp/residual"
)

func requireStack(ev *Evaluator, n int) ([]any, error) {
	stack, err := ev.Doc.Stack()
	if err != nil {
		return nil, err
	}
	if len(stack) < n {
		return nil, jisperr.New(jisperr.KindStackUnderflow, "need %d elements, have %d", n, len(stack))
	}
	return stack, nil
}

// opPopAndStore implements pop_and_store (spec.md §4.6): pops [value, key]
// (key on top), stores value under key on the root, and records the
// three-patch group the recording table describes.
func opPopAndStore(ev *Evaluator) error {
	stack, err := requireStack(ev, 2)
	if err != nil {
		return err
	}
	keyVal := stack[len(stack)-1]
	value := stack[len(stack)-2]
	key, ok := keyVal.(string)
	if !ok {
		return jisperr.New(jisperr.KindTypeMismatch, "pop_and_store: key is not a string")
	}

	ev.Log.BeginGroup()
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: keyVal})

	stack2, _ := ev.Doc.Stack()
	ev.Doc.SetStack(stack2[:len(stack2)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack2) - 1), Value: value})

	cp, err := document.Copy(value)
	if err != nil {
		ev.Log.DiscardGroup()
		return jisperr.Wrap(jisperr.KindInternal, err, "pop_and_store: copy failed")
	}
	_, existed := ev.Doc.Root[key]
	ev.Doc.Root[key] = cp

	op := residual.Add
	if existed {
		op = residual.Replace
	}
	ev.Log.Record(residual.Operation{Op: op, Path: "/" + key, Value: cp})
	ev.Log.CommitGroup()
	return nil
}

// opDuplicateTop implements duplicate_top: pushes a deep copy of the top
// stack element.
func opDuplicateTop(ev *Evaluator) error {
	stack, err := requireStack(ev, 1)
	if err != nil {
		return err
	}
	return ev.pushLiteral(stack[len(stack)-1])
}

// opAddTwoTop implements add_two_top: pops the top two numeric elements
// and pushes their real sum, recording the two-remove-then-add group.
func opAddTwoTop(ev *Evaluator) error {
	stack, err := requireStack(ev, 2)
	if err != nil {
		return err
	}
	top := stack[len(stack)-1]
	second := stack[len(stack)-2]
	a, ok1 := top.(float64)
	b, ok2 := second.(float64)
	if !ok1 || !ok2 {
		return jisperr.New(jisperr.KindTypeMismatch, "add_two_top: operands are not numeric")
	}

	ev.Log.BeginGroup()
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: top})

	stack2, _ := ev.Doc.Stack()
	ev.Doc.SetStack(stack2[:len(stack2)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack2) - 1), Value: second})

	sum := a + b
	ev.Doc.PushStack(sum)
	ev.Log.Record(residual.Operation{Op: residual.Add, Path: "/stack/-", Value: sum})
	ev.Log.CommitGroup()
	return nil
}
