package eval

import (
	"github.com/flintwinters/jisp/jisperr"
	"github.com/flintwinters/jisp/pointer"
	"github.com/flintwinters/jisp/residual"
)

// opEnter implements enter: pops the top stack element; a string is
// resolved to an array at that path and executed, an array is executed
// in place.
func opEnter(ev *Evaluator) error {
	stack, err := requireStack(ev, 1)
	if err != nil {
		return err
	}
	top := stack[len(stack)-1]
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: top})

	switch v := top.(type) {
	case string:
		val, err := pointer.Resolve(ev.Doc.Root, v)
		if err != nil {
			return err
		}
		arr, ok := val.([]any)
		if !ok {
			return jisperr.New(jisperr.KindTypeMismatch, "enter: %q does not resolve to an array", v)
		}
		return ev.ProcessEPArray(arr, v)
	case []any:
		return ev.ProcessEPArray(v, "<anonymous>")
	default:
		return jisperr.New(jisperr.KindTypeMismatch, "enter: top of stack is neither a path nor an array")
	}
}

// opExit implements exit: sets the transient _interrupt_exit flag the
// enclosing ProcessEPArray clears on its next loop iteration, unwinding
// exactly one frame (spec.md §4.5, §8 "exit inside a nested enter
// terminates only the innermost entrypoint execution").
func opExit(ev *Evaluator) error {
	ev.Doc.Root["_interrupt_exit"] = true
	return nil
}
