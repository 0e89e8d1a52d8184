package eval

import (
	"github.com/flintwinters/jisp/document"
	"github.com/flintwinters/jisp/jisperr"
	"github.com/flintwinters/jisp/residual"
)

// opMapOver implements map_over (spec.md §4.6): pops [data, function]
// (function on top), runs function once per element of data, and
// collects exactly one stack element produced per run into a fresh result
// array. The whole thing — the function/data removal and every patch the
// nested function runs record — is recorded as a single residual group,
// since BeginGroup stays open across the loop.
func opMapOver(ev *Evaluator) error {
	stack, err := requireStack(ev, 2)
	if err != nil {
		return err
	}
	fnVal := stack[len(stack)-1]
	dataVal := stack[len(stack)-2]
	fn, ok := fnVal.([]any)
	if !ok {
		return jisperr.New(jisperr.KindTypeMismatch, "map_over: function is not an array")
	}
	data, ok := dataVal.([]any)
	if !ok {
		return jisperr.New(jisperr.KindTypeMismatch, "map_over: data is not an array")
	}

	ev.Log.BeginGroup()
	ev.Doc.SetStack(stack[:len(stack)-2])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: fnVal})
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 2), Value: dataVal})

	result := make([]any, 0, len(data))
	for _, elem := range data {
		before, _ := ev.Doc.Stack()
		base := len(before)

		cp, err := document.Copy(elem)
		if err != nil {
			ev.Log.DiscardGroup()
			return jisperr.Wrap(jisperr.KindInternal, err, "map_over: copy failed")
		}
		ev.Doc.PushStack(cp)

		if err := ev.ProcessEPArray(fn, "<anonymous>"); err != nil {
			ev.Log.DiscardGroup()
			return err
		}

		after, _ := ev.Doc.Stack()
		if len(after)-base != 1 {
			ev.Log.DiscardGroup()
			return jisperr.New(jisperr.KindArityMismatch, "map_over: function produced %d results, expected 1", len(after)-base)
		}
		result = append(result, after[len(after)-1])
		ev.Doc.SetStack(after[:len(after)-1])
	}

	ev.Doc.PushStack(result)
	ev.Log.Record(residual.Operation{Op: residual.Add, Path: "/stack/-", Value: result})
	ev.Log.CommitGroup()
	return nil
}
