// Package eval implements the instruction dispatcher and the full operation
// set of spec.md §4.5–§4.6: the recursive entrypoint-array walker, named
// and nested directive dispatch, the exit interrupt, and every registered
// operation. Dispatcher and operations live in one package (rather than
// eval depending on a separate ops package) because operations like
// map_over, enter, test, step, and undo must call back into the evaluator
// to run nested entrypoint arrays — keeping them together avoids an import
// cycle between "the thing that dispatches" and "the things it dispatches
// to", the same flat layering the teacher library uses for its Patch
// type and the functions that operate on it.
package eval

import (
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/flintwinters/jisp/document"
	"github.com/flintwinters/jisp/jisperr"
	"github.com/flintwinters/jisp/pointer"
	"github.com/flintwinters/jisp/residual"
)

// Evaluator drives one document's execution. Nested documents created by
// test, step, and undo get their own Evaluator over their own arena
// (spec.md §5 "sub-documents created by test/step/undo are separate
// arenas"), so none of this state is process-wide.
type Evaluator struct {
	Doc    *document.Document
	Ptrs   *pointer.Stack
	Log    *residual.Log
	Logger *zap.SugaredLogger

	// Out is where print_json and print_error write; defaults to os.Stdout.
	Out io.Writer
	// Raw and Compact mirror the CLI's -r/-c output flags (spec.md §6),
	// consumed only by print_json.
	Raw     bool
	Compact bool
}

// New builds an Evaluator over doc with a fresh pointer-handle stack and
// residual log bound to it.
func New(doc *document.Document, logger *zap.SugaredLogger) *Evaluator {
	return &Evaluator{
		Doc:    doc,
		Ptrs:   pointer.NewStack(pointer.DefaultCapacity),
		Log:    residual.NewLog(doc),
		Logger: logger,
		Out:    os.Stdout,
	}
}

// ProcessEntrypoint runs root["entrypoint"] to completion. A document
// without an entrypoint is a no-op: spec.md §3 marks entrypoint "optional
// at rest" (e.g. a document that only exists to be stepped via the step
// operation).
func (ev *Evaluator) ProcessEntrypoint() error {
	entry, ok := ev.Doc.Root["entrypoint"].([]any)
	if !ok {
		return nil
	}
	if _, err := ev.Doc.Stack(); err != nil {
		return jisperr.Wrap(jisperr.KindMissingStack, err, "document has no stack")
	}
	return ev.ProcessEPArray(entry, "/entrypoint")
}

// ProcessEPArray walks arr in order (spec.md §4.5), pushing literals,
// dispatching directives, and recursing into nested entrypoints. path
// names this frame on call_stack for the duration of the walk.
func (ev *Evaluator) ProcessEPArray(arr []any, path string) error {
	ev.Doc.PushCallFrame(path)
	defer ev.Doc.PopCallFrame()

	for i, el := range arr {
		if interrupted(ev.Doc) {
			clearInterrupt(ev.Doc)
			break
		}
		if err := ev.execElement(el, path, i); err != nil {
			return err
		}
	}
	// An exit that was this frame's last instruction ends only this frame.
	if interrupted(ev.Doc) {
		clearInterrupt(ev.Doc)
	}
	return nil
}

// ExecuteOne runs the single instruction at arr[idx] using the same
// per-element logic ProcessEPArray's loop body uses, without the
// call_stack push/pop an array-level walk performs. This is the "helper"
// spec.md §4.5 describes so the step operation can drive a program one
// instruction at a time.
func (ev *Evaluator) ExecuteOne(arr []any, path string, idx int) error {
	if idx < 0 || idx >= len(arr) {
		return jisperr.New(jisperr.KindPathOutOfRange, "step: pc %d out of range (len %d)", idx, len(arr))
	}
	return ev.execElement(arr[idx], path, idx)
}

func (ev *Evaluator) execElement(el any, path string, idx int) error {
	m, ok := el.(map[string]any)
	if !ok {
		return ev.pushLiteral(el)
	}
	dot, hasDot := m["."]
	if !hasDot {
		return ev.pushLiteral(m)
	}
	switch d := dot.(type) {
	case []any:
		return ev.ProcessEPArray(d, path+"/"+strconv.Itoa(idx)+"/.")
	case string:
		if arr2, ok := ev.Doc.Root[d].([]any); ok {
			return ev.ProcessEPArray(arr2, "/"+d)
		}
		if fn, ok := registry[d]; ok {
			return fn(ev)
		}
		return ev.pushLiteral(m)
	default:
		return ev.pushLiteral(m)
	}
}

// pushLiteral deep-copies v and pushes it onto the document stack,
// recording an add /stack/- patch when reversible.
func (ev *Evaluator) pushLiteral(v any) error {
	cp, err := document.Copy(v)
	if err != nil {
		return jisperr.Wrap(jisperr.KindInternal, err, "literal copy failed")
	}
	ev.Doc.PushStack(cp)
	ev.Log.Record(residual.Operation{Op: residual.Add, Path: "/stack/-", Value: cp})
	return nil
}

func interrupted(doc *document.Document) bool {
	v, _ := doc.Root["_interrupt_exit"].(bool)
	return v
}

func clearInterrupt(doc *document.Document) {
	delete(doc.Root, "_interrupt_exit")
}

// stackPopIndexPath builds the /stack/<n> path a removal patch is recorded
// against, using the index the element occupied before it was popped.
func stackPopIndexPath(n int) string {
	return "/stack/" + strconv.Itoa(n)
}
