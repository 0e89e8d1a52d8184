package eval

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/flintwinters/jisp/jisperr"
	"github.com/flintwinters/jisp/residual"
)

// opLoad implements load: pops a path string, parses the file as JSON
// allowing comments and trailing commas (spec.md §4.6), and pushes a deep
// copy of its root onto the stack. hujson.Standardize strips the
// JSON5-ish extensions down to strict JSON before the standard decoder
// sees it — the same extension set the rest of the retrieval pack reaches
// for when a config/document format needs to be forgiving of human edits.
func opLoad(ev *Evaluator) error {
	stack, err := requireStack(ev, 1)
	if err != nil {
		return err
	}
	top := stack[len(stack)-1]
	path, ok := top.(string)
	if !ok {
		return jisperr.New(jisperr.KindTypeMismatch, "load: path is not a string")
	}
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: top})

	data, err := os.ReadFile(path)
	if err != nil {
		return jisperr.Wrap(jisperr.KindIO, err, "load: %s", path)
	}
	standard, err := hujson.Standardize(data)
	if err != nil {
		je := jisperr.Wrap(jisperr.KindParse, err, "load: parse %s", path)
		if se, ok := err.(*json.SyntaxError); ok {
			je = je.WithPosition(jisperr.PositionFromOffset(data, se.Offset))
		}
		return je
	}
	var v any
	if err := json.Unmarshal(standard, &v); err != nil {
		je := jisperr.Wrap(jisperr.KindParse, err, "load: decode %s", path)
		if se, ok := err.(*json.SyntaxError); ok {
			je = je.WithPosition(jisperr.PositionFromOffset(standard, se.Offset))
		}
		return je
	}
	return ev.pushLiteral(v)
}

// opStore implements store: pops [value, path] and writes value as
// pretty-printed JSON to path. Design notes §9 resolve the source's
// double-write (whole document, then the popped value, to the same
// file — the second overwrite makes the first pointless) as a bug: this
// writes only the popped value.
func opStore(ev *Evaluator) error {
	stack, err := requireStack(ev, 2)
	if err != nil {
		return err
	}
	pathVal := stack[len(stack)-1]
	value := stack[len(stack)-2]
	path, ok := pathVal.(string)
	if !ok {
		return jisperr.New(jisperr.KindTypeMismatch, "store: path is not a string")
	}

	ev.Log.BeginGroup()
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: pathVal})

	stack2, _ := ev.Doc.Stack()
	ev.Doc.SetStack(stack2[:len(stack2)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack2) - 1), Value: value})
	ev.Log.CommitGroup()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return jisperr.Wrap(jisperr.KindInternal, err, "store: marshal failed")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return jisperr.Wrap(jisperr.KindIO, err, "store: %s", path)
	}
	return nil
}

// opPrintJSON implements print_json: writes the document to ev.Out,
// honoring the compact output flag the CLI sets (spec.md §4.6, §6). The
// raw flag ("print the root unquoted when it is a string") has no effect
// here since Document.Root is always a JSON object (document.Decode
// rejects non-object input); it only matters for a bare scalar value
// printed outside of a document, which this operation never receives.
func opPrintJSON(ev *Evaluator) error {
	var data []byte
	var err error
	if ev.Compact {
		data, err = json.Marshal(ev.Doc.Root)
	} else {
		data, err = json.MarshalIndent(ev.Doc.Root, "", "  ")
	}
	if err != nil {
		return jisperr.Wrap(jisperr.KindInternal, err, "print_json: marshal failed")
	}
	fmt.Fprintln(ev.Out, string(data))
	return nil
}

// opPrintError implements print_error: pops one value and renders a
// structured error object (spec.md §6) in human-friendly form.
func opPrintError(ev *Evaluator) error {
	stack, err := requireStack(ev, 1)
	if err != nil {
		return err
	}
	top := stack[len(stack)-1]
	ev.Doc.SetStack(stack[:len(stack)-1])
	ev.Log.Record(residual.Operation{Op: residual.Remove, Path: stackPopIndexPath(len(stack) - 1), Value: top})

	m, ok := top.(map[string]any)
	if !ok {
		fmt.Fprintf(ev.Out, "%v\n", top)
		return nil
	}
	kind, _ := m["kind"].(string)
	msg, _ := m["message"].(string)
	fmt.Fprintf(ev.Out, "error: %s: %s\n", kind, msg)
	if details, ok := m["details"].(map[string]any); ok {
		db, _ := json.MarshalIndent(details, "", "  ")
		fmt.Fprintf(ev.Out, "%s\n", db)
	}
	return nil
}
