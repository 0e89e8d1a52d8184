package jisperr

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"go.uber.org/zap"
)

// ReportFatal writes the banner described in spec.md §7: the error kind and
// message, a best-effort native stack trace, the source position when the
// error is a parse error, and a pretty-printed snapshot of the document.
// log may be nil; every call is guarded so a missing logger never prevents
// the banner itself from reaching w.
func ReportFatal(w io.Writer, log *zap.SugaredLogger, err *Error, root map[string]any) {
	if log != nil {
		fields := []any{"kind", string(err.Kind)}
		if err.Pos != nil {
			fields = append(fields, "line", err.Pos.Line, "column", err.Pos.Column)
		}
		log.Errorw("jisp: fatal error", append(fields, "message", err.Message)...)
	}

	fmt.Fprintf(w, "JISP fatal error: %s\n", err.Message)
	fmt.Fprintf(w, "kind: %s\n", err.Kind)
	if err.Pos != nil {
		fmt.Fprintf(w, "at byte %d (line %d, col %d)\n", err.Pos.Offset, err.Pos.Line, err.Pos.Column)
	}

	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	fmt.Fprintf(w, "---- native stack (best effort) ----\n%s\n", buf[:n])

	if root != nil {
		if pretty, merr := json.MarshalIndent(root, "", "  "); merr == nil {
			fmt.Fprintf(w, "---- document snapshot ----\n%s\n", pretty)
		}
	}
}
