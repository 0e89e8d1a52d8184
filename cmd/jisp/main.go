// Command jisp runs JISP documents: JSON trees whose program, data, and
// execution trace are all encoded as JSON (spec.md §1). This file is the
// external boundary spec.md places out of the core's scope (§1, §6): CLI
// flag parsing, the streaming reader, and the fatal-error banner. It is
// hand-rolled rather than built on a flags library, following the teacher
// library's own lack of a CLI package — go-jsonpatch is a library with no
// cmd/ of its own, so there is nothing in the pack to imitate here beyond
// "keep it small and explicit".
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/flintwinters/jisp/document"
	"github.com/flintwinters/jisp/eval"
	"github.com/flintwinters/jisp/jisperr"
)

type cliFlags struct {
	raw      bool
	compact  bool
	filename string
}

// parseArgs implements spec.md §6's CLI grammar: one optional positional
// filename ("-" or absence reads stdin), short flags -r/-c, and combined
// forms like -rc.
func parseArgs(args []string) cliFlags {
	var f cliFlags
	for _, a := range args {
		if strings.HasPrefix(a, "-") && a != "-" && a != "--" {
			for _, c := range a[1:] {
				switch c {
				case 'r':
					f.raw = true
				case 'c':
					f.compact = true
				}
			}
			continue
		}
		f.filename = a
	}
	return f
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := parseArgs(args)

	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync() //nolint:errcheck
	sugar := logger.Sugar()

	var in io.Reader = stdin
	if flags.filename != "" && flags.filename != "-" {
		f, err := os.Open(flags.filename)
		if err != nil {
			fatal(stderr, sugar, jisperr.Wrap(jisperr.KindIO, err, "opening %s", flags.filename), nil)
			return 1
		}
		defer f.Close()
		in = f
	}

	// seen accumulates every byte the decoder has consumed so far, so a
	// *json.SyntaxError's Offset (valid only against bytes already read)
	// can be turned into a line/column (spec.md §6 "source position of a
	// parse error when applicable").
	var seen bytes.Buffer
	decoder := json.NewDecoder(io.TeeReader(bufio.NewReader(in), &seen))
	for {
		var raw any
		if err := decoder.Decode(&raw); err != nil {
			if err == io.EOF {
				break
			}
			je := jisperr.Wrap(jisperr.KindParse, err, "decoding input")
			if se, ok := err.(*json.SyntaxError); ok {
				pos := jisperr.PositionFromOffset(seen.Bytes(), se.Offset)
				je = je.WithPosition(pos)
			}
			fatal(stderr, sugar, je, nil)
			return 1
		}
		root, ok := raw.(map[string]any)
		if !ok {
			fatal(stderr, sugar, jisperr.New(jisperr.KindMissingRoot, "document root is not an object"), nil)
			return 1
		}

		doc := document.New(root)
		ev := eval.New(doc, sugar)
		ev.Out = stdout
		ev.Raw = flags.raw
		ev.Compact = flags.compact

		if err := ev.ProcessEntrypoint(); err != nil {
			je, ok := err.(*jisperr.Error)
			if !ok {
				je = jisperr.Wrap(jisperr.KindInternal, err, "unexpected error")
			}
			fatal(stderr, sugar, je, root)
			return 1
		}
	}
	return 0
}

func fatal(w io.Writer, log *zap.SugaredLogger, err *jisperr.Error, root map[string]any) {
	jisperr.ReportFatal(w, log, err, root)
}
