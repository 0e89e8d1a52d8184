package eval

// opFunc is the operation-function shape every registry entry has: it
// reads and mutates ev.Doc (and, for pointer ops, ev.Ptrs) and returns a
// *jisperr.Error on failure.
type opFunc func(ev *Evaluator) error

// registry is the name -> operation-function table of spec.md §4.5,
// populated once at package init rather than resolved through a runtime
// name->id->function indirection: Go's map literal is already the
// compile-time dispatch table design notes §9 asks for, so there's no
// separate integer-id layer to maintain.
var registry = map[string]opFunc{
	"pop_and_store": opPopAndStore,
	"duplicate_top": opDuplicateTop,
	"add_two_top":   opAddTwoTop,
	"print_json":    opPrintJSON,
	"undo":          opUndo,
	"map_over":      opMapOver,
	"get":           opGet,
	"set":           opSet,
	"append":        opAppend,
	"ptr_new":       opPtrNew,
	"ptr_release":   opPtrRelease,
	"ptr_get":       opPtrGet,
	"ptr_set":       opPtrSet,
	"enter":         opEnter,
	"exit":          opExit,
	"test":          opTest,
	"print_error":   opPrintError,
	"load":          opLoad,
	"store":         opStore,
	"step":          opStep,
}
