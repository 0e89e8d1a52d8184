package pointer

import (
	jsonpointer "github.com/agentflare-ai/go-jsonpointer"

	"github.com/flintwinters/jisp/jisperr"
)

// SplitParent splits path into the path of its parent container and the
// final token, honoring the "/" root convention (the parent of a
// single-token path is the root itself).
func SplitParent(path string) (parentPath, token string, err error) {
	if path == "/" || path == "" {
		return "", "", jisperr.New(jisperr.KindInvalidArg, "path %q has no parent", path)
	}
	tokens, perr := jsonpointer.New(path)
	if perr != nil {
		return "", "", jisperr.Wrap(jisperr.KindPathNotFound, perr, "malformed path %q", path)
	}
	if len(tokens) == 0 {
		return "", "", jisperr.New(jisperr.KindInvalidArg, "empty path %q", path)
	}
	token = tokens[len(tokens)-1]
	if len(tokens) == 1 {
		return "/", token, nil
	}
	return jsonpointer.Pointer(tokens[:len(tokens)-1]).String(), token, nil
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// writeBack assigns value into the container at path's parent, the one
// mutation primitive SetScalar, AppendAt and ptr_set all build on.
func writeBack(root any, path string, value any) error {
	parentPath, token, err := SplitParent(path)
	if err != nil {
		return err
	}
	parent, err := Resolve(root, parentPath)
	if err != nil {
		return err
	}
	switch p := parent.(type) {
	case map[string]any:
		p[token] = value
		return nil
	case []any:
		idx, ierr := jsonpointer.ParseArrayIndex(token)
		if ierr != nil {
			return jisperr.New(jisperr.KindPathNotFound, "invalid array index %q in path %q", token, path)
		}
		if idx >= uint64(len(p)) {
			return jisperr.New(jisperr.KindPathOutOfRange, "index %d out of range (len %d) at %q", idx, len(p), path)
		}
		p[idx] = value
		return nil
	default:
		return jisperr.New(jisperr.KindTypeMismatch, "parent of %q is not traversable", path)
	}
}

// SetScalar writes value in place at path, replacing an existing scalar.
// It returns the previous value (for residual logging) and fails with
// TypeMismatch if the existing target is an object or array: spec.md's
// Non-goals explicitly exclude a general object/array setter, scalars only.
func SetScalar(root any, path string, value any) (previous any, err error) {
	previous, err = Resolve(root, path)
	if err != nil {
		return nil, err
	}
	if isContainer(previous) {
		return nil, jisperr.New(jisperr.KindTypeMismatch, "set target %q is not a scalar", path)
	}
	if err := writeBack(root, path, value); err != nil {
		return nil, err
	}
	return previous, nil
}

// AppendAt resolves path to an array and appends value to it, writing the
// (possibly reallocated) slice back into its parent container.
func AppendAt(root any, path string, value any) error {
	target, err := Resolve(root, path)
	if err != nil {
		return err
	}
	arr, ok := target.([]any)
	if !ok {
		return jisperr.New(jisperr.KindTypeMismatch, "append target %q is not an array", path)
	}
	return writeBack(root, path, append(arr, value))
}
