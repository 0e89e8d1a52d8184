package document

import "errors"

// ErrRootNotObject is returned by Decode when the top-level JSON value is
// not an object; every well-known JISP field (stack, entrypoint, residual,
// ...) lives on an object root.
var ErrRootNotObject = errors.New("document: root is not a JSON object")
