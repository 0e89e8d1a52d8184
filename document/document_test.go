package document

import "testing"

func TestRetainReleaseBalance(t *testing.T) {
	d := New(map[string]any{})
	if d.RefCount() != 0 {
		t.Fatalf("new document should start at ref 0, got %d", d.RefCount())
	}
	Retain(d)
	Retain(d)
	if d.RefCount() != 2 {
		t.Fatalf("expected ref 2, got %d", d.RefCount())
	}
	Release(d)
	if d.Destroyed() {
		t.Fatalf("document destroyed after one of two releases")
	}
	Release(d)
	if !d.Destroyed() {
		t.Fatalf("document not destroyed after balancing releases")
	}
}

func TestRetainClampsNegativeRef(t *testing.T) {
	d := New(map[string]any{})
	d.ref = -5
	Retain(d)
	if d.RefCount() != 1 {
		t.Fatalf("expected clamp-then-increment to yield 1, got %d", d.RefCount())
	}
}

func TestReleaseNeverGoesNegative(t *testing.T) {
	d := New(map[string]any{})
	Release(d)
	Release(d)
	if d.RefCount() != 0 {
		t.Fatalf("expected ref to stay at 0, got %d", d.RefCount())
	}
	if !d.Destroyed() {
		t.Fatalf("expected destroyed after release at zero")
	}
}

func TestIsReversibleDefaultsFalse(t *testing.T) {
	if IsReversible(map[string]any{}) {
		t.Fatalf("absent is_reversible should default to false")
	}
	if !IsReversible(map[string]any{"is_reversible": true}) {
		t.Fatalf("expected true")
	}
	if IsReversible(map[string]any{"is_reversible": "true"}) {
		t.Fatalf("non-bool is_reversible should not be truthy")
	}
}

func TestCopyIsolatesFromSource(t *testing.T) {
	original := map[string]any{"a": []any{1.0, 2.0}}
	cp, err := Copy(original)
	if err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	cpMap := cp.(map[string]any)
	cpMap["a"].([]any)[0] = 99.0
	if original["a"].([]any)[0] != 1.0 {
		t.Fatalf("Copy leaked aliasing into source: %v", original)
	}
}

func TestStackPushPop(t *testing.T) {
	d := New(map[string]any{"stack": []any{}})
	d.PushStack(1.0)
	d.PushStack(2.0)
	stack, err := d.Stack()
	if err != nil {
		t.Fatalf("Stack error: %v", err)
	}
	if len(stack) != 2 {
		t.Fatalf("expected 2 elements, got %v", stack)
	}
	v, ok := d.PopStack()
	if !ok || v != 2.0 {
		t.Fatalf("expected to pop 2.0, got %v ok=%v", v, ok)
	}
}

func TestMissingStackIsAnError(t *testing.T) {
	d := New(map[string]any{})
	if _, err := d.Stack(); err != ErrMissingStack {
		t.Fatalf("expected ErrMissingStack, got %v", err)
	}
}

func TestCallStackBalance(t *testing.T) {
	d := New(map[string]any{})
	d.PushCallFrame("/entrypoint")
	d.PushCallFrame("/entrypoint/0/.")
	if got := d.CallStack(); len(got) != 2 {
		t.Fatalf("expected depth 2, got %v", got)
	}
	d.PopCallFrame()
	d.PopCallFrame()
	if got := d.CallStack(); len(got) != 0 {
		t.Fatalf("expected depth 0 after balanced pops, got %v", got)
	}
}
