package propkit

import (
	"errors"
	"strings"
	"testing"
)

func expectPanic(t *testing.T, sentinel error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a construction panic")
		}
		err, ok := r.(*BuildError)
		if !ok {
			t.Fatalf("expected *BuildError, got %T", r)
		}
		if sentinel != nil && !errors.Is(err, sentinel) {
			t.Fatalf("expected %v, got %v", sentinel, err)
		}
	}()
	fn()
}

func TestOneOf(t *testing.T) {
	d := OneOf(1, 2, 3)

	if !d.Check(2) {
		t.Error("expected enumerated value to pass")
	}
	if d.Check(4) {
		t.Error("expected non-enumerated value to fail")
	}
	// Identity comparison, not coercion.
	if d.Check("2") {
		t.Error("expected string '2' to fail against int choices")
	}
}

func TestOneOfDerivesTypes(t *testing.T) {
	d := OneOf(1, 2, "three")

	if len(d.Type) != 2 || d.Type[0] != TypeNumber || d.Type[1] != TypeString {
		t.Errorf("expected derived tags [number string], got %v", d.Type)
	}
}

func TestOneOfNil(t *testing.T) {
	d := OneOf(nil, "on", "off").IsRequired()

	if !d.Check(nil) {
		t.Error("expected nil to pass when enumerated")
	}
	if !OneOf("on", "off").Check(nil) {
		t.Error("expected nil to pass an optional oneOf via the absence rule")
	}
	if OneOf("on", "off").IsRequired().Check(nil) {
		t.Error("expected nil to fail a required oneOf that does not enumerate it")
	}
}

func TestOneOfEmptyPanics(t *testing.T) {
	expectPanic(t, ErrEmptyList, func() { OneOf() })
}

func TestOneOfTypeCheapPath(t *testing.T) {
	d := OneOfType(TypeString, TypeNumber)

	// All-tag entry lists degrade to a plain Type set with no validator.
	if len(d.alts) != 0 {
		t.Errorf("expected no alternatives on the cheap path, got %d", len(d.alts))
	}
	if len(d.Type) != 2 {
		t.Errorf("expected two tags, got %v", d.Type)
	}

	if !d.Check("x") || !d.Check(42) {
		t.Error("expected string and number to pass")
	}
	if d.Check(true) {
		t.Error("expected bool to fail")
	}
}

func TestOneOfTypeDescriptors(t *testing.T) {
	d := OneOfType(String(), ArrayOf(TypeNumber))

	if !d.Check("x") {
		t.Error("expected string alternative to match")
	}
	if !d.Check([]any{1, 2}) {
		t.Error("expected number array alternative to match")
	}
	if d.Check([]any{"a"}) {
		t.Error("expected string array to fail both alternatives")
	}
}

func TestOneOfTypeUntaggedEntryKeepsLaterAlternatives(t *testing.T) {
	even := func(v any) bool {
		n, ok := v.(int)
		return ok && n%2 == 0
	}
	d := OneOfType(Custom(even), TypeString)

	// A tagless entry opens the coarse tag set but must not drop the
	// alternatives declared after it.
	if len(d.alts) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(d.alts))
	}
	if d.Type != nil {
		t.Errorf("expected an open tag set, got %v", d.Type)
	}

	if !d.Check(4) {
		t.Error("expected even int to match the predicate alternative")
	}
	if !d.Check("hello") {
		t.Error("expected string to match the second alternative")
	}
	if d.Check(3) {
		t.Error("expected odd int to fail both alternatives")
	}
}

func TestOneOfTypeRequiredRejectsNil(t *testing.T) {
	d := OneOfType(String(), InstanceOf[int]())

	if !d.Check(nil) {
		t.Error("expected optional oneOfType to accept nil")
	}
	// The composite's required flag holds even though its nested
	// alternatives are individually optional.
	if d.IsRequired().Check(nil) {
		t.Error("expected required oneOfType to reject nil")
	}
}

func TestOneOfTypeDiagnosticNamesAlternatives(t *testing.T) {
	err := CheckType(OneOfType(String(), Integer()), true)
	if err == nil {
		t.Fatal("expected failure")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !strings.Contains(verr.Reason, "alternative 0") || !strings.Contains(verr.Reason, "alternative 1") {
		t.Errorf("expected per-alternative reasons, got %q", verr.Reason)
	}
}

func TestOneOfTypeEmptyPanics(t *testing.T) {
	expectPanic(t, ErrEmptyList, func() { OneOfType() })
}

func TestArrayOf(t *testing.T) {
	d := ArrayOf(TypeNumber)

	if !d.Check([]any{1, 2, 3}) {
		t.Error("expected homogeneous array to pass")
	}
	if d.Check([]any{1, "x"}) {
		t.Error("expected mixed array to fail")
	}
	if d.Check("not an array") {
		t.Error("expected non-array to fail")
	}
	if !d.Check([]any{}) {
		t.Error("expected empty array to pass")
	}
}

func TestArrayOfDiagnosticNamesIndex(t *testing.T) {
	err := CheckType(ArrayOf(TypeNumber), []any{1, "x"})
	if err == nil {
		t.Fatal("expected failure")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Path != "[1]" {
		t.Errorf("expected path [1], got %q", verr.Path)
	}
}

func TestArrayOfNested(t *testing.T) {
	d := ArrayOf(ArrayOf(TypeNumber))

	if !d.Check([]any{[]any{1}, []any{2, 3}}) {
		t.Error("expected nested arrays to pass")
	}

	err := CheckType(d, []any{[]any{1}, []any{"x"}})
	if err == nil {
		t.Fatal("expected failure")
	}
	var verr *ValidationError
	errors.As(err, &verr)
	if verr.Path != "[1][0]" {
		t.Errorf("expected path [1][0], got %q", verr.Path)
	}
}

func TestObjectOf(t *testing.T) {
	d := ObjectOf(TypeNumber)

	if !d.Check(map[string]any{"a": 1, "b": 2}) {
		t.Error("expected numeric values to pass")
	}
	if d.Check(map[string]any{"a": 1, "b": "x"}) {
		t.Error("expected mixed values to fail")
	}
	if d.Check([]any{1}) {
		t.Error("expected array to fail")
	}
}

func TestObjectOfDiagnosticNamesKey(t *testing.T) {
	err := CheckType(ObjectOf(TypeNumber), map[string]any{"a": 1, "b": "x"})
	if err == nil {
		t.Fatal("expected failure")
	}
	var verr *ValidationError
	errors.As(err, &verr)
	if verr.Path != ".b" {
		t.Errorf("expected path .b, got %q", verr.Path)
	}
}

func TestShape(t *testing.T) {
	d := Shape(map[string]any{
		"id":   Integer().IsRequired(),
		"name": String(),
	})

	if !d.Check(map[string]any{"id": 1}) {
		t.Error("expected object with required key to pass")
	}
	if !d.Check(map[string]any{"id": 1, "name": "a"}) {
		t.Error("expected fully declared object to pass")
	}
	if d.Check(map[string]any{}) {
		t.Error("expected missing required key to fail")
	}
	if d.Check(map[string]any{"id": "x"}) {
		t.Error("expected wrong key type to fail")
	}
	if d.Check("not an object") {
		t.Error("expected non-object to fail")
	}
}

func TestShapeStrictRejectsUndeclaredKeys(t *testing.T) {
	d := Shape(map[string]any{"id": Integer()})

	if d.Check(map[string]any{"id": 1, "extra": true}) {
		t.Error("expected undeclared key to fail a strict shape")
	}
}

func TestShapeLoose(t *testing.T) {
	strict := Shape(map[string]any{"id": Integer()})
	loose := strict.Loose()

	if !loose.Check(map[string]any{"id": 1, "extra": true}) {
		t.Error("expected loose shape to permit undeclared keys")
	}
	// Loose is non-destructive: the original stays strict.
	if strict.Check(map[string]any{"id": 1, "extra": true}) {
		t.Error("expected original shape to stay strict")
	}
}

func TestShapeMissingRequiredDiagnostic(t *testing.T) {
	err := CheckType(Shape(map[string]any{"id": Integer().IsRequired()}), map[string]any{})
	if err == nil {
		t.Fatal("expected failure")
	}
	var verr *ValidationError
	errors.As(err, &verr)
	if verr.Path != ".id" {
		t.Errorf("expected path .id, got %q", verr.Path)
	}
	if verr.Got != "missing required key" {
		t.Errorf("expected missing-key diagnostic, got %q", verr.Got)
	}
}

func TestShapeNestedPath(t *testing.T) {
	d := Shape(map[string]any{
		"user": Shape(map[string]any{"id": Integer().IsRequired()}),
	})

	err := CheckType(d, map[string]any{"user": map[string]any{"id": "x"}})
	if err == nil {
		t.Fatal("expected failure")
	}
	var verr *ValidationError
	errors.As(err, &verr)
	if verr.Path != ".user.id" {
		t.Errorf("expected path .user.id, got %q", verr.Path)
	}
}

func TestShapeMemberRequiredWithDefaultPanics(t *testing.T) {
	expectPanic(t, nil, func() {
		Shape(map[string]any{"id": Integer().IsRequired().Def(1)})
	})
}

func TestShapeBadEntryPanics(t *testing.T) {
	expectPanic(t, nil, func() {
		Shape(map[string]any{"bad": 42})
	})
}

type widget struct{ Name string }

type renderer interface{ Render() string }

type button struct{}

func (button) Render() string { return "button" }

func TestInstanceOf(t *testing.T) {
	d := InstanceOf[widget]()

	if !d.Check(widget{Name: "w"}) {
		t.Error("expected exact type to pass")
	}
	if d.Check(map[string]any{}) {
		t.Error("expected other type to fail")
	}
	if d.Check(&widget{}) {
		t.Error("expected pointer to fail an exact value type")
	}
	// Nil passes while optional, fails once required.
	if !d.Check(nil) {
		t.Error("expected optional instanceOf to accept nil")
	}
	if d.IsRequired().Check(nil) {
		t.Error("expected required instanceOf to reject nil")
	}
}

func TestInstanceOfInterface(t *testing.T) {
	d := InstanceOf[renderer]()

	if !d.Check(button{}) {
		t.Error("expected implementation to pass")
	}
	if d.Check(widget{}) {
		t.Error("expected non-implementation to fail")
	}
}

func TestCustom(t *testing.T) {
	even := func(v any) bool {
		n, ok := v.(int)
		return ok && n%2 == 0
	}
	d := Custom(even)

	if !d.Check(4) {
		t.Error("expected even to pass")
	}
	if d.Check(3) {
		t.Error("expected odd to fail")
	}
}

func TestCustomMessage(t *testing.T) {
	d := Custom(func(any) bool { return false }, "value must be shiny")

	err := CheckType(d, 1)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Error(), "value must be shiny") {
		t.Errorf("expected custom message in diagnostic, got %q", err.Error())
	}
}

func TestCustomNilPanics(t *testing.T) {
	expectPanic(t, nil, func() { Custom(nil) })
}

func TestToTypeNormalization(t *testing.T) {
	// Every accepted entry form behaves identically inside a composite.
	entries := []any{
		TypeString,
		String(),
		&String().Descriptor,
		PropSpec{Type: []ValueType{TypeString}},
	}
	for _, entry := range entries {
		d := ArrayOf(entry)
		if !d.Check([]any{"a", "b"}) {
			t.Errorf("entry %T: expected string array to pass", entry)
		}
		if d.Check([]any{1}) {
			t.Errorf("entry %T: expected number array to fail", entry)
		}
	}
}

func TestToTypePredicateEntry(t *testing.T) {
	d := ArrayOf(func(v any) bool { _, ok := v.(bool); return ok })

	if !d.Check([]any{true, false}) {
		t.Error("expected bool array to pass the predicate entry")
	}
	if d.Check([]any{"x"}) {
		t.Error("expected string array to fail the predicate entry")
	}
}

func TestToTypeRejectsUnknown(t *testing.T) {
	expectPanic(t, nil, func() { ArrayOf(42) })
}
