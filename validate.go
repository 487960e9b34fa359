package propkit

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/propkit/propkit/diag"
	"github.com/propkit/propkit/is"
)

// ValidateType checks value against spec and reports the result. spec is
// normalized like a composite entry: a descriptor, a coarse ValueType tag, or
// a raw PropSpec. On failure exactly one diagnostic line is written through
// the process sink; the sink is silenced while the check itself runs, so a
// user validator that warns cannot make the failure fire twice.
func ValidateType(spec, value any) bool {
	return validateWith(diag.Default(), "", spec, value)
}

// ValidateProp is ValidateType with a prop name attached to the diagnostic.
func ValidateProp(name string, spec, value any) bool {
	return validateWith(diag.Default(), name, spec, value)
}

// CheckType is the silent form of ValidateType: instead of logging it returns
// the descriptive *ValidationError, or nil when the value passes.
func CheckType(spec, value any) error {
	if err := checkWith(diag.Default(), "", spec, value); err != nil {
		return err
	}
	return nil
}

// CheckProp is CheckType with a prop name attached to the error.
func CheckProp(name string, spec, value any) error {
	if err := checkWith(diag.Default(), name, spec, value); err != nil {
		return err
	}
	return nil
}

func validateWith(sink *diag.Sink, name string, spec, value any) bool {
	err := checkWith(sink, name, spec, value)
	if err == nil {
		return true
	}
	sink.Warn(err.Error())
	return false
}

func checkWith(sink *diag.Sink, name string, spec, value any) *ValidationError {
	d := toType("ValidateType", spec)

	restore := sink.Silence()
	defer restore()

	err := checkValue(d, value, "")
	if err == nil {
		return nil
	}
	if err.Prop == "" {
		if name != "" {
			err.Prop = name
		} else {
			err.Prop = d.name
		}
	}
	return err
}

// checkValue applies the optional-absence rule before the kind dispatch:
// absence of an optional prop is always valid.
func checkValue(d *Descriptor, value any, path string) *ValidationError {
	if is.Nil(value) && !d.Required {
		return nil
	}
	return d.check(value, path)
}

// check dispatches on the descriptor kind. Composite kinds recurse through
// their nested descriptors, extending path so the diagnostic names the
// failing index, key, or alternative; everything else runs the generic
// tag-then-validator rule.
func (d *Descriptor) check(value any, path string) *ValidationError {
	switch d.Kind {
	case KindOneOf:
		return d.checkOneOf(value, path)
	case KindOneOfType:
		if len(d.alts) > 0 {
			return d.checkOneOfType(value, path)
		}
		return d.checkGeneric(value, path)
	case KindArrayOf:
		return d.checkArrayOf(value, path)
	case KindObjectOf:
		return d.checkObjectOf(value, path)
	case KindShape:
		return d.checkShape(value, path)
	case KindInstanceOf:
		return d.checkInstanceOf(value, path)
	case KindCustom:
		return d.checkCustom(value, path)
	default:
		return d.checkGeneric(value, path)
	}
}

// checkGeneric implements the dispatcher core for native descriptors and raw
// prop specs: the coarse tag set is checked first, but an installed validator
// is authoritative when present.
func (d *Descriptor) checkGeneric(value any, path string) *ValidationError {
	if d.validator != nil {
		if d.validator(value) {
			return nil
		}
		return &ValidationError{
			Path:     path,
			Expected: typeList(d.Type),
			Got:      describe(value),
			Reason:   "custom validation failed",
		}
	}

	if len(d.Type) == 0 {
		return nil
	}
	for _, tag := range d.Type {
		if matchesType(tag, value) {
			return nil
		}
	}
	return &ValidationError{
		Path:     path,
		Expected: typeList(d.Type),
		Got:      describe(value),
	}
}

func (d *Descriptor) checkOneOf(value any, path string) *ValidationError {
	for _, choice := range d.choices {
		if identical(choice, value) {
			return nil
		}
	}
	parts := make([]string, len(d.choices))
	for i, choice := range d.choices {
		parts[i] = fmt.Sprintf("%v", choice)
	}
	return &ValidationError{
		Path:     path,
		Expected: "one of [" + strings.Join(parts, ", ") + "]",
		Got:      describe(value),
	}
}

func (d *Descriptor) checkOneOfType(value any, path string) *ValidationError {
	reasons := make([]string, 0, len(d.alts))
	for i, alt := range d.alts {
		// Dispatch on alt.check directly: the outer descriptor already
		// applied the absence rule, so a required composite must not be
		// let through by a nested optional alternative accepting nil.
		err := alt.check(value, path)
		if err == nil {
			return nil
		}
		reasons = append(reasons, fmt.Sprintf("alternative %d: expected %s", i, err.Expected))
	}
	return &ValidationError{
		Path:     path,
		Expected: typeList(d.Type),
		Got:      describe(value),
		Reason:   strings.Join(reasons, "; "),
	}
}

func (d *Descriptor) checkArrayOf(value any, path string) *ValidationError {
	if !is.Array(value) {
		return &ValidationError{Path: path, Expected: "array", Got: describe(value)}
	}
	rv := reflect.ValueOf(value)
	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i).Interface()
		if err := checkValue(d.elem, el, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (d *Descriptor) checkObjectOf(value any, path string) *ValidationError {
	if !is.PlainObject(value) {
		return &ValidationError{Path: path, Expected: "object", Got: describe(value)}
	}
	rv := reflect.ValueOf(value)
	for _, key := range sortedKeys(rv) {
		kv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !kv.IsValid() {
			continue
		}
		if err := checkValue(d.elem, kv.Interface(), path+"."+key); err != nil {
			return err
		}
	}
	return nil
}

func (d *Descriptor) checkShape(value any, path string) *ValidationError {
	if !is.PlainObject(value) {
		return &ValidationError{Path: path, Expected: "object", Got: describe(value)}
	}
	rv := reflect.ValueOf(value)

	for _, key := range d.schemaKeys {
		child := d.schema[key]
		kv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !kv.IsValid() {
			if child.Required {
				return &ValidationError{
					Path:     path + "." + key,
					Expected: typeList(child.Type),
					Got:      "missing required key",
				}
			}
			continue
		}
		if err := checkValue(child, kv.Interface(), path+"."+key); err != nil {
			return err
		}
	}

	if !d.loose {
		for _, key := range sortedKeys(rv) {
			if _, declared := d.schema[key]; !declared {
				return &ValidationError{
					Path:     path + "." + key,
					Expected: "no undeclared keys",
					Got:      fmt.Sprintf("undeclared key %q", key),
				}
			}
		}
	}
	return nil
}

func (d *Descriptor) checkInstanceOf(value any, path string) *ValidationError {
	if d.instance != nil && d.instance(value) {
		return nil
	}
	return &ValidationError{
		Path:     path,
		Expected: "instance of " + d.typeName,
		Got:      describe(value),
	}
}

func (d *Descriptor) checkCustom(value any, path string) *ValidationError {
	if d.validator(value) {
		return nil
	}
	reason := d.message
	if reason == "" {
		reason = fmt.Sprintf("predicate %q returned false", d.typeName)
	}
	return &ValidationError{
		Path:     path,
		Expected: "value accepted by " + d.typeName,
		Got:      describe(value),
		Reason:   reason,
	}
}
