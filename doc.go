// Package propkit is a declarative prop validation library for UI component
// frameworks.
//
// A component author describes each input property's contract with a type
// descriptor carrying its coarse type, required flag, default value, and
// optional validator, and refines it through a chainable builder:
//
//	props := map[string]any{
//		"title": propkit.String().IsRequired(),
//		"count": propkit.Integer().Def(0),
//		"tags":  propkit.ArrayOf(propkit.TypeString).Def([]any{}),
//	}
//
// Composite validators combine or constrain primitives into recursive
// structures: OneOf, OneOfType, ArrayOf, ObjectOf, Shape, InstanceOf, Custom,
// and Expr (a CEL expression over the candidate value). The dispatcher
// (ValidateType, CheckType) decides pass or fail and produces one actionable
// diagnostic naming the failing prop and the index, key, or alternative
// inside composite values.
//
// Validation failures are reported, never raised: the loud dispatcher logs a
// single warning through the diagnostics sink (package diag) and returns
// false, while the silent form returns the descriptive error to the caller.
// Programmer misuse of the builder API (empty OneOf lists, Validate on a
// composite, name collisions in Extend) is a hard *BuildError instead.
//
// NewTypes creates an independent namespace of all validators with its own
// mutable default values, extendable with new named validators via Extend and
// FromType, and optionally instrumented with OpenTelemetry spans and
// counters. Package preset loads namespace defaults and named validators from
// YAML files.
package propkit
