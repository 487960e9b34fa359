package propkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for construction-time failures. These can be matched with
// errors.Is() regardless of the BuildError wrapping them.
var (
	// ErrEmptyList indicates a composite validator was built from an empty
	// or missing list of values or types.
	ErrEmptyList = errors.New("empty list of values or types")

	// ErrNameTaken indicates an Extend call collided with a validator name
	// already present in the namespace.
	ErrNameTaken = errors.New("validator name already registered")

	// ErrNotValidable indicates Validate was chained onto a descriptor whose
	// validator is synthesized and must not be replaced.
	ErrNotValidable = errors.New("descriptor does not accept a custom validator")

	// ErrNotShape indicates Loose was chained onto a non-shape descriptor.
	ErrNotShape = errors.New("descriptor is not a shape")

	// ErrUnknownValidator indicates a namespace lookup for a name that was
	// never registered.
	ErrUnknownValidator = errors.New("validator not found")

	// ErrBadExpression indicates an Expr validator could not be compiled.
	ErrBadExpression = errors.New("invalid validator expression")
)

// Build error kinds categorize programmer misuse of the builder API, as
// opposed to validation failures, which are reported through the diagnostics
// sink and never raised.
const (
	// KindArgument covers malformed builder arguments (empty OneOf lists,
	// non-normalizable shape entries, nil Custom predicates).
	KindArgument = "argument"

	// KindCollision covers name collisions when extending a namespace.
	KindCollision = "collision"

	// KindChain covers chain methods invoked on ineligible descriptors.
	KindChain = "chain"

	// KindConfig covers malformed preset or namespace configuration.
	KindConfig = "config"
)

// BuildError is the hard-failure type for programmer misuse of the builder
// API. It wraps an underlying sentinel with the operation that failed and a
// kind, and supports errors.Is and errors.As.
//
// Builder paths that must stay chainable (composite constructors, Validate,
// Loose) panic with a *BuildError; call-style APIs (Extend, Get, Expr,
// preset loading) return it.
type BuildError struct {
	// Op is the operation that failed (e.g. "OneOf", "Namespace.Extend").
	Op string

	// Kind categorizes the misuse (KindArgument, KindCollision, ...).
	Kind string

	// Err is the underlying sentinel error.
	Err error

	// Context carries optional details such as the colliding name.
	Context map[string]any
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("propkit: %s: %s", e.Op, e.Kind)
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("propkit: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}
	return fmt.Sprintf("propkit: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Is matches either another BuildError by kind (and op, when set on the
// target) or the underlying sentinel.
func (e *BuildError) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*BuildError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}
	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with the given context merged in.
func (e *BuildError) WithContext(ctx map[string]any) *BuildError {
	dup := *e
	dup.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		dup.Context[k] = v
	}
	for k, v := range ctx {
		dup.Context[k] = v
	}
	return &dup
}

// NewArgumentError creates a BuildError with KindArgument.
func NewArgumentError(op string, err error) *BuildError {
	return &BuildError{Op: op, Kind: KindArgument, Err: err}
}

// NewCollisionError creates a BuildError with KindCollision.
func NewCollisionError(op string, err error) *BuildError {
	return &BuildError{Op: op, Kind: KindCollision, Err: err}
}

// NewChainError creates a BuildError with KindChain.
func NewChainError(op string, err error) *BuildError {
	return &BuildError{Op: op, Kind: KindChain, Err: err}
}

// NewConfigError creates a BuildError with KindConfig.
func NewConfigError(op string, err error) *BuildError {
	return &BuildError{Op: op, Kind: KindConfig, Err: err}
}

// ValidationError describes one failed check of a value against a descriptor.
// It is recoverable: the loud dispatcher renders it as a single diagnostic
// line and returns false, the silent dispatcher returns it to the caller.
type ValidationError struct {
	// Prop is the prop name the check ran under, when known.
	Prop string

	// Path locates the failing element inside a composite value, e.g.
	// "[1]", ".id", "[0].tags".
	Path string

	// Expected describes the expected type or constraint.
	Expected string

	// Got describes the received value.
	Got string

	// Reason is an optional refinement, e.g. the failing alternative of a
	// oneOfType or a custom validator's message.
	Reason string
}

// Error implements the error interface, rendering the single-line diagnostic
// the loud dispatcher logs.
func (e *ValidationError) Error() string {
	prop := e.Prop
	if prop == "" {
		prop = "value"
	}
	msg := fmt.Sprintf("invalid prop %q", prop)
	if e.Path != "" {
		msg += fmt.Sprintf(" at %s", e.Path)
	}
	msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Got)
	if e.Reason != "" {
		msg += fmt.Sprintf(" (%s)", e.Reason)
	}
	return msg
}
