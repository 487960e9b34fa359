// Package is provides runtime type predicates over dynamic values.
//
// These functions classify an `any` value by its runtime shape (string,
// integer, function, plain object, ...) and are the building blocks for the
// native prop validators. All predicates are pure and total: they accept any
// value, including nil, and never panic.
package is
