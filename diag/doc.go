// Package diag provides the diagnostics sink used by prop validation.
//
// Validation failures are reported, not raised: a failing check writes a
// single warning record through a Sink and carries on. The dispatcher probes
// descriptors in silent mode by suspending the sink for the duration of one
// check; Silence returns a restore function so a panic mid-check cannot leave
// the sink muted.
package diag
