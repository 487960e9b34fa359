// Package preset provides loading and parsing of preset.yaml files.
// Presets declare per-kind default values and named validators (enumerations
// and CEL expressions) that are applied onto a propkit namespace, so design
// systems can ship prop contracts as data.
package preset
