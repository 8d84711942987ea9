// Package model defines the intermediate template model (ITM) produced by the
// extractor: a template name and description plus ordered sections, each
// holding ordered items with typed annotations (description, note, example).
// Only sections typed languages, rules, requirements, or libraries carry
// items; every other section keeps its direct text alone. The types alias
// the internal/model implementation that the extractor fills.
package model
