// Package template defines the engine-agnostic template renderer contract.
// The pongo subpackage provides the Jinja2-compatible implementation.
package template
