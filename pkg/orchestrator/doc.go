// Package orchestrator wires the loader → parser → extractor → renderer →
// writer pipeline behind a single Generate call.
//
// Generate extracts the template model from the template document before
// rendering, but the extracted model is not bound into the render context:
// extraction acts as a well-formedness check and the caller supplies the
// render context directly. Use Inspect to obtain the model itself, and
// TemplateModel.RenderContext to render with it explicitly.
package orchestrator
