// Package document exposes the public contracts for the loader and parser
// stages. A loader fetches raw template documents from a Source; a parser turns
// those bytes into a tree of Nodes. Implementations live under
// internal/document to keep the XML library hidden from consumers.
package document
