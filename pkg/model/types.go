package model

import internalmodel "github.com/goliatone/go-promptgen/internal/model"

// DefaultTemplateName is the name assigned to documents without one.
const DefaultTemplateName = internalmodel.DefaultTemplateName

// AnnotationKind re-exports the internal annotation enumeration.
type AnnotationKind = internalmodel.AnnotationKind

const (
	AnnotationDescription = internalmodel.AnnotationDescription
	AnnotationNote        = internalmodel.AnnotationNote
	AnnotationExample     = internalmodel.AnnotationExample
)

// SectionType re-exports the internal section type.
type SectionType = internalmodel.SectionType

const (
	SectionLanguages    = internalmodel.SectionLanguages
	SectionRules        = internalmodel.SectionRules
	SectionRequirements = internalmodel.SectionRequirements
	SectionLibraries    = internalmodel.SectionLibraries
)

type Annotation = internalmodel.Annotation
type Item = internalmodel.Item
type Section = internalmodel.Section
type TemplateModel = internalmodel.TemplateModel

// ParseAnnotationKind maps an element tag onto an AnnotationKind.
func ParseAnnotationKind(tag string) (AnnotationKind, bool) {
	return internalmodel.ParseAnnotationKind(tag)
}

// ItemListKeys returns the render context keys holding item records.
func ItemListKeys() []string {
	return internalmodel.ItemListKeys()
}

// ItemRecord builds the {text, sub_items} record templates iterate over.
func ItemRecord(text string, subItems []any) map[string]any {
	return internalmodel.ItemRecord(text, subItems)
}
