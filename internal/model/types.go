package model

import "sort"

// DefaultTemplateName is used when the root element carries no name attribute.
const DefaultTemplateName = "unnamed_template"

// AnnotationKind enumerates the side-notes an item can carry.
type AnnotationKind string

const (
	AnnotationDescription AnnotationKind = "description"
	AnnotationNote        AnnotationKind = "note"
	AnnotationExample     AnnotationKind = "example"
)

// ParseAnnotationKind maps an element tag onto an AnnotationKind.
func ParseAnnotationKind(tag string) (AnnotationKind, bool) {
	switch AnnotationKind(tag) {
	case AnnotationDescription, AnnotationNote, AnnotationExample:
		return AnnotationKind(tag), true
	default:
		return "", false
	}
}

// Annotation is a typed side-note attached to an Item. Text may be empty.
type Annotation struct {
	Kind AnnotationKind `json:"kind" yaml:"kind"`
	Text string         `json:"text" yaml:"text"`
}

// Item is a leaf content unit (one language, rule, requirement, or library).
type Item struct {
	Text        string       `json:"text" yaml:"text"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// SectionType is free-form; the Section* constants are the values that
// trigger item extraction.
type SectionType string

const (
	SectionLanguages    SectionType = "languages"
	SectionRules        SectionType = "rules"
	SectionRequirements SectionType = "requirements"
	SectionLibraries    SectionType = "libraries"
)

// itemTags maps recognized section types to the tag of their item children.
var itemTags = map[SectionType]string{
	SectionLanguages:    "language",
	SectionRules:        "rule",
	SectionRequirements: "requirement",
	SectionLibraries:    "library",
}

// ItemTag returns the singular child tag for a recognized section type.
func (t SectionType) ItemTag() (string, bool) {
	tag, ok := itemTags[t]
	return tag, ok
}

// Recognized reports whether the section type produces items.
func (t SectionType) Recognized() bool {
	_, ok := itemTags[t]
	return ok
}

// Section groups items, or carries only direct text when its type is not
// recognized.
type Section struct {
	Type       SectionType `json:"type" yaml:"type"`
	DirectText string      `json:"direct_text" yaml:"direct_text"`
	Items      []Item      `json:"items,omitempty" yaml:"items,omitempty"`
}

// TemplateModel is the intermediate representation of a prompt template
// document. It is rebuilt on every extraction and never mutated afterwards.
type TemplateModel struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// SectionsOfType returns the sections whose type matches, in document order.
func (m TemplateModel) SectionsOfType(sectionType SectionType) []Section {
	var out []Section
	for _, section := range m.Sections {
		if section.Type == sectionType {
			out = append(out, section)
		}
	}
	return out
}

// ItemCount returns the number of items across all sections.
func (m TemplateModel) ItemCount() int {
	total := 0
	for _, section := range m.Sections {
		total += len(section.Items)
	}
	return total
}

// RenderContext flattens the model into the mapping shape templates iterate
// over: name, description, and one list per recognized section type holding
// {text, sub_items: [{type, text}]} records. Items from repeated sections of
// the same type are concatenated in document order.
func (m TemplateModel) RenderContext() map[string]any {
	out := map[string]any{
		"name":        m.Name,
		"description": m.Description,
	}
	for sectionType := range itemTags {
		out[string(sectionType)] = []any{}
	}

	for _, section := range m.Sections {
		if !section.Type.Recognized() {
			continue
		}
		key := string(section.Type)
		items := out[key].([]any)
		for _, item := range section.Items {
			subItems := make([]any, 0, len(item.Annotations))
			for _, ann := range item.Annotations {
				subItems = append(subItems, map[string]any{
					"type": string(ann.Kind),
					"text": ann.Text,
				})
			}
			items = append(items, ItemRecord(item.Text, subItems))
		}
		out[key] = items
	}
	return out
}

// ItemListKeys returns the render context keys holding item records, one per
// recognized section type, in sorted order.
func ItemListKeys() []string {
	keys := make([]string, 0, len(itemTags))
	for sectionType := range itemTags {
		keys = append(keys, string(sectionType))
	}
	sort.Strings(keys)
	return keys
}

// ItemRecord builds the {text, sub_items} record templates iterate over. A nil
// subItems becomes an empty list.
func ItemRecord(text string, subItems []any) map[string]any {
	if subItems == nil {
		subItems = []any{}
	}
	return map[string]any{
		"text":      text,
		"sub_items": subItems,
	}
}
