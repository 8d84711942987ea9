package document

// Node is the generic labeled tree produced by a Parser. Children keep document
// order, which downstream stages treat as display order.
type Node struct {
	Tag        string            `json:"tag"`
	Attributes map[string]string `json:"attributes,omitempty"`
	// Text holds the character data that precedes the first child element.
	Text     string  `json:"text,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Attr returns the named attribute and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil || n.Attributes == nil {
		return "", false
	}
	value, ok := n.Attributes[name]
	return value, ok
}

// AttrOr returns the named attribute or fallback when it is absent.
func (n *Node) AttrOr(name, fallback string) string {
	if value, ok := n.Attr(name); ok {
		return value
	}
	return fallback
}

// FirstChild returns the first direct child with the given tag, or nil.
func (n *Node) FirstChild(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child != nil && child.Tag == tag {
			return child
		}
	}
	return nil
}

// ChildrenByTag returns the direct children with the given tag in document
// order.
func (n *Node) ChildrenByTag(tag string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		if child != nil && child.Tag == tag {
			out = append(out, child)
		}
	}
	return out
}
