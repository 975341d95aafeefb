package vdom

import (
	"fmt"
	"sort"
)

// VNode represents a virtual DOM node.
// A node with an empty Tag is a text node holding Content.
type VNode struct {
	Tag        string         // The HTML tag name
	Attributes map[string]any // The attributes of the node
	Children   []*VNode       // The child nodes
	Content    string         // Text content, rendered before Children
	OnClick    func()         // Optional click event handler
}

// NewVNode creates a new VNode.
func NewVNode(tag string, attributes map[string]any, children []*VNode, content string) *VNode {
	var onClick func()
	if attributes != nil {
		if v, ok := attributes["onClick"]; ok {
			if f, ok := v.(func()); ok {
				onClick = f
				// Remove from attributes so it doesn't get rendered as an HTML attribute
				delete(attributes, "onClick")
			}
		}
	}
	return &VNode{
		Tag:        tag,
		Attributes: attributes,
		Children:   compact(children),
		Content:    content,
		OnClick:    onClick,
	}
}

func compact(children []*VNode) []*VNode {
	out := children[:0:0]
	for _, c := range children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// SetContent updates the Content field of the VNode.
func (v *VNode) SetContent(content string) {
	v.Content = content
}

// IsText reports whether v is a bare text node.
func (v *VNode) IsText() bool {
	return v.Tag == ""
}

// Attr is one rendered attribute.
type Attr struct {
	Name  string
	Value string
}

// SortedAttrs returns the attributes in name order with values formatted as
// strings. A false bool omits the attribute; true renders it empty.
func (v *VNode) SortedAttrs() []Attr {
	names := make([]string, 0, len(v.Attributes))
	for k := range v.Attributes {
		names = append(names, k)
	}
	sort.Strings(names)

	attrs := make([]Attr, 0, len(names))
	for _, k := range names {
		switch val := v.Attributes[k].(type) {
		case nil:
			continue
		case bool:
			if val {
				attrs = append(attrs, Attr{Name: k})
			}
		case string:
			attrs = append(attrs, Attr{Name: k, Value: val})
		default:
			attrs = append(attrs, Attr{Name: k, Value: fmt.Sprint(val)})
		}
	}
	return attrs
}

// Text creates a text node.
func Text(s string) *VNode {
	return &VNode{Content: s}
}

// Paragraph creates a <p> VNode with the given text as its child and allows passing attributes.
func Paragraph(text string, attrs map[string]any) *VNode {
	return NewVNode("p", attrs, nil, text)
}

// Heading creates an <h1>..<h6> VNode. Out of range levels are clamped.
func Heading(level int, text string, attrs map[string]any) *VNode {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return NewVNode(fmt.Sprintf("h%d", level), attrs, nil, text)
}

// Span creates a <span> VNode.
func Span(text string, attrs map[string]any) *VNode {
	return NewVNode("span", attrs, nil, text)
}

// Anchor creates an <a> VNode pointing at href.
func Anchor(href string, attrs map[string]any, children ...*VNode) *VNode {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	attrs["href"] = href
	return NewVNode("a", attrs, children, "")
}

// InputText returns a VNode representing an <input type="text"> element.
// Optionally accepts a map of attributes (e.g., {"placeholder": "Type here"}).
func InputText(attrs map[string]any) *VNode {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	attrs["type"] = "text"
	return NewVNode("input", attrs, nil, "")
}

// Div creates a <div> VNode with the given children and allows passing attributes.
func Div(attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("div", attrs, children, "")
}

// Button creates a <button> VNode with the given children and allows passing attributes.
func Button(content string, attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("button", attrs, children, content)
}
