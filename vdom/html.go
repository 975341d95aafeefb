package vdom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToHTML converts n into an x/net/html node tree. Click handlers have no
// markup equivalent and are dropped.
func ToHTML(n *VNode) *html.Node {
	if n == nil {
		return nil
	}
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Content}
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.SortedAttrs() {
		el.Attr = append(el.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	if n.Content != "" {
		if n.Tag == "input" || n.Tag == "textarea" {
			el.Attr = append(el.Attr, html.Attribute{Key: "value", Val: n.Content})
		} else {
			el.AppendChild(&html.Node{Type: html.TextNode, Data: n.Content})
		}
	}
	for _, child := range n.Children {
		if c := ToHTML(child); c != nil {
			el.AppendChild(c)
		}
	}
	return el
}

// RenderHTML serialises n to markup.
func RenderHTML(n *VNode) (string, error) {
	node := ToHTML(n)
	if node == nil {
		return "", nil
	}
	var sb strings.Builder
	if err := html.Render(&sb, node); err != nil {
		return "", err
	}
	return sb.String(), nil
}
