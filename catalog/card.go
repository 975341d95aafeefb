package catalog

import (
	"strings"

	"github.com/vcrobe/navdeck/vdom"
)

// DefaultIcon is used for sites without an icon.
const DefaultIcon = "./icons/default-icon.svg"

// Labels are the user-visible strings on cards.
type Labels struct {
	Untitled      string
	NoDescription string
	New           string
	Hot           string
	Empty         string
	// IconSuffix follows the site name in the icon's aria-label.
	IconSuffix string
}

// DefaultLabels are the English labels.
func DefaultLabels() Labels {
	return Labels{
		Untitled:      "Untitled site",
		NoDescription: "No description yet",
		New:           "New",
		Hot:           "Hot",
		Empty:         "Nothing here yet, stay tuned...",
		IconSuffix:    " icon",
	}
}

// Card renders one site. The icon is a lazy background target.
func Card(s Site, l Labels) *vdom.VNode {
	classes := []string{"site-card"}
	if s.IsNew {
		classes = append(classes, "is-new")
	}
	if s.IsHot {
		classes = append(classes, "is-hot")
	}

	name := s.Name
	if name == "" {
		name = l.Untitled
	}
	desc := s.Description
	if desc == "" {
		desc = l.NoDescription
	}
	icon := s.Icon
	if icon == "" {
		icon = DefaultIcon
	}
	href := s.URL
	if href == "" {
		href = "#"
	}

	var newBadge, hotBadge *vdom.VNode
	if s.IsNew {
		newBadge = vdom.Span(l.New, map[string]any{"class": "site-badge new-badge"})
	}
	if s.IsHot {
		hotBadge = vdom.Span(l.Hot, map[string]any{"class": "site-badge hot-badge"})
	}

	return vdom.Div(map[string]any{
		"class":           strings.Join(classes, " "),
		"data-categories": strings.Join(s.Categories(), ","),
	},
		vdom.Anchor(href, map[string]any{
			"target": "_blank",
			"rel":    "noopener",
			"class":  "site-link",
			"title":  s.Name,
		},
			vdom.Div(map[string]any{
				"class":      "site-icon lazy",
				"data-src":   icon,
				"aria-label": s.Name + l.IconSuffix,
			}),
			vdom.Div(map[string]any{"class": "site-info"},
				vdom.Heading(3, name, map[string]any{"class": "site-name"}),
				vdom.Paragraph(desc, map[string]any{"class": "site-desc"}),
			),
			newBadge,
			hotBadge,
		),
	)
}

// EmptyMessage is shown in a category without sites.
func EmptyMessage(l Labels) *vdom.VNode {
	return vdom.Div(map[string]any{"class": "empty-message"}, vdom.Text(l.Empty))
}

// Cards renders a section's sites, or the empty message.
func Cards(sec Section, l Labels) []*vdom.VNode {
	if len(sec.Sites) == 0 {
		return []*vdom.VNode{EmptyMessage(l)}
	}
	out := make([]*vdom.VNode, 0, len(sec.Sites))
	for _, s := range sec.Sites {
		out = append(out, Card(s, l))
	}
	return out
}
