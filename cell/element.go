package cell

import (
	"html"
	"sort"
	"strings"
)

// An Element is the visual node a cell renderer creates and paints.
type Element interface {
	Tag() string
	Style(name string) string
	SetStyle(name, value string)
	Class() string
	SetClass(class string)
	SetHTML(markup string)
	SetText(text string)
	Data(key string) (string, bool)
	SetData(key, value string)
}

// A Document creates elements.
type Document interface {
	CreateElement(tag string) Element
}

// HTMLDocument creates in-memory Nodes.
type HTMLDocument struct{}

// CreateElement returns a new *Node.
func (HTMLDocument) CreateElement(tag string) Element {
	return NewNode(tag)
}

// Node is an in-memory Element that can be serialised as HTML.
type Node struct {
	tag    string
	class  string
	styles map[string]string
	data   map[string]string
	inner  string
}

// NewNode creates an empty element.
func NewNode(tag string) *Node {
	return &Node{
		tag:    tag,
		styles: make(map[string]string),
		data:   make(map[string]string),
	}
}

func (n *Node) Tag() string {
	return n.tag
}

func (n *Node) Style(name string) string {
	return n.styles[name]
}

// SetStyle sets a style property. An empty value removes it.
func (n *Node) SetStyle(name, value string) {
	if value == "" {
		delete(n.styles, name)
		return
	}
	n.styles[name] = value
}

func (n *Node) Class() string {
	return n.class
}

func (n *Node) SetClass(class string) {
	n.class = class
}

// SetHTML replaces the content with markup, unescaped.
func (n *Node) SetHTML(markup string) {
	n.inner = markup
}

// SetText replaces the content with escaped text.
func (n *Node) SetText(text string) {
	n.inner = html.EscapeString(text)
}

// InnerHTML returns the content as markup.
func (n *Node) InnerHTML() string {
	return n.inner
}

func (n *Node) Data(key string) (string, bool) {
	v, ok := n.data[key]
	return v, ok
}

func (n *Node) SetData(key, value string) {
	n.data[key] = value
}

// OuterHTML serialises the element with its styles sorted by name.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.tag)
	if n.class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(n.class))
		b.WriteString(`"`)
	}
	if len(n.styles) > 0 {
		names := make([]string, 0, len(n.styles))
		for name := range n.styles {
			names = append(names, name)
		}
		sort.Strings(names)
		decls := make([]string, len(names))
		for i, name := range names {
			decls[i] = name + ":" + n.styles[name]
		}
		b.WriteString(` style="`)
		b.WriteString(html.EscapeString(strings.Join(decls, ";")))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(n.inner)
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteString(">")
	return b.String()
}

// EscapeText escapes text for use as markup. Newlines are dropped and runs of
// spaces are kept visible with non-breaking spaces.
func EscapeText(text string) string {
	escaped := html.EscapeString(text)
	escaped = strings.NewReplacer("\r\n", "", "\n", "", "\r", "").Replace(escaped)
	var b strings.Builder
	prevSpace := false
	for _, r := range escaped {
		if r == ' ' {
			if prevSpace {
				b.WriteString("&nbsp;")
			} else {
				b.WriteRune(r)
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
