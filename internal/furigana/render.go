package furigana

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RubyNode is one annotated run: Base is displayed with Reading as a small
// phonetic guide above it. Key is the position of the node and is stable
// for list rendering.
type RubyNode struct {
	Key     int    `json:"key"`
	Base    string `json:"base"`
	Reading string `json:"reading"`
}

// Markup is the renderable form of an annotation string. It either holds
// ruby nodes or, when the string has no pairs, the original text.
type Markup struct {
	Text  string
	Nodes []RubyNode
}

// IsText reports whether the markup is the unannotated original text.
func (m Markup) IsText() bool {
	return len(m.Nodes) == 0
}

// Render converts an annotation string into ruby markup. Text between or
// around pairs is not part of the output once at least one pair matched.
func Render(annotation string) Markup {
	var nodes []RubyNode
	for seg := range Segments(annotation) {
		nodes = append(nodes, RubyNode{
			Key:     len(nodes),
			Base:    seg.Base,
			Reading: seg.Reading,
		})
	}

	if len(nodes) == 0 {
		return Markup{Text: annotation}
	}
	return Markup{Nodes: nodes}
}

// HTML renders the markup as HTML, one <ruby> element per node.
func (m Markup) HTML() string {
	var b strings.Builder

	if m.IsText() {
		// Text nodes are escaped by the renderer
		_ = html.Render(&b, &html.Node{Type: html.TextNode, Data: m.Text})
		return b.String()
	}

	for _, node := range m.Nodes {
		_ = html.Render(&b, rubyElement(node))
	}
	return b.String()
}

func rubyElement(node RubyNode) *html.Node {
	ruby := &html.Node{Type: html.ElementNode, DataAtom: atom.Ruby, Data: "ruby"}
	ruby.AppendChild(&html.Node{Type: html.TextNode, Data: node.Base})

	rt := &html.Node{Type: html.ElementNode, DataAtom: atom.Rt, Data: "rt"}
	rt.AppendChild(&html.Node{Type: html.TextNode, Data: node.Reading})
	ruby.AppendChild(rt)

	return ruby
}
