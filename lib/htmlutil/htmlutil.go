package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText collapses runs of whitespace (the hiscore tables pad player
// names with non-breaking spaces and newlines) into single spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

type Anchor struct {
	Name string
	Href string
}

// Anchors returns the cleaned text and href of every <a> under the selection.
func Anchors(sel *goquery.Selection) []Anchor {
	var out []Anchor
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		if len(a.Nodes) == 0 {
			return
		}
		name := CleanText(GetText(a.Nodes[0]))
		if name == "" {
			return
		}
		out = append(out, Anchor{
			Name: name,
			Href: a.AttrOr("href", ""),
		})
	})
	return out
}
