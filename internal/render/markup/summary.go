package markup

import (
	"strings"
	"unicode/utf8"

	nethtml "golang.org/x/net/html"
)

const (
	// DefaultRegion is the class token marking the post body in content pages.
	DefaultRegion = "post-content"
	// SummaryLimit is the maximum number of characters kept before truncation.
	SummaryLimit = 300
	Ellipsis     = "..."
)

// Summary extracts the text content of the region, trims it and truncates it
// to limit characters. A page without the region yields "".
func Summary(raw, region string, limit int) string {
	text, ok := RegionText(raw, region)
	if !ok {
		return ""
	}
	return Truncate(strings.TrimSpace(text), limit)
}

// Truncate keeps text as-is when it fits in limit characters, otherwise the
// first limit characters followed by Ellipsis.
func Truncate(text string, limit int) string {
	if limit < 1 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + Ellipsis
}

// RegionText returns the concatenated text nodes below the first element
// carrying the region class, and whether such an element exists.
func RegionText(raw, region string) (string, bool) {
	node := findRegion(raw, region)
	if node == nil {
		return "", false
	}
	return collectRawText(node), true
}

func findRegion(raw, region string) *nethtml.Node {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if region == "" {
		region = DefaultRegion
	}
	doc, err := nethtml.Parse(strings.NewReader(raw))
	if err != nil {
		return nil
	}
	return findNode(doc, func(n *nethtml.Node) bool {
		return n.Type == nethtml.ElementNode && hasClass(n, region)
	})
}

func findNode(node *nethtml.Node, match func(*nethtml.Node) bool) *nethtml.Node {
	if node == nil {
		return nil
	}
	if match(node) {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findNode(child, match); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(node *nethtml.Node, class string) bool {
	for _, token := range strings.Fields(nodeAttr(node, "class")) {
		if token == class {
			return true
		}
	}
	return false
}

func nodeAttr(node *nethtml.Node, name string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func collectRawText(node *nethtml.Node) string {
	if node == nil {
		return ""
	}
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(collectRawText(child))
	}
	return b.String()
}
