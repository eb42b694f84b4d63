package markup

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	nethtml "golang.org/x/net/html"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"img": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "ul": true,
	"script": true, "style": true, "noscript": true,
}

// Lines renders markup as terminal lines wrapped at width. When the page has
// the region element only that element is rendered, otherwise the body.
func Lines(raw, region string, width int) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	root := findRegion(raw, region)
	if root == nil {
		doc, err := nethtml.Parse(strings.NewReader(raw))
		if err != nil {
			return wrapText(html.UnescapeString(raw), width)
		}
		root = findNode(doc, func(n *nethtml.Node) bool {
			return n.Type == nethtml.ElementNode && n.Data == "body"
		})
		if root == nil {
			return wrapText(html.UnescapeString(raw), width)
		}
	}
	r := blockRenderer{width: max(1, width)}
	return trimBlankLines(r.nodes(childNodes(root), 0))
}

type blockRenderer struct {
	width int
}

func (r blockRenderer) nodes(nodes []*nethtml.Node, depth int) []string {
	lines := make([]string, 0, len(nodes)*2)
	pending := make([]string, 0, 4)
	appendBlock := func(block []string) {
		if len(block) == 0 {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	flush := func() {
		text := normalizeInlineText(strings.Join(pending, " "))
		pending = pending[:0]
		if text != "" {
			appendBlock(wrapText(text, r.width))
		}
	}

	for _, node := range nodes {
		switch node.Type {
		case nethtml.TextNode:
			pending = append(pending, node.Data)
		case nethtml.ElementNode:
			if blockElements[strings.ToLower(node.Data)] {
				flush()
				appendBlock(r.block(node, depth))
				continue
			}
			pending = append(pending, r.inline(node))
		}
	}
	flush()
	return trimBlankLines(lines)
}

func (r blockRenderer) block(node *nethtml.Node, depth int) []string {
	tag := strings.ToLower(node.Data)
	switch tag {
	case "script", "style", "noscript":
		return nil
	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := normalizeInlineText(r.inlineChildren(node))
		if text == "" {
			return nil
		}
		prefix := headingPrefix(int(tag[1] - '0'))
		return styleLines(wrapPrefixed(text, r.width, prefix, strings.Repeat(" ", visibleLen(prefix))), headingStyle)
	case "blockquote":
		inner := r.nodes(childNodes(node), depth)
		out := make([]string, 0, len(inner))
		for _, line := range inner {
			if strings.TrimSpace(line) == "" {
				out = append(out, "")
				continue
			}
			out = append(out, quoteBar+quoteText.Render(line))
		}
		return out
	case "ul", "ol":
		return r.list(node, tag == "ol", depth+1)
	case "li":
		return wrapPrefixed(normalizeInlineText(r.inlineChildren(node)), r.width, "- ", "  ")
	case "pre":
		text := strings.ReplaceAll(collectRawText(node), "\r\n", "\n")
		out := make([]string, 0, 8)
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimRight(line, " \t")
			if line == "" {
				out = append(out, "")
				continue
			}
			out = append(out, "    "+codeStyle.Render(line))
		}
		return trimBlankLines(out)
	case "hr":
		return []string{ruleStyle.Render(strings.Repeat("─", min(r.width, 24)))}
	case "img":
		label := nodeAttr(node, "alt")
		if label == "" {
			label = "image"
		}
		return wrapPrefixed(imageLabel.Render("[Image]")+" "+label, r.width, "", "  ")
	case "figcaption":
		text := normalizeInlineText(r.inlineChildren(node))
		return styleLines(wrapPrefixed(text, r.width, "— ", "  "), captionStyle)
	case "table":
		return r.table(node)
	case "dl", "dt", "dd":
		return r.nodes(childNodes(node), depth)
	default:
		if hasBlockChild(node) {
			return r.nodes(childNodes(node), depth)
		}
		text := normalizeInlineText(r.inlineChildren(node))
		if text == "" {
			return nil
		}
		return wrapText(text, r.width)
	}
}

func (r blockRenderer) list(node *nethtml.Node, ordered bool, depth int) []string {
	indent := strings.Repeat("  ", max(0, depth-1))
	lines := make([]string, 0, 8)
	n := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || strings.ToLower(child.Data) != "li" {
			continue
		}
		n++
		marker := "• "
		if ordered {
			marker = fmt.Sprintf("%d. ", n)
		}
		first := indent + marker
		rest := strings.Repeat(" ", visibleLen(first))

		inline := make([]string, 0, 2)
		var nested []string
		for part := child.FirstChild; part != nil; part = part.NextSibling {
			if part.Type == nethtml.ElementNode {
				switch strings.ToLower(part.Data) {
				case "ul", "ol":
					nested = append(nested, r.list(part, strings.ToLower(part.Data) == "ol", depth+1)...)
					continue
				}
			}
			inline = append(inline, r.inline(part))
		}
		if text := normalizeInlineText(strings.Join(inline, " ")); text != "" {
			lines = append(lines, wrapPrefixed(text, r.width, first, rest)...)
		}
		lines = append(lines, nested...)
	}
	return lines
}

func (r blockRenderer) table(node *nethtml.Node) []string {
	var rows [][]string
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != nethtml.ElementNode {
				continue
			}
			if strings.ToLower(child.Data) != "tr" {
				walk(child)
				continue
			}
			var cells []string
			for cell := child.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type != nethtml.ElementNode {
					continue
				}
				switch strings.ToLower(cell.Data) {
				case "td", "th":
					cells = append(cells, normalizeInlineText(r.inlineChildren(cell)))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		}
	}
	walk(node)

	lines := make([]string, 0, len(rows))
	for i, cells := range rows {
		line := "| " + strings.Join(cells, " | ") + " |"
		if i == 0 {
			line = tableHeader.Render(line)
		}
		lines = append(lines, line)
	}
	return lines
}

func (r blockRenderer) inlineChildren(node *nethtml.Node) string {
	parts := make([]string, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		parts = append(parts, r.inline(child))
	}
	return strings.Join(parts, " ")
}

func (r blockRenderer) inline(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
	default:
		return ""
	}
	switch strings.ToLower(node.Data) {
	case "script", "style", "noscript":
		return ""
	case "br":
		return "\n"
	case "img":
		if alt := nodeAttr(node, "alt"); alt != "" {
			return imageLabel.Render("[" + alt + "]")
		}
		return ""
	case "a":
		text := normalizeInlineText(r.inlineChildren(node))
		href := nodeAttr(node, "href")
		switch {
		case href == "" || strings.HasPrefix(href, "#"):
			return text
		case text == "" || strings.EqualFold(text, href):
			return linkStyle.Render(href)
		default:
			return text + " " + linkStyle.Render("("+href+")")
		}
	case "code", "kbd", "samp":
		text := normalizeInlineText(r.inlineChildren(node))
		if text == "" {
			return ""
		}
		return codeStyle.Render("`" + text + "`")
	case "strong", "b":
		return strongStyle.Render(normalizeInlineText(r.inlineChildren(node)))
	case "em", "i":
		return emphasisStyle.Render(normalizeInlineText(r.inlineChildren(node)))
	default:
		return r.inlineChildren(node)
	}
}

func childNodes(node *nethtml.Node) []*nethtml.Node {
	children := make([]*nethtml.Node, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		children = append(children, child)
	}
	return children
}

func hasBlockChild(node *nethtml.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && blockElements[strings.ToLower(child.Data)] {
			return true
		}
	}
	return false
}

func headingPrefix(level int) string {
	if level <= 1 {
		return "▌ "
	}
	return strings.Repeat("▌", min(level, 3)-1) + "▌ "
}

func normalizeInlineText(s string) string {
	s = html.UnescapeString(s)
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Join(strings.Fields(part), " ")
		if part != "" {
			out = append(out, part)
		}
	}
	return punctuationFixer.Replace(strings.Join(out, "\n"))
}

var punctuationFixer = strings.NewReplacer(
	" .", ".",
	" ,", ",",
	" ;", ";",
	" :", ":",
	" !", "!",
	" ?", "?",
	" )", ")",
	"( ", "(",
)

func wrapPrefixed(text string, width int, first, rest string) []string {
	if text == "" {
		return nil
	}
	body := wrapText(text, max(1, width-visibleLen(first)))
	out := make([]string, len(body))
	for i, line := range body {
		if i == 0 {
			out[i] = first + line
			continue
		}
		out[i] = rest + line
	}
	return out
}

func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	out := make([]string, 0, 4)
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			for visibleLen(word) > width && StripANSI(word) == word {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				runes := []rune(word)
				out = append(out, string(runes[:width]))
				word = string(runes[width:])
			}
			switch {
			case line == "":
				line = word
			case visibleLen(line)+1+visibleLen(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Wrap splits plain text into lines of at most width characters.
func Wrap(text string, width int) []string {
	return wrapText(text, width)
}

func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)-1
	for start <= end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end >= start && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	if end < start {
		return nil
	}
	out := make([]string, 0, end-start+1)
	prevBlank := false
	for _, line := range lines[start : end+1] {
		blank := strings.TrimSpace(line) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}
	return out
}

func styleLines(lines []string, style lipgloss.Style) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = line
			continue
		}
		out[i] = style.Render(line)
	}
	return out
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// StripANSI removes SGR escape sequences.
func StripANSI(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
